package services

import (
	"context"
	"fmt"

	"blog/models"
	"blog/repository"
)

// TaxonomyService serves category and tag browsing.
type TaxonomyService interface {
	GetCategory(ctx context.Context, slug string) (*models.Category, error)
	GetTag(ctx context.Context, slug string) (*models.Tag, error)
	ListCategories(ctx context.Context, publishedOnly bool) ([]models.CategoryWithCount, error)
	ListTags(ctx context.Context, publishedOnly bool) ([]models.TagWithCount, error)
}

type taxonomyService struct {
	repo repository.TaxonomyRepository
}

// NewTaxonomyService creates a new instance of TaxonomyService.
func NewTaxonomyService(repo repository.TaxonomyRepository) TaxonomyService {
	return &taxonomyService{repo: repo}
}

func (s *taxonomyService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load category '%s': %w", slug, err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *taxonomyService) GetTag(ctx context.Context, slug string) (*models.Tag, error) {
	tag, err := s.repo.FindTagBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag '%s': %w", slug, err)
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return tag, nil
}

func (s *taxonomyService) ListCategories(ctx context.Context, publishedOnly bool) ([]models.CategoryWithCount, error) {
	categories, err := s.repo.ListCategories(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []models.CategoryWithCount{}
	}
	return categories, nil
}

func (s *taxonomyService) ListTags(ctx context.Context, publishedOnly bool) ([]models.TagWithCount, error) {
	tags, err := s.repo.ListTags(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	if tags == nil {
		tags = []models.TagWithCount{}
	}
	return tags, nil
}
