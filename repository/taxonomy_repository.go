package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blog/models"

	"gorm.io/gorm"
)

// TaxonomyRepository reads categories and tags.
type TaxonomyRepository interface {
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	// ListCategories returns all categories by name. With publishedOnly, PostCount ignores drafts.
	ListCategories(ctx context.Context, publishedOnly bool) ([]models.CategoryWithCount, error)
	// ListTags returns all tags by name. With publishedOnly, PostCount ignores drafts.
	ListTags(ctx context.Context, publishedOnly bool) ([]models.TagWithCount, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new instance of TaxonomyRepository.
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [TaxonomyRepository] Category with slug '%s' not found.", slug)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve category with slug '%s': %w", slug, err)
	}
	return &category, nil
}

func (r *taxonomyRepository) FindTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [TaxonomyRepository] Tag with slug '%s' not found.", slug)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve tag with slug '%s': %w", slug, err)
	}
	return &tag, nil
}

func (r *taxonomyRepository) ListCategories(ctx context.Context, publishedOnly bool) ([]models.CategoryWithCount, error) {
	join := "LEFT JOIN posts ON posts.category_id = categories.id"
	var args []interface{}
	if publishedOnly {
		join += " AND posts.published = ?"
		args = append(args, true)
	}

	var categories []models.CategoryWithCount
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, categories.slug, categories.description, COUNT(posts.id) AS post_count").
		Joins(join, args...).
		Group("categories.id, categories.name, categories.slug, categories.description").
		Order("categories.name ASC").
		Scan(&categories).Error
	if err != nil {
		log.Printf("ERROR: [TaxonomyRepository] Failed to list categories: %v", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *taxonomyRepository) ListTags(ctx context.Context, publishedOnly bool) ([]models.TagWithCount, error) {
	join := "LEFT JOIN posts ON posts.id = post_tags.post_id"
	var args []interface{}
	if publishedOnly {
		join += " AND posts.published = ?"
		args = append(args, true)
	}

	var tags []models.TagWithCount
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.id, tags.name, tags.slug, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins(join, args...).
		Group("tags.id, tags.name, tags.slug").
		Order("tags.name ASC").
		Scan(&tags).Error
	if err != nil {
		log.Printf("ERROR: [TaxonomyRepository] Failed to list tags: %v", err)
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}
