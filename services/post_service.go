package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"blog/models"
	"blog/repository"
)

// PostService defines post listing and single-post reads.
type PostService interface {
	ListPosts(ctx context.Context, filter repository.PostFilter) ([]models.PostSummary, error)
	// GetPostBySlug returns the post and records one view. The returned ViewCount is the value
	// read before that view was added.
	GetPostBySlug(ctx context.Context, slug string) (*models.PostDetail, error)
	// PostIDForSlug resolves a slug without loading the post or counting a view.
	PostIDForSlug(ctx context.Context, slug string) (string, error)
}

type postService struct {
	postRepo repository.PostRepository
}

// NewPostService creates a new instance of PostService.
func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) ListPosts(ctx context.Context, filter repository.PostFilter) ([]models.PostSummary, error) {
	posts, err := s.postRepo.FindPosts(ctx, filter)
	if err != nil {
		log.Printf("ERROR: [PostService] Failed to list posts: %v", err)
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return models.Summaries(posts), nil
}

func (s *postService) GetPostBySlug(ctx context.Context, slug string) (*models.PostDetail, error) {
	post, err := s.postRepo.FindPostBySlug(ctx, slug)
	if err != nil {
		log.Printf("ERROR: [PostService] Failed to load post '%s': %v", slug, err)
		return nil, fmt.Errorf("failed to load post '%s': %w", slug, err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	detail := post.Detail()

	// Increment failures never fail the read.
	if err := s.postRepo.IncrementViewCount(ctx, post.ID); err != nil {
		log.Printf("WARN: [PostService] View count for post '%s' not recorded: %v", slug, err)
	}
	return &detail, nil
}

func (s *postService) PostIDForSlug(ctx context.Context, slug string) (string, error) {
	id, err := s.postRepo.FindPostIDBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("failed to resolve post '%s': %w", slug, err)
	}
	if id == "" {
		return "", ErrPostNotFound
	}
	return id, nil
}

// ParseLimit reads a listing limit permissively: leading digits are used ("5abc" is 5),
// and anything without leading digits, or a value of zero, means no limit (0).
func ParseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		// only overflow gets here
		return 0
	}
	return n
}

// FilterFromQuery builds a PostFilter from category, tag, search, featured and limit parameters.
// featured only applies when it is exactly "true".
func FilterFromQuery(q url.Values) repository.PostFilter {
	return repository.PostFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
		Featured: q.Get("featured") == "true",
		Limit:    ParseLimit(q.Get("limit")),
	}
}
