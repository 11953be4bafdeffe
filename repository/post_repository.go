package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"blog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows a post listing. Zero values mean "no constraint".
type PostFilter struct {
	Category string // category slug
	Tag      string // tag slug
	Search   string // substring of title or content
	Featured bool   // only featured posts when true
	Limit    int    // maximum rows when > 0
}

// PostRepository defines the interface for reading posts and recording views.
type PostRepository interface {
	// FindPosts returns published posts matching every set field of filter, newest first.
	// Posts sharing a created_at have no defined relative order.
	FindPosts(ctx context.Context, filter PostFilter) ([]models.Post, error)
	// FindPostBySlug returns the post regardless of its published flag, or (nil, nil) when absent.
	FindPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	// FindPostIDBySlug returns only the post's id, or "" when absent.
	FindPostIDBySlug(ctx context.Context, slug string) (string, error)
	// IncrementViewCount adds one to the post's view counter in a single UPDATE.
	IncrementViewCount(ctx context.Context, postID string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// orderBy returns a preload scope sorting the association by column.
func orderBy(column string, desc bool) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
}

// preloadTags loads tags in the order they were attached to the post.
func preloadTags(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", orderBy("id", false)).
		Preload("Tags.Tag")
}

// escapeLike makes s match literally inside a LIKE pattern using '\' as the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func applyPostFilter(query *gorm.DB, filter PostFilter) *gorm.DB {
	query = query.Where("posts.published = ?", true)

	if filter.Category != "" {
		query = query.Where("posts.category_id IN (SELECT id FROM categories WHERE slug = ?)", filter.Category)
	}
	if filter.Tag != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id WHERE post_tags.post_id = posts.id AND tags.slug = ?)",
			filter.Tag,
		)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query = query.Where(`(posts.title LIKE ? ESCAPE '\' OR posts.content LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if filter.Featured {
		query = query.Where("posts.featured = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query.Order("posts.created_at DESC")
}

func (r *postRepository) FindPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	var posts []models.Post
	query := preloadTags(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author").
		Preload("Category")
	err := applyPostFilter(query, filter).Find(&posts).Error
	if err != nil {
		log.Printf("ERROR: [PostRepository] Failed to find posts (filter %+v): %v", filter, err)
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	log.Printf("INFO: [PostRepository] Found %d posts (filter %+v).", len(posts), filter)
	return posts, nil
}

func (r *postRepository) FindPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := preloadTags(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Category").
		Preload("Comments", orderBy("created_at", true)).
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [PostRepository] Post with slug '%s' not found.", slug)
			return nil, nil
		}
		log.Printf("ERROR: [PostRepository] Failed to retrieve post with slug '%s': %v", slug, err)
		return nil, fmt.Errorf("failed to retrieve post with slug '%s': %w", slug, err)
	}
	return &post, nil
}

func (r *postRepository) FindPostIDBySlug(ctx context.Context, slug string) (string, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Select("id").Where("slug = ?", slug).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		log.Printf("ERROR: [PostRepository] Failed to resolve slug '%s': %v", slug, err)
		return "", fmt.Errorf("failed to resolve slug '%s': %w", slug, err)
	}
	return post.ID, nil
}

func (r *postRepository) IncrementViewCount(ctx context.Context, postID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		log.Printf("ERROR: [PostRepository] Failed to increment view count for post %s: %v", postID, result.Error)
		return fmt.Errorf("failed to increment view count for post %s: %w", postID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to increment view count: post %s not found", postID)
	}
	return nil
}
