package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blog/models"

	"gorm.io/gorm"
)

// CommentRepository stores reader comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		log.Printf("ERROR: [CommentRepository] Failed to create comment for post %s: %v", comment.PostID, err)
		return fmt.Errorf("failed to create comment for post %s: %w", comment.PostID, err)
	}
	log.Printf("INFO: [CommentRepository] Created comment %s for post %s.", comment.ID, comment.PostID)
	return nil
}
