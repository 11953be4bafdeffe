package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"blog/models"
	"blog/repository"
)

// emailPattern accepts local@domain.tld with no whitespace and exactly one '@'.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CommentInput is a comment submission.
type CommentInput struct {
	Content     string `json:"content" form:"content"`
	AuthorName  string `json:"authorName" form:"authorName"`
	AuthorEmail string `json:"authorEmail" form:"authorEmail"`
	PostID      string `json:"postId" form:"postId"`
}

// CommentService creates comments.
type CommentService interface {
	CreateComment(ctx context.Context, input CommentInput) (*models.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
}

// NewCommentService creates a new instance of CommentService.
func NewCommentService(commentRepo repository.CommentRepository) CommentService {
	return &commentService{commentRepo: commentRepo}
}

// CreateComment stores the comment when all four fields are non-blank and the email is well formed.
// It returns ErrMissingFields or ErrInvalidEmail otherwise. The post is not looked up first.
func (s *commentService) CreateComment(ctx context.Context, input CommentInput) (*models.Comment, error) {
	comment := &models.Comment{
		Content:     strings.TrimSpace(input.Content),
		AuthorName:  strings.TrimSpace(input.AuthorName),
		AuthorEmail: strings.TrimSpace(input.AuthorEmail),
		PostID:      strings.TrimSpace(input.PostID),
	}
	if comment.Content == "" || comment.AuthorName == "" || comment.AuthorEmail == "" || comment.PostID == "" {
		log.Printf("WARN: [CommentService] Rejected comment for post '%s': missing required fields.", input.PostID)
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(comment.AuthorEmail) {
		log.Printf("WARN: [CommentService] Rejected comment for post '%s': invalid email.", comment.PostID)
		return nil, ErrInvalidEmail
	}

	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}
