package api

import (
	"errors"
	"log"
	"net/http"

	"blog/services"
	"blog/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler holds the services behind the JSON API.
type APIHandler struct {
	postService     services.PostService
	commentService  services.CommentService
	taxonomyService services.TaxonomyService
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	postService services.PostService,
	commentService services.CommentService,
	taxonomyService services.TaxonomyService,
) *APIHandler {
	return &APIHandler{
		postService:     postService,
		commentService:  commentService,
		taxonomyService: taxonomyService,
	}
}

// RegisterRoutes mounts the JSON endpoints on group.
func (h *APIHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/posts", h.ListPostsHandler)
	group.GET("/posts/:slug", h.GetPostHandler)
	group.POST("/comments", h.CreateCommentHandler)
	group.GET("/tags", h.ListTagsHandler)
	group.GET("/categories", h.ListCategoriesHandler)
}

// ListPostsHandler returns published posts filtered by category, tag, search, featured and limit.
func (h *APIHandler) ListPostsHandler(c *gin.Context) {
	filter := services.FilterFromQuery(c.Request.URL.Query())
	posts, err := h.postService.ListPosts(c.Request.Context(), filter)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPostHandler returns one post with its comments and counts the view.
func (h *APIHandler) GetPostHandler(c *gin.Context) {
	slug := c.Param("slug")
	post, err := h.postService.GetPostBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.SendJSONError(c, http.StatusNotFound, "Post not found", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreateCommentHandler stores a comment from a JSON body.
func (h *APIHandler) CreateCommentHandler(c *gin.Context) {
	var input services.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", nil, err.Error())
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			utils.SendJSONError(c, http.StatusBadRequest, "Missing required fields", nil)
			return
		}
		if errors.Is(err, services.ErrInvalidEmail) {
			utils.SendJSONError(c, http.StatusBadRequest, "Invalid email address", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to create comment", err)
		return
	}
	log.Printf("INFO: [API] Comment %s created for post %s.", comment.ID, comment.PostID)
	c.JSON(http.StatusCreated, comment)
}

// ListTagsHandler returns every tag with the number of posts carrying it.
func (h *APIHandler) ListTagsHandler(c *gin.Context) {
	tags, err := h.taxonomyService.ListTags(c.Request.Context(), false)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch tags", err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// ListCategoriesHandler returns every category with its published post count.
func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	categories, err := h.taxonomyService.ListCategories(c.Request.Context(), true)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
