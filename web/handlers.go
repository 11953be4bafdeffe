package web

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"blog/config"
	"blog/models"
	"blog/repository"
	"blog/services"

	"github.com/gin-gonic/gin"
)

// Site is the site-wide text shown in every page.
type Site struct {
	Title       string
	Description string
}

type pageData struct {
	Site   Site
	Year   int
	Search string
	Notice string

	Filter     repository.PostFilter
	Posts      []models.PostSummary
	Featured   []models.PostSummary
	Categories []models.CategoryWithCount
	Tags       []models.TagWithCount
	Post       *models.PostDetail
	Category   *models.Category
	Tag        *models.Tag

	Status  int
	Message string
}

// Handler serves the server-rendered pages.
type Handler struct {
	postService     services.PostService
	commentService  services.CommentService
	taxonomyService services.TaxonomyService
	site            Site
	featuredLimit   int
	recentLimit     int
}

// NewHandler creates a page Handler.
func NewHandler(
	cfg *config.Config,
	postService services.PostService,
	commentService services.CommentService,
	taxonomyService services.TaxonomyService,
) *Handler {
	return &Handler{
		postService:     postService,
		commentService:  commentService,
		taxonomyService: taxonomyService,
		site:            Site{Title: cfg.Site.Title, Description: cfg.Site.Description},
		featuredLimit:   cfg.Home.FeaturedLimit,
		recentLimit:     cfg.Home.RecentLimit,
	}
}

// RegisterRoutes mounts the pages on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.home)
	r.GET("/blog", h.blog)
	r.GET("/blog/:slug", h.post)
	r.POST("/blog/:slug/comments", h.createComment)
	r.GET("/categories", h.categories)
	r.GET("/categories/:slug", h.category)
	r.GET("/tags", h.tags)
	r.GET("/tags/:slug", h.tag)
	r.GET("/about", h.about)
}

func (h *Handler) newPage(c *gin.Context) pageData {
	return pageData{
		Site:   h.site,
		Year:   time.Now().Year(),
		Search: c.Query("search"),
	}
}

func (h *Handler) render(c *gin.Context, page string, data pageData) {
	c.HTML(http.StatusOK, page, data)
}

func (h *Handler) serverError(c *gin.Context, err error) {
	log.Printf("ERROR: [Web] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	data := h.newPage(c)
	data.Status = http.StatusInternalServerError
	data.Message = "服务器内部错误"
	c.HTML(http.StatusInternalServerError, "error", data)
}

func (h *Handler) notFound(c *gin.Context, message string) {
	data := h.newPage(c)
	data.Status = http.StatusNotFound
	data.Message = message
	c.HTML(http.StatusNotFound, "error", data)
}

// NotFound renders the 404 page for unmatched routes.
func (h *Handler) NotFound(c *gin.Context) {
	h.notFound(c, "页面未找到")
}

func (h *Handler) home(c *gin.Context) {
	ctx := c.Request.Context()
	data := h.newPage(c)

	var err error
	if data.Featured, err = h.postService.ListPosts(ctx, repository.PostFilter{Featured: true, Limit: h.featuredLimit}); err != nil {
		h.serverError(c, err)
		return
	}
	if data.Posts, err = h.postService.ListPosts(ctx, repository.PostFilter{Limit: h.recentLimit}); err != nil {
		h.serverError(c, err)
		return
	}
	if data.Categories, err = h.taxonomyService.ListCategories(ctx, false); err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, "home", data)
}

func (h *Handler) blog(c *gin.Context) {
	data := h.newPage(c)
	data.Filter = services.FilterFromQuery(c.Request.URL.Query())

	posts, err := h.postService.ListPosts(c.Request.Context(), data.Filter)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data.Posts = posts
	h.render(c, "blog", data)
}

func (h *Handler) post(c *gin.Context) {
	post, err := h.postService.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			h.notFound(c, "文章未找到")
			return
		}
		h.serverError(c, err)
		return
	}

	data := h.newPage(c)
	data.Post = post
	data.Notice = c.Query("comment")
	h.render(c, "post", data)
}

// createComment handles the comment form and redirects back to the post with a notice.
// The post is the one named by the URL; a form carrying another post's id is rejected.
func (h *Handler) createComment(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	postID, err := h.postService.PostIDForSlug(ctx, slug)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			h.notFound(c, "文章未找到")
			return
		}
		h.serverError(c, err)
		return
	}

	var input services.CommentInput
	if err := c.ShouldBind(&input); err != nil {
		h.redirectToPost(c, slug, "invalid")
		return
	}
	if input.PostID != "" && input.PostID != postID {
		log.Printf("WARN: [Web] Comment form for '%s' carried post id %s: %v", slug, input.PostID, services.ErrPostMismatch)
		h.redirectToPost(c, slug, "invalid")
		return
	}
	input.PostID = postID

	if _, err := h.commentService.CreateComment(ctx, input); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			h.redirectToPost(c, slug, "invalid")
		case errors.Is(err, services.ErrInvalidEmail):
			h.redirectToPost(c, slug, "email")
		default:
			log.Printf("ERROR: [Web] Failed to create comment on '%s': %v", slug, err)
			h.redirectToPost(c, slug, "failed")
		}
		return
	}
	h.redirectToPost(c, slug, "ok")
}

func (h *Handler) redirectToPost(c *gin.Context, slug, notice string) {
	target := "/blog/" + url.PathEscape(slug) + "?comment=" + url.QueryEscape(notice) + "#comments"
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) categories(c *gin.Context) {
	categories, err := h.taxonomyService.ListCategories(c.Request.Context(), true)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data := h.newPage(c)
	data.Categories = categories
	h.render(c, "categories", data)
}

func (h *Handler) category(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	category, err := h.taxonomyService.GetCategory(ctx, slug)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			h.notFound(c, "分类未找到")
			return
		}
		h.serverError(c, err)
		return
	}
	h.renderListing(c, "category", repository.PostFilter{Category: slug}, func(d *pageData) { d.Category = category })
}

func (h *Handler) tags(c *gin.Context) {
	tags, err := h.taxonomyService.ListTags(c.Request.Context(), true)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data := h.newPage(c)
	data.Tags = tags
	h.render(c, "tags", data)
}

func (h *Handler) tag(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	tag, err := h.taxonomyService.GetTag(ctx, slug)
	if err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			h.notFound(c, "标签未找到")
			return
		}
		h.serverError(c, err)
		return
	}
	h.renderListing(c, "tag", repository.PostFilter{Tag: slug}, func(d *pageData) { d.Tag = tag })
}

func (h *Handler) renderListing(c *gin.Context, page string, filter repository.PostFilter, fill func(*pageData)) {
	posts, err := h.postService.ListPosts(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, err)
		return
	}
	data := h.newPage(c)
	data.Filter = filter
	data.Posts = posts
	fill(&data)
	h.render(c, page, data)
}

func (h *Handler) about(c *gin.Context) {
	h.render(c, "about", h.newPage(c))
}
