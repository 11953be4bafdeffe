package models

import "time"

// TagRef is the public shape of a tag attached to a post.
type TagRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryRef is the public shape of a post's category.
type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// AuthorRef is the author shape used in listings.
type AuthorRef struct {
	Name string `json:"name"`
}

// AuthorDetail is the author shape used on the detail view.
type AuthorDetail struct {
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// PostSummary is a post as returned by listings.
type PostSummary struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Slug      string       `json:"slug"`
	Excerpt   *string      `json:"excerpt"`
	CreatedAt time.Time    `json:"createdAt"`
	ViewCount int          `json:"viewCount"`
	Author    AuthorRef    `json:"author"`
	Category  *CategoryRef `json:"category"`
	Tags      []TagRef     `json:"tags"`
}

// PostDetail is a single post with its comments, newest first.
type PostDetail struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Slug       string       `json:"slug"`
	Content    string       `json:"content"`
	Excerpt    *string      `json:"excerpt"`
	Published  bool         `json:"published"`
	Featured   bool         `json:"featured"`
	ViewCount  int          `json:"viewCount"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	AuthorID   string       `json:"authorId"`
	CategoryID *string      `json:"categoryId"`
	Author     AuthorDetail `json:"author"`
	Category   *CategoryRef `json:"category"`
	Tags       []TagRef     `json:"tags"`
	Comments   []Comment    `json:"comments"`
}

// CategoryWithCount is a category with the number of posts filed under it.
type CategoryWithCount struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	PostCount   int64   `json:"postCount"`
}

// TagWithCount is a tag with the number of posts carrying it.
type TagWithCount struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int64  `json:"postCount"`
}

// UnwrapTags flattens join rows into their tags, keeping the join order.
func UnwrapTags(links []PostTag) []TagRef {
	tags := make([]TagRef, 0, len(links))
	for _, link := range links {
		tags = append(tags, TagRef{Name: link.Tag.Name, Slug: link.Tag.Slug})
	}
	return tags
}

func categoryRef(c *Category) *CategoryRef {
	if c == nil {
		return nil
	}
	return &CategoryRef{Name: c.Name, Slug: c.Slug}
}

// Summary projects a post loaded with Author, Category and Tags.Tag.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Excerpt:   p.Excerpt,
		CreatedAt: p.CreatedAt,
		ViewCount: p.ViewCount,
		Author:    AuthorRef{Name: p.Author.Name},
		Category:  categoryRef(p.Category),
		Tags:      UnwrapTags(p.Tags),
	}
}

// Detail projects a post loaded with Author, Category, Tags.Tag and Comments.
func (p *Post) Detail() PostDetail {
	comments := p.Comments
	if comments == nil {
		comments = []Comment{}
	}
	return PostDetail{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Content:    p.Content,
		Excerpt:    p.Excerpt,
		Published:  p.Published,
		Featured:   p.Featured,
		ViewCount:  p.ViewCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
		Author:     AuthorDetail{Name: p.Author.Name, Image: p.Author.Image},
		Category:   categoryRef(p.Category),
		Tags:       UnwrapTags(p.Tags),
		Comments:   comments,
	}
}

// Summaries projects a slice of posts.
func Summaries(posts []Post) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].Summary())
	}
	return out
}
