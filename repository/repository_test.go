package repository

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"blog/config"
	"blog/database"
	"blog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// openTestDB opens a private in-memory sqlite database for one test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	cfg.Database.LogLevel = "silent"

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type fixture struct {
	author     models.User
	technology models.Category
	lifestyle  models.Category
	react      models.Tag
	nextjs     models.Tag
	lifeTag    models.Tag
	a, b, c    models.Post
}

// seed creates posts a (T0, published, featured), b (T0+1s, published) and c (T0+2s, draft).
func seed(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{
		author:     models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin},
		technology: models.Category{Name: "技术", Slug: "technology", Description: strPtr("技术相关文章")},
		lifestyle:  models.Category{Name: "生活方式", Slug: "lifestyle"},
		nextjs:     models.Tag{Name: "Next.js", Slug: "nextjs"},
		react:      models.Tag{Name: "React", Slug: "react"},
		lifeTag:    models.Tag{Name: "生活方式", Slug: "lifestyle"},
	}
	require.NoError(t, db.Create(&f.author).Error)
	require.NoError(t, db.Create(&f.technology).Error)
	require.NoError(t, db.Create(&f.lifestyle).Error)
	require.NoError(t, db.Create(&f.nextjs).Error)
	require.NoError(t, db.Create(&f.react).Error)
	require.NoError(t, db.Create(&f.lifeTag).Error)

	f.a = models.Post{
		Title: "Getting started with Next.js 13", Slug: "a",
		Content:   "The App Router is the headline feature.",
		Excerpt:   strPtr("App Router and Server Components"),
		Published: true, Featured: true, CreatedAt: t0,
		AuthorID: f.author.ID, CategoryID: &f.technology.ID,
	}
	f.b = models.Post{
		Title: "Work life balance", Slug: "b",
		Content:   "Give 100% at work and 100% at home.",
		Published: true, CreatedAt: t0.Add(time.Second),
		AuthorID: f.author.ID, CategoryID: &f.lifestyle.ID,
	}
	f.c = models.Post{
		Title: "Draft about Next.js", Slug: "c",
		Content:   "Not ready yet.",
		Published: false, CreatedAt: t0.Add(2 * time.Second),
		AuthorID: f.author.ID, CategoryID: &f.technology.ID,
	}
	require.NoError(t, db.Create(&f.a).Error)
	require.NoError(t, db.Create(&f.b).Error)
	require.NoError(t, db.Create(&f.c).Error)

	links := []models.PostTag{
		{PostID: f.a.ID, TagID: f.react.ID},
		{PostID: f.a.ID, TagID: f.nextjs.ID},
		{PostID: f.b.ID, TagID: f.lifeTag.ID},
		{PostID: f.c.ID, TagID: f.nextjs.ID},
	}
	for i := range links {
		require.NoError(t, db.Create(&links[i]).Error)
	}

	comments := []models.Comment{
		{Content: "Very useful", AuthorName: "张三", AuthorEmail: "zhangsan@example.com", PostID: f.a.ID, CreatedAt: t0.Add(time.Minute)},
		{Content: "Looking forward to more", AuthorName: "李四", AuthorEmail: "lisi@example.com", PostID: f.a.ID, CreatedAt: t0.Add(2 * time.Minute)},
	}
	for i := range comments {
		require.NoError(t, db.Create(&comments[i]).Error)
	}
	return f
}

func slugs(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func TestPostRepository_FindPosts(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter PostFilter
		want   []string
	}{
		{"no filter returns published newest first", PostFilter{}, []string{"b", "a"}},
		{"tag", PostFilter{Tag: "react"}, []string{"a"}},
		{"tag shared with a draft", PostFilter{Tag: "nextjs"}, []string{"a"}},
		{"category excludes drafts", PostFilter{Category: "technology"}, []string{"a"}},
		{"unknown category", PostFilter{Category: "missing"}, []string{}},
		{"search in title", PostFilter{Search: "balance"}, []string{"b"}},
		{"search in content", PostFilter{Search: "App Router"}, []string{"a"}},
		{"search matches percent literally", PostFilter{Search: "100%"}, []string{"b"}},
		{"search wildcard is not a wildcard", PostFilter{Search: "_"}, []string{}},
		{"search does not reach drafts", PostFilter{Search: "Not ready"}, []string{}},
		{"featured", PostFilter{Featured: true}, []string{"a"}},
		{"limit", PostFilter{Limit: 1}, []string{"b"}},
		{"limit above match count", PostFilter{Limit: 10}, []string{"b", "a"}},
		{"filters combine with AND", PostFilter{Category: "lifestyle", Search: "Next.js"}, []string{}},
		{"all filters", PostFilter{Category: "technology", Tag: "react", Search: "Next", Featured: true, Limit: 5}, []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			posts, err := repo.FindPosts(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, slugs(posts))
			for _, p := range posts {
				assert.True(t, p.Published)
			}
		})
	}

	t.Run("relations are loaded", func(t *testing.T) {
		posts, err := repo.FindPosts(ctx, PostFilter{Tag: "react"})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		post := posts[0]
		assert.Equal(t, "Admin", post.Author.Name)
		require.NotNil(t, post.Category)
		assert.Equal(t, "technology", post.Category.Slug)
		// join insertion order, not tag name order
		assert.Equal(t, []models.TagRef{{Name: "React", Slug: "react"}, {Name: "Next.js", Slug: "nextjs"}}, models.UnwrapTags(post.Tags))
		assert.Equal(t, f.a.ID, post.ID)
	})
}

func TestPostRepository_FindPostBySlug(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	t.Run("loads relations and comments newest first", func(t *testing.T) {
		post, err := repo.FindPostBySlug(ctx, "a")
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "Admin", post.Author.Name)
		assert.Equal(t, "技术", post.Category.Name)
		assert.Equal(t, []string{"react", "nextjs"}, []string{post.Tags[0].Tag.Slug, post.Tags[1].Tag.Slug})
		require.Len(t, post.Comments, 2)
		assert.Equal(t, "李四", post.Comments[0].AuthorName)
		assert.Equal(t, "张三", post.Comments[1].AuthorName)
	})

	t.Run("drafts are reachable by slug", func(t *testing.T) {
		post, err := repo.FindPostBySlug(ctx, "c")
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.False(t, post.Published)
		assert.Equal(t, f.c.ID, post.ID)
	})

	t.Run("missing slug", func(t *testing.T) {
		post, err := repo.FindPostBySlug(ctx, "missing-slug")
		assert.NoError(t, err)
		assert.Nil(t, post)
	})
}

func TestPostRepository_FindPostIDBySlug(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	id, err := repo.FindPostIDBySlug(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, f.b.ID, id)

	id, err = repo.FindPostIDBySlug(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, f.c.ID, id, "drafts resolve too")

	id, err = repo.FindPostIDBySlug(ctx, "missing-slug")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestPostRepository_IncrementViewCount(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	viewCount := func() int {
		var p models.Post
		require.NoError(t, db.First(&p, "id = ?", f.b.ID).Error)
		return p.ViewCount
	}

	t.Run("adds exactly one", func(t *testing.T) {
		before := viewCount()
		require.NoError(t, repo.IncrementViewCount(ctx, f.b.ID))
		assert.Equal(t, before+1, viewCount())
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		const k = 25
		before := viewCount()

		var wg sync.WaitGroup
		errs := make(chan error, k)
		for i := 0; i < k; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.IncrementViewCount(ctx, f.b.ID)
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		assert.Equal(t, before+k, viewCount())
	})

	t.Run("unknown post", func(t *testing.T) {
		assert.Error(t, repo.IncrementViewCount(ctx, "no-such-id"))
	})
}

func TestTaxonomyRepository(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewTaxonomyRepository(db)
	ctx := context.Background()

	t.Run("find by slug", func(t *testing.T) {
		category, err := repo.FindCategoryBySlug(ctx, "technology")
		require.NoError(t, err)
		require.NotNil(t, category)
		assert.Equal(t, "技术", category.Name)

		tag, err := repo.FindTagBySlug(ctx, "react")
		require.NoError(t, err)
		require.NotNil(t, tag)
		assert.Equal(t, "React", tag.Name)

		missingCategory, err := repo.FindCategoryBySlug(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, missingCategory)

		missingTag, err := repo.FindTagBySlug(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, missingTag)
	})

	countsBySlug := func(slugs []string, counts []int64) map[string]int64 {
		m := make(map[string]int64, len(slugs))
		for i := range slugs {
			m[slugs[i]] = counts[i]
		}
		return m
	}

	t.Run("category counts", func(t *testing.T) {
		for _, tc := range []struct {
			publishedOnly bool
			want          map[string]int64
		}{
			{true, map[string]int64{"technology": 1, "lifestyle": 1}},
			{false, map[string]int64{"technology": 2, "lifestyle": 1}},
		} {
			categories, err := repo.ListCategories(ctx, tc.publishedOnly)
			require.NoError(t, err)
			var s []string
			var c []int64
			for _, cat := range categories {
				s = append(s, cat.Slug)
				c = append(c, cat.PostCount)
			}
			assert.Equal(t, tc.want, countsBySlug(s, c), "publishedOnly=%v", tc.publishedOnly)
		}
	})

	t.Run("tag counts", func(t *testing.T) {
		for _, tc := range []struct {
			publishedOnly bool
			want          map[string]int64
		}{
			{true, map[string]int64{"react": 1, "nextjs": 1, "lifestyle": 1}},
			{false, map[string]int64{"react": 1, "nextjs": 2, "lifestyle": 1}},
		} {
			tags, err := repo.ListTags(ctx, tc.publishedOnly)
			require.NoError(t, err)
			var s []string
			var c []int64
			for _, tag := range tags {
				s = append(s, tag.Slug)
				c = append(c, tag.PostCount)
			}
			assert.Equal(t, tc.want, countsBySlug(s, c), "publishedOnly=%v", tc.publishedOnly)
		}
	})

	t.Run("empty category still listed", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Category{Name: "空", Slug: "empty"}).Error)
		categories, err := repo.ListCategories(ctx, true)
		require.NoError(t, err)
		var found bool
		for _, cat := range categories {
			if cat.Slug == "empty" {
				found = true
				assert.Zero(t, cat.PostCount)
			}
		}
		assert.True(t, found)
	})
}

func TestCommentRepository_CreateComment(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Content: "Nice", AuthorName: "王五", AuthorEmail: "wangwu@example.com", PostID: f.b.ID}
	require.NoError(t, repo.CreateComment(ctx, comment))
	assert.NotEmpty(t, comment.ID)
	assert.False(t, comment.CreatedAt.IsZero())

	var stored models.Comment
	require.NoError(t, db.First(&stored, "id = ?", comment.ID).Error)
	assert.Equal(t, "Nice", stored.Content)
	assert.Equal(t, f.b.ID, stored.PostID)

	assert.Error(t, repo.CreateComment(ctx, nil))
}
