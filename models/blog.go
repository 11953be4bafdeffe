package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the role of a registered user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a post author. Posts reference it read-only.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Image     *string   `gorm:"type:text"`
	Role      Role      `gorm:"type:varchar(20);default:'USER';not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Post is a blog article.
type Post struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	Title      string    `gorm:"not null"`
	Slug       string    `gorm:"uniqueIndex;not null"`
	Content    string    `gorm:"type:text;not null"`
	Excerpt    *string   `gorm:"type:text"`
	Published  bool      `gorm:"default:false;index"`
	Featured   bool      `gorm:"default:false;index"`
	ViewCount  int       `gorm:"default:0;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
	AuthorID   string    `gorm:"type:varchar(36);index;not null"`
	CategoryID *string   `gorm:"type:varchar(36);index"`

	Author   User      `gorm:"foreignKey:AuthorID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
	Tags     []PostTag `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
}

// TableName specifies the table name for the Post model.
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate assigns a UUID when none is set.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Category groups posts. A post has at most one category.
type Category struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)"`
	Name        string  `gorm:"not null"`
	Slug        string  `gorm:"uniqueIndex;not null"`
	Description *string `gorm:"type:text"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns a UUID when none is set.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Tag labels posts through PostTag.
type Tag struct {
	ID   string `gorm:"primaryKey;type:varchar(36)"`
	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex;not null"`
}

// TableName specifies the table name for the Tag model.
func (Tag) TableName() string {
	return "tags"
}

// BeforeCreate assigns a UUID when none is set.
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// PostTag links a post to a tag. ID grows with insertion and fixes the order of a post's tags.
type PostTag struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	PostID string `gorm:"type:varchar(36);index;not null"`
	TagID  string `gorm:"type:varchar(36);index;not null"`
	Tag    Tag    `gorm:"foreignKey:TagID"`
}

// TableName specifies the table name for the PostTag model.
func (PostTag) TableName() string {
	return "post_tags"
}

// Comment is a reader comment on a post.
type Comment struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	AuthorName  string    `gorm:"not null" json:"authorName"`
	AuthorEmail string    `gorm:"not null" json:"authorEmail"`
	PostID      string    `gorm:"type:varchar(36);index;not null" json:"postId"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TableName specifies the table name for the Comment model.
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a UUID when none is set.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// All lists every model for AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Tag{},
		&Post{},
		&PostTag{},
		&Comment{},
	}
}
