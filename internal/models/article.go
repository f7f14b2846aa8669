package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article visibility values
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// ArticleAuthor is the denormalized author snapshot stored on each article.
type ArticleAuthor struct {
	ID   primitive.ObjectID `bson:"id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// ArticleMedia holds link/image/video preview metadata attached to a nugget.
type ArticleMedia struct {
	Type        string `bson:"type,omitempty" json:"type,omitempty"` // link, image, video
	URL         string `bson:"url,omitempty" json:"url,omitempty"`
	Title       string `bson:"title,omitempty" json:"title,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`
}

// ArticleDocument is an attached document (uploaded to Cloudinary).
type ArticleDocument struct {
	URL  string `bson:"url" json:"url"`
	Name string `bson:"name" json:"name"`
	Size int64  `bson:"size,omitempty" json:"size,omitempty"`
}

type Article struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
	Excerpt string `bson:"excerpt,omitempty" json:"excerpt,omitempty"`

	Author     ArticleAuthor `bson:"author" json:"author"`
	Categories []string      `bson:"categories,omitempty" json:"categories,omitempty"`
	Tags       []string      `bson:"tags,omitempty" json:"tags,omitempty"`
	Visibility string        `bson:"visibility" json:"visibility"`

	Media     *ArticleMedia     `bson:"media,omitempty" json:"media,omitempty"`
	Images    []string          `bson:"images,omitempty" json:"images,omitempty"`
	Documents []ArticleDocument `bson:"documents,omitempty" json:"documents,omitempty"`

	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
}
