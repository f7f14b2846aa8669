package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LegalPage is a CMS-style document (terms, privacy policy, guidelines).
type LegalPage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Slug  string `bson:"slug" json:"slug"` // stored lowercased, unique
	Title string `bson:"title" json:"title"`
	Body  string `bson:"body" json:"body"`
}
