package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Name        string `bson:"name" json:"name"` // stored lowercased, unique
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	UsageCount  int64  `bson:"usage_count" json:"usage_count"`
}
