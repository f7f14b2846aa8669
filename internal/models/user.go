package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	DisplayName string `bson:"display_name" json:"display_name"`
	Email       string `bson:"email" json:"email"`
	Password    string `bson:"password" json:"-"` // Don't return password hash in JSON
	Provider    string `bson:"provider" json:"provider"`
	AvatarURL   string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	// Preferences drive the personalized feed
	InterestedCategories []string `bson:"interested_categories,omitempty" json:"interested_categories,omitempty"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
}
