package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection type values
const (
	CollectionPublic  = "public"
	CollectionPrivate = "private"
)

// Collection is a named grouping of nuggets, stored in PostgreSQL.
type Collection struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatorID   string    `json:"creator_id"`
	Type        string    `json:"type"`
	EntryCount  int       `json:"entry_count"`
}

// CollectionEntry is one nugget inside a collection.
type CollectionEntry struct {
	ID           uuid.UUID `json:"id"`
	CollectionID uuid.UUID `json:"collection_id"`
	ArticleID    string    `json:"article_id"`
	AddedBy      string    `json:"added_by"`
	AddedAt      time.Time `json:"added_at"`
	FlaggedBy    []string  `json:"flagged_by"`
}
