package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/nuggetsapp/nuggets-backend/internal/database"
)

// Slugify generates a URL-friendly slug from a collection name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '-'
	}, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")
	if s == "" {
		s = "collection"
	}
	return s
}

// GenerateUniqueCollectionSlug generates a globally-unique slug for a collection.
func GenerateUniqueCollectionSlug(name string) string {
	base := Slugify(name)
	slug := base

	var exists bool
	for {
		err := database.PostgresDB.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM collections WHERE LOWER(slug) = LOWER($1))
		`, slug).Scan(&exists)
		if err != nil {
			// On any error, fall back to a UUID-based slug to avoid blocking creation.
			return base + "-" + uuid.New().String()
		}
		if !exists {
			return slug
		}
		slug = base + "-" + uuid.New().String()[:8]
	}
}

// CollectionCreator returns the creator_id of a collection, or sql.ErrNoRows.
func CollectionCreator(collectionID uuid.UUID) (string, error) {
	var creatorID string
	err := database.PostgresDB.QueryRow(`
		SELECT creator_id FROM collections WHERE id = $1
	`, collectionID).Scan(&creatorID)
	if err != nil {
		return "", err
	}
	return creatorID, nil
}

// IsCollectionVisible reports whether a user may view a collection: public
// collections are visible to everyone, private ones only to their creator.
func IsCollectionVisible(collectionType, creatorID, viewerID string) bool {
	if collectionType == "public" {
		return true
	}
	return viewerID != "" && viewerID == creatorID
}
