package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/nuggetsapp/nuggets-backend/internal/database"
	"github.com/nuggetsapp/nuggets-backend/internal/models"
	"github.com/nuggetsapp/nuggets-backend/internal/services"
	"github.com/nuggetsapp/nuggets-backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateCollectionRequest represents the request to create a collection
type CreateCollectionRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type        string `json:"type,omitempty" validate:"omitempty,oneof=public private"`
}

// UpdateCollectionRequest represents a partial collection update
type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type        *string `json:"type,omitempty" validate:"omitempty,oneof=public private"`
}

// CollectionResponse wraps a single collection
type CollectionResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Collection *models.Collection `json:"collection,omitempty"`
}

func writeCollectionError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(CollectionResponse{
		Success: false,
		Message: message,
	})
}

const collectionColumns = `id, created_at, updated_at, name, slug, description, creator_id, type, entry_count`

func scanCollection(row interface{ Scan(...interface{}) error }) (*models.Collection, error) {
	var c models.Collection
	var description sql.NullString
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Slug, &description, &c.CreatorID, &c.Type, &c.EntryCount)
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	return &c, nil
}

// CreateCollection creates a new collection owned by the authenticated user
func CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		writeCollectionError(w, http.StatusUnauthorized, "You must be signed in to create a collection")
		return
	}

	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Default.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	collType := req.Type
	if collType == "" {
		collType = models.CollectionPublic
	}

	// One collection name per creator
	var exists bool
	err := database.PostgresDB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM collections WHERE creator_id = $1 AND LOWER(name) = LOWER($2))
	`, userID.Hex(), name).Scan(&exists)
	if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		writeCollectionError(w, http.StatusConflict, "You already have a collection with this name")
		return
	}

	slug := services.GenerateUniqueCollectionSlug(name)

	row := database.PostgresDB.QueryRow(`
		INSERT INTO collections (name, slug, description, creator_id, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+collectionColumns,
		name, slug, req.Description, userID.Hex(), collType)

	collection, err := scanCollection(row)
	if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to create collection")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CollectionResponse{
		Success:    true,
		Message:    "Collection created",
		Collection: collection,
	})
}

// ListCollections returns public collections plus the viewer's own private ones
func ListCollections(w http.ResponseWriter, r *http.Request) {
	limit, skip := parsePagination(r, 20, 100)

	viewerID := ""
	if userID := getCurrentUserID(r); userID != nil {
		viewerID = userID.Hex()
	}

	rows, err := database.PostgresDB.Query(`
		SELECT `+collectionColumns+`
		FROM collections
		WHERE type = 'public' OR creator_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`, viewerID, limit, skip)
	if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to list collections")
		return
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			writeCollectionError(w, http.StatusInternalServerError, "Failed to read collections")
			return
		}
		collections = append(collections, *c)
	}

	var total int64
	if err := database.PostgresDB.QueryRow(`
		SELECT COUNT(*) FROM collections WHERE type = 'public' OR creator_id = $1
	`, viewerID).Scan(&total); err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to count collections")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"collections": collections,
		"total":       total,
		"has_more":    int64(skip+len(collections)) < total,
	})
}

// GetCollection returns a collection with its entries. Private collections
// are only visible to their creator (404 otherwise).
func GetCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	row := database.PostgresDB.QueryRow(`
		SELECT `+collectionColumns+` FROM collections WHERE id = $1
	`, collectionID)

	collection, err := scanCollection(row)
	if err == sql.ErrNoRows {
		writeCollectionError(w, http.StatusNotFound, "Collection not found")
		return
	} else if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}

	viewerID := ""
	if userID := getCurrentUserID(r); userID != nil {
		viewerID = userID.Hex()
	}
	if !services.IsCollectionVisible(collection.Type, collection.CreatorID, viewerID) {
		writeCollectionError(w, http.StatusNotFound, "Collection not found")
		return
	}

	rows, err := database.PostgresDB.Query(`
		SELECT id, collection_id, article_id, added_by, added_at, flagged_by
		FROM collection_entries
		WHERE collection_id = $1
		ORDER BY added_at DESC
	`, collectionID)
	if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to load entries")
		return
	}
	defer rows.Close()

	entries := []models.CollectionEntry{}
	for rows.Next() {
		var entry models.CollectionEntry
		var flaggedBy pq.StringArray
		if err := rows.Scan(&entry.ID, &entry.CollectionID, &entry.ArticleID, &entry.AddedBy, &entry.AddedAt, &flaggedBy); err != nil {
			writeCollectionError(w, http.StatusInternalServerError, "Failed to read entries")
			return
		}
		entry.FlaggedBy = []string(flaggedBy)
		entries = append(entries, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"collection": collection,
		"entries":    entries,
	})
}

// UpdateCollection updates name/description/type. Creator only.
func UpdateCollection(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		writeCollectionError(w, http.StatusUnauthorized, "You must be signed in")
		return
	}

	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	var req UpdateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Default.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	creatorID, err := services.CollectionCreator(collectionID)
	if err == sql.ErrNoRows {
		writeCollectionError(w, http.StatusNotFound, "Collection not found")
		return
	} else if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if creatorID != userID.Hex() {
		writeCollectionError(w, http.StatusForbidden, "Only the creator can edit this collection")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		var exists bool
		err := database.PostgresDB.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM collections WHERE creator_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3)
		`, creatorID, name, collectionID).Scan(&exists)
		if err != nil {
			writeCollectionError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if exists {
			writeCollectionError(w, http.StatusConflict, "You already have a collection with this name")
			return
		}
		if _, err := database.PostgresDB.Exec(`
			UPDATE collections SET name = $1, updated_at = NOW() WHERE id = $2
		`, name, collectionID); err != nil {
			writeCollectionError(w, http.StatusInternalServerError, "Failed to update collection")
			return
		}
	}
	if req.Description != nil {
		if _, err := database.PostgresDB.Exec(`
			UPDATE collections SET description = $1, updated_at = NOW() WHERE id = $2
		`, *req.Description, collectionID); err != nil {
			writeCollectionError(w, http.StatusInternalServerError, "Failed to update collection")
			return
		}
	}
	if req.Type != nil {
		if _, err := database.PostgresDB.Exec(`
			UPDATE collections SET type = $1, updated_at = NOW() WHERE id = $2
		`, *req.Type, collectionID); err != nil {
			writeCollectionError(w, http.StatusInternalServerError, "Failed to update collection")
			return
		}
	}

	row := database.PostgresDB.QueryRow(`
		SELECT `+collectionColumns+` FROM collections WHERE id = $1
	`, collectionID)
	collection, err := scanCollection(row)
	if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to load collection")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CollectionResponse{
		Success:    true,
		Message:    "Collection updated",
		Collection: collection,
	})
}

// DeleteCollection removes a collection and its entries. Creator only.
func DeleteCollection(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		writeCollectionError(w, http.StatusUnauthorized, "You must be signed in")
		return
	}

	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	creatorID, err := services.CollectionCreator(collectionID)
	if err == sql.ErrNoRows {
		writeCollectionError(w, http.StatusNotFound, "Collection not found")
		return
	} else if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if creatorID != userID.Hex() {
		writeCollectionError(w, http.StatusForbidden, "Only the creator can delete this collection")
		return
	}

	// Entries are removed by ON DELETE CASCADE
	if _, err := database.PostgresDB.Exec(`DELETE FROM collections WHERE id = $1`, collectionID); err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to delete collection")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddCollectionEntryRequest represents the request to add a nugget to a collection
type AddCollectionEntryRequest struct {
	ArticleID string `json:"article_id" validate:"required,len=24,hexadecimal"`
}

// AddCollectionEntry adds a nugget to a collection. Adding the same nugget
// twice is a no-op returning the existing entry.
func AddCollectionEntry(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		writeCollectionError(w, http.StatusUnauthorized, "You must be signed in")
		return
	}

	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	var req AddCollectionEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Default.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if _, err := primitive.ObjectIDFromHex(req.ArticleID); err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid article ID")
		return
	}

	creatorID, err := services.CollectionCreator(collectionID)
	if err == sql.ErrNoRows {
		writeCollectionError(w, http.StatusNotFound, "Collection not found")
		return
	} else if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var collType string
	if err := database.PostgresDB.QueryRow(`
		SELECT type FROM collections WHERE id = $1
	`, collectionID).Scan(&collType); err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Private collections accept entries only from their creator; public ones
	// from any signed-in user.
	if collType == models.CollectionPrivate && creatorID != userID.Hex() {
		writeCollectionError(w, http.StatusForbidden, "Only the creator can add to this collection")
		return
	}

	var entry models.CollectionEntry
	var flaggedBy pq.StringArray
	err = database.PostgresDB.QueryRow(`
		SELECT id, collection_id, article_id, added_by, added_at, flagged_by
		FROM collection_entries
		WHERE collection_id = $1 AND article_id = $2
	`, collectionID, req.ArticleID).Scan(&entry.ID, &entry.CollectionID, &entry.ArticleID, &entry.AddedBy, &entry.AddedAt, &flaggedBy)
	if err == nil {
		entry.FlaggedBy = []string(flaggedBy)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Article already in collection",
			"entry":   entry,
		})
		return
	} else if err != sql.ErrNoRows {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = database.PostgresDB.QueryRow(`
		INSERT INTO collection_entries (collection_id, article_id, added_by)
		VALUES ($1, $2, $3)
		RETURNING id, collection_id, article_id, added_by, added_at, flagged_by
	`, collectionID, req.ArticleID, userID.Hex()).Scan(&entry.ID, &entry.CollectionID, &entry.ArticleID, &entry.AddedBy, &entry.AddedAt, &flaggedBy)
	if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to add article")
		return
	}
	entry.FlaggedBy = []string(flaggedBy)

	database.PostgresDB.Exec(`
		UPDATE collections SET entry_count = entry_count + 1, updated_at = NOW() WHERE id = $1
	`, collectionID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Article added to collection",
		"entry":   entry,
	})
}

// RemoveCollectionEntry removes a nugget from a collection. The collection
// creator or the user who added the entry may remove it.
func RemoveCollectionEntry(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		writeCollectionError(w, http.StatusUnauthorized, "You must be signed in")
		return
	}

	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}
	articleID := chi.URLParam(r, "articleID")

	creatorID, err := services.CollectionCreator(collectionID)
	if err == sql.ErrNoRows {
		writeCollectionError(w, http.StatusNotFound, "Collection not found")
		return
	} else if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var addedBy string
	err = database.PostgresDB.QueryRow(`
		SELECT added_by FROM collection_entries WHERE collection_id = $1 AND article_id = $2
	`, collectionID, articleID).Scan(&addedBy)
	if err == sql.ErrNoRows {
		writeCollectionError(w, http.StatusNotFound, "Article not in collection")
		return
	} else if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if creatorID != userID.Hex() && addedBy != userID.Hex() {
		writeCollectionError(w, http.StatusForbidden, "You cannot remove this entry")
		return
	}

	if _, err := database.PostgresDB.Exec(`
		DELETE FROM collection_entries WHERE collection_id = $1 AND article_id = $2
	`, collectionID, articleID); err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to remove article")
		return
	}

	database.PostgresDB.Exec(`
		UPDATE collections SET entry_count = GREATEST(entry_count - 1, 0), updated_at = NOW() WHERE id = $1
	`, collectionID)

	w.WriteHeader(http.StatusNoContent)
}

// FlagCollectionEntry records that the current user flagged an entry.
// Flagging twice is a no-op.
func FlagCollectionEntry(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		writeCollectionError(w, http.StatusUnauthorized, "You must be signed in")
		return
	}

	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeCollectionError(w, http.StatusBadRequest, "Invalid collection ID")
		return
	}
	articleID := chi.URLParam(r, "articleID")

	// array_append only when the user is not already present
	result, err := database.PostgresDB.Exec(`
		UPDATE collection_entries
		SET flagged_by = array_append(flagged_by, $3)
		WHERE collection_id = $1 AND article_id = $2 AND NOT ($3 = ANY(flagged_by))
	`, collectionID, articleID, userID.Hex())
	if err != nil {
		writeCollectionError(w, http.StatusInternalServerError, "Failed to flag entry")
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		// Either the entry does not exist or the user already flagged it
		var exists bool
		err := database.PostgresDB.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM collection_entries WHERE collection_id = $1 AND article_id = $2)
		`, collectionID, articleID).Scan(&exists)
		if err != nil {
			writeCollectionError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			writeCollectionError(w, http.StatusNotFound, "Article not in collection")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Entry already flagged",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Entry flagged",
	})
}
