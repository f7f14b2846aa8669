package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nuggetsapp/nuggets-backend/internal/database"
	"github.com/nuggetsapp/nuggets-backend/internal/models"
	"github.com/nuggetsapp/nuggets-backend/internal/services"
	"github.com/nuggetsapp/nuggets-backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateArticleRequest represents the request to publish a nugget
type CreateArticleRequest struct {
	Title      string                   `json:"title" validate:"required,min=3,max=200"`
	Content    string                   `json:"content" validate:"required,min=1,max=20000"`
	Excerpt    string                   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Categories []string                 `json:"categories,omitempty" validate:"omitempty,max=10,dive,min=1,max=40"`
	Tags       []string                 `json:"tags,omitempty" validate:"omitempty,max=15,dive,min=1,max=40"`
	Visibility string                   `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
	Media      *models.ArticleMedia     `json:"media,omitempty"`
	Images     []string                 `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
	Documents  []models.ArticleDocument `json:"documents,omitempty" validate:"omitempty,max=5"`
}

// UpdateArticleRequest represents a partial update to a nugget
type UpdateArticleRequest struct {
	Title      *string              `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Content    *string              `json:"content,omitempty" validate:"omitempty,min=1,max=20000"`
	Excerpt    *string              `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Categories []string             `json:"categories,omitempty" validate:"omitempty,max=10,dive,min=1,max=40"`
	Tags       []string             `json:"tags,omitempty" validate:"omitempty,max=15,dive,min=1,max=40"`
	Visibility *string              `json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
	Media      *models.ArticleMedia `json:"media,omitempty"`
}

// ArticleResponse wraps a single article
type ArticleResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Article *models.Article `json:"article,omitempty"`
}

// ArticleListResponse wraps a page of articles
type ArticleListResponse struct {
	Success  bool             `json:"success"`
	Articles []models.Article `json:"articles"`
	Total    int64            `json:"total"`
	HasMore  bool             `json:"has_more"`
}

func normalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool)
	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// CreateArticle publishes a new nugget
func CreateArticle(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "You must be signed in to publish",
		})
		return
	}

	var req CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if err := validation.Default.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var author models.User
	if err := database.DB.Collection("users").FindOne(ctx, bson.M{"_id": *userID}).Decode(&author); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "User not found",
		})
		return
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	now := time.Now()
	article := models.Article{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Excerpt:   strings.TrimSpace(req.Excerpt),
		Author: models.ArticleAuthor{
			ID:   author.ID,
			Name: author.DisplayName,
		},
		Categories:  normalizeLabels(req.Categories),
		Tags:        normalizeLabels(req.Tags),
		Visibility:  visibility,
		Media:       req.Media,
		Images:      req.Images,
		Documents:   req.Documents,
		PublishedAt: &now,
	}

	if _, err := database.DB.Collection("articles").InsertOne(ctx, article); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Failed to create article",
		})
		return
	}

	// Bump usage counts for any tags attached to the nugget
	if len(article.Tags) > 0 {
		database.DB.Collection("tags").UpdateMany(ctx,
			bson.M{"name": bson.M{"$in": article.Tags}},
			bson.M{"$inc": bson.M{"usage_count": 1}},
		)
	}

	// Notify live feed subscribers about public articles
	if article.Visibility == models.VisibilityPublic {
		services.PublishArticleEvent(ctx, &article)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ArticleResponse{
		Success: true,
		Message: "Article published",
		Article: &article,
	})
}

// GetArticle returns a single nugget. Private nuggets are only visible to
// their author; anyone else gets a 404.
func GetArticle(w http.ResponseWriter, r *http.Request) {
	articleID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Invalid article ID",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var article models.Article
	err = database.DB.Collection("articles").FindOne(ctx, bson.M{"_id": articleID}).Decode(&article)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Article not found",
		})
		return
	}

	if article.Visibility == models.VisibilityPrivate {
		userID := getCurrentUserID(r)
		if userID == nil || *userID != article.Author.ID {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ArticleResponse{
				Success: false,
				Message: "Article not found",
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ArticleResponse{
		Success: true,
		Article: &article,
	})
}

// ListArticles returns a page of public nuggets with optional filters:
// category, tag, author_id and a free-text search over title/content/excerpt.
func ListArticles(w http.ResponseWriter, r *http.Request) {
	limit, skip := parsePagination(r, 20, 100)

	filter := bson.M{"visibility": models.VisibilityPublic}

	if category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))); category != "" {
		filter["categories"] = category
	}
	if tag := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tag"))); tag != "" {
		filter["tags"] = tag
	}
	if authorHex := r.URL.Query().Get("author_id"); authorHex != "" {
		authorID, err := primitive.ObjectIDFromHex(authorHex)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ArticleResponse{
				Success: false,
				Message: "Invalid author_id",
			})
			return
		}
		filter["author.id"] = authorID

		// Authors see their own private nuggets in their listing
		if userID := getCurrentUserID(r); userID != nil && *userID == authorID {
			delete(filter, "visibility")
		}
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		pattern := primitive.Regex{Pattern: escapeRegex(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"content": pattern},
			{"excerpt": pattern},
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coll := database.DB.Collection("articles")

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Failed to list articles",
		})
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Failed to list articles",
		})
		return
	}
	defer cursor.Close(ctx)

	articles := []models.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Failed to decode articles",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ArticleListResponse{
		Success:  true,
		Articles: articles,
		Total:    total,
		HasMore:  int64(skip+len(articles)) < total,
	})
}

// UpdateArticle applies a partial update. Only the author may edit.
func UpdateArticle(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "You must be signed in to edit",
		})
		return
	}

	articleID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Invalid article ID",
		})
		return
	}

	var req UpdateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if err := validation.Default.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var article models.Article
	err = database.DB.Collection("articles").FindOne(ctx, bson.M{"_id": articleID}).Decode(&article)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Article not found",
		})
		return
	}

	if article.Author.ID != *userID {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Only the author can edit this article",
		})
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if req.Title != nil {
		update["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		update["content"] = *req.Content
	}
	if req.Excerpt != nil {
		update["excerpt"] = strings.TrimSpace(*req.Excerpt)
	}
	if req.Categories != nil {
		update["categories"] = normalizeLabels(req.Categories)
	}
	if req.Tags != nil {
		update["tags"] = normalizeLabels(req.Tags)
	}
	if req.Visibility != nil {
		update["visibility"] = *req.Visibility
	}
	if req.Media != nil {
		update["media"] = req.Media
	}

	_, err = database.DB.Collection("articles").UpdateOne(ctx, bson.M{"_id": articleID}, bson.M{"$set": update})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Failed to update article",
		})
		return
	}

	if err := database.DB.Collection("articles").FindOne(ctx, bson.M{"_id": articleID}).Decode(&article); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Failed to load article",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ArticleResponse{
		Success: true,
		Message: "Article updated",
		Article: &article,
	})
}

// DeleteArticle removes a nugget. Only the author may delete.
func DeleteArticle(w http.ResponseWriter, r *http.Request) {
	userID := getCurrentUserID(r)
	if userID == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "You must be signed in to delete",
		})
		return
	}

	articleID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Invalid article ID",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var article models.Article
	err = database.DB.Collection("articles").FindOne(ctx, bson.M{"_id": articleID}).Decode(&article)
	if err == mongo.ErrNoDocuments {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Article not found",
		})
		return
	} else if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Database error",
		})
		return
	}

	if article.Author.ID != *userID {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Only the author can delete this article",
		})
		return
	}

	if _, err := database.DB.Collection("articles").DeleteOne(ctx, bson.M{"_id": articleID}); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ArticleResponse{
			Success: false,
			Message: "Failed to delete article",
		})
		return
	}

	if len(article.Tags) > 0 {
		database.DB.Collection("tags").UpdateMany(ctx,
			bson.M{"name": bson.M{"$in": article.Tags}, "usage_count": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"usage_count": -1}},
		)
	}

	w.WriteHeader(http.StatusNoContent)
}

// escapeRegex escapes user input before embedding it in a Mongo regex.
func escapeRegex(s string) string {
	special := `\.+*?()|[]{}^$`
	var b strings.Builder
	for _, ch := range s {
		if strings.ContainsRune(special, ch) {
			b.WriteRune('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
