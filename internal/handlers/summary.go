package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nuggetsapp/nuggets-backend/internal/database"
	"github.com/nuggetsapp/nuggets-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var summaryClient = &http.Client{Timeout: 20 * time.Second}

// SummarizeArticle proxies an article's content to the configured upstream
// summarizer and relays the result. Returns 503 when no upstream is
// configured.
func SummarizeArticle(w http.ResponseWriter, r *http.Request) {
	if cfg.SummaryAPIURL == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Summaries are not available",
		})
		return
	}

	articleID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid article ID",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var article models.Article
	if err := database.DB.Collection("articles").FindOne(ctx, bson.M{"_id": articleID}).Decode(&article); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Article not found",
		})
		return
	}

	if article.Visibility == models.VisibilityPrivate {
		userID := getCurrentUserID(r)
		if userID == nil || *userID != article.Author.ID {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Article not found",
			})
			return
		}
	}

	payload, err := json.Marshal(map[string]string{
		"title":   article.Title,
		"content": article.Content,
	})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to build request",
		})
		return
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, cfg.SummaryAPIURL, bytes.NewReader(payload))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to build request",
		})
		return
	}
	upstreamReq.Header.Set("Content-Type", "application/json")
	if cfg.SummaryAPIKey != "" {
		upstreamReq.Header.Set("Authorization", "Bearer "+cfg.SummaryAPIKey)
	}

	resp, err := summaryClient.Do(upstreamReq)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Summary service is unavailable",
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Summary service returned an error",
		})
		return
	}

	var upstream struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil || upstream.Summary == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Summary service returned an invalid response",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"summary": upstream.Summary,
	})
}
