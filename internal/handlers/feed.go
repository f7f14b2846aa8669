package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nuggetsapp/nuggets-backend/internal/database"
	"github.com/nuggetsapp/nuggets-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetUserFeed returns a personalized page of public nuggets for a user.
// Articles matching the user's interested categories come first; when the
// user has no interests (or none match) the feed falls back to the latest
// public nuggets.
func GetUserFeed(w http.ResponseWriter, r *http.Request) {
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid user ID",
		})
		return
	}

	limit, skip := parsePagination(r, 20, 100)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.DB.Collection("users").FindOne(ctx, bson.M{"_id": targetID}).Decode(&user); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "User not found",
		})
		return
	}

	coll := database.DB.Collection("articles")
	findOpts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	filter := bson.M{"visibility": models.VisibilityPublic}
	personalized := false

	if len(user.InterestedCategories) > 0 {
		interestFilter := bson.M{
			"visibility": models.VisibilityPublic,
			"categories": bson.M{"$in": user.InterestedCategories},
		}
		count, err := coll.CountDocuments(ctx, interestFilter)
		if err == nil && count > 0 {
			filter = interestFilter
			personalized = true
		}
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to load feed",
		})
		return
	}

	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to load feed",
		})
		return
	}
	defer cursor.Close(ctx)

	articles := []models.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to decode feed",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"articles":     articles,
		"total":        total,
		"has_more":     int64(skip+len(articles)) < total,
		"personalized": personalized,
	})
}
