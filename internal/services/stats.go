package services

import (
	"context"

	"github.com/nuggetsapp/nuggets-backend/internal/database"
	"github.com/nuggetsapp/nuggets-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// AdminStats is the aggregate payload served by GET /api/admin/stats.
type AdminStats struct {
	TotalUsers          int64            `json:"total_users"`
	TotalArticles       int64            `json:"total_articles"`
	PublicArticles      int64            `json:"public_articles"`
	TotalCollections    int64            `json:"total_collections"`
	OpenReports         int64            `json:"open_reports"`
	TotalFeedback       int64            `json:"total_feedback"`
	ArticlesPerCategory map[string]int64 `json:"articles_per_category"`
}

// ComputeAdminStats runs the counts and the per-category aggregation.
// Results are memoized by the caller via AdminStatsCache.
func ComputeAdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{ArticlesPerCategory: map[string]int64{}}

	var err error
	if stats.TotalUsers, err = database.DB.Collection("users").CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.TotalArticles, err = database.DB.Collection("articles").CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.PublicArticles, err = database.DB.Collection("articles").CountDocuments(ctx, bson.M{"visibility": models.VisibilityPublic}); err != nil {
		return nil, err
	}
	if stats.OpenReports, err = database.DB.Collection("reports").CountDocuments(ctx, bson.M{"status": models.ReportStatusOpen}); err != nil {
		return nil, err
	}
	if stats.TotalFeedback, err = database.DB.Collection("feedbacks").CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}

	// Collections live in PostgreSQL
	if err = database.PostgresDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM collections`).Scan(&stats.TotalCollections); err != nil {
		return nil, err
	}

	// Unwind categories so an article counted in two categories shows in both
	pipeline := []bson.M{
		{"$match": bson.M{"visibility": models.VisibilityPublic}},
		{"$unwind": "$categories"},
		{"$group": bson.M{"_id": "$categories", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := database.DB.Collection("articles").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ArticlesPerCategory[row.Category] = row.Count
	}

	return stats, nil
}
