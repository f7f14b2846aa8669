package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/nuggetsapp/nuggets-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Get("/api/auth/me", handlers.GetMe)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Patch("/api/users/profile", handlers.UpdateProfile)

	// Article (nugget) routes
	r.Post("/api/articles", handlers.CreateArticle)
	r.Get("/api/articles", handlers.ListArticles)
	r.Get("/api/articles/{id}", handlers.GetArticle)
	r.Patch("/api/articles/{id}", handlers.UpdateArticle)
	r.Delete("/api/articles/{id}", handlers.DeleteArticle)
	r.Post("/api/articles/{id}/summarize", handlers.SummarizeArticle)

	// Personalized feed
	r.Get("/api/users/{id}/feed", handlers.GetUserFeed)

	// Collection routes
	r.Post("/api/collections", handlers.CreateCollection)
	r.Get("/api/collections", handlers.ListCollections)
	r.Get("/api/collections/{id}", handlers.GetCollection)
	r.Patch("/api/collections/{id}", handlers.UpdateCollection)
	r.Delete("/api/collections/{id}", handlers.DeleteCollection)
	r.Post("/api/collections/{id}/entries", handlers.AddCollectionEntry)
	r.Delete("/api/collections/{id}/entries/{articleID}", handlers.RemoveCollectionEntry)
	r.Post("/api/collections/{id}/entries/{articleID}/flag", handlers.FlagCollectionEntry)

	// Tag routes
	r.Post("/api/tags", handlers.CreateTag)
	r.Get("/api/tags", handlers.ListTags)
	r.Delete("/api/tags/{id}", handlers.DeleteTag)

	// Moderation routes
	r.Post("/api/moderation/reports", handlers.CreateReport)
	r.Get("/api/moderation/reports", handlers.ListReports)
	r.Get("/api/moderation/reports/{id}", handlers.GetReport)
	r.Post("/api/moderation/reports/{id}/resolve", handlers.ResolveReport)
	r.Post("/api/moderation/reports/{id}/dismiss", handlers.DismissReport)

	// Feedback routes
	r.Post("/api/feedback", handlers.SubmitFeedback)
	r.Get("/api/admin/feedbacks", handlers.ListFeedback)
	r.Delete("/api/admin/feedbacks/{id}", handlers.DeleteFeedback)

	// Legal pages
	r.Get("/api/legal/{slug}", handlers.GetLegalPage)
	r.Put("/api/admin/legal/{slug}", handlers.UpsertLegalPage)

	// Link previews
	r.Post("/api/unfurl", handlers.Unfurl)

	// File upload routes
	r.Post("/api/upload", handlers.UploadFile)

	// Admin routes
	r.Post("/api/admin/signin", handlers.AdminSignin)
	r.Post("/api/admin/signout", handlers.AdminSignout)
	r.Get("/api/admin/stats", handlers.GetAdminStats)
	r.Put("/api/admin/unblock-ip", handlers.UnblockIP)

	// WebSocket endpoint for the live nugget feed
	r.Get("/ws/feed", handlers.FeedWebSocket)
}
