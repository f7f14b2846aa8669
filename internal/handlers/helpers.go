package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nuggetsapp/nuggets-backend/internal/config"
	"github.com/nuggetsapp/nuggets-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cfg is set once at startup so handlers can read admin key / upstream settings.
var cfg *config.Config

// Init wires the loaded configuration into the handlers package.
func Init(c *config.Config) {
	cfg = c
}

// extractBearerToken returns the token from an "Authorization: Bearer x" header.
func extractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// getCurrentUserID gets the current user from the session token
// (optional - returns nil if not authenticated)
func getCurrentUserID(r *http.Request) *primitive.ObjectID {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil // Not authenticated, but that's okay for viewing
	}

	userID, ok, err := services.ValidateSession(token)
	if err != nil || !ok {
		return nil // Invalid session, but that's okay for viewing
	}

	return &userID
}

// isAdminRequest allows either a valid admin session token or the raw admin
// key in the X-Admin-Key header.
func isAdminRequest(r *http.Request) bool {
	if key := r.Header.Get("X-Admin-Key"); key != "" {
		return services.VerifyAdminKey(key, cfg.AdminKey)
	}
	token := extractBearerToken(r.Header.Get("Authorization"))
	return services.ValidateAdminSession(token)
}

// parsePagination reads limit/skip query parameters with defaults and a cap.
func parsePagination(r *http.Request, defaultLimit, maxLimit int) (limit, skip int) {
	limit = defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if skipStr := r.URL.Query().Get("skip"); skipStr != "" {
		if parsed, err := strconv.Atoi(skipStr); err == nil && parsed >= 0 {
			skip = parsed
		}
	}
	return limit, skip
}
