package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/nuggetsapp/nuggets-backend/internal/services"
	"github.com/nuggetsapp/nuggets-backend/internal/validation"
	"github.com/nuggetsapp/nuggets-backend/pkg/urlcheck"
)

// UnfurlRequest represents a link preview request
type UnfurlRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

func unfurlCacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return services.CacheKey("unfurl", hex.EncodeToString(sum[:16]))
}

// Unfurl fetches link preview metadata for a URL. The URL is checked against
// the SSRF blocklist before any request leaves the server, and results are
// cached in Redis.
func Unfurl(w http.ResponseWriter, r *http.Request) {
	var req UnfurlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}

	if err := validation.Default.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	rawURL := strings.TrimSpace(req.URL)

	if err := urlcheck.CheckURL(rawURL); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "URL is not allowed",
		})
		return
	}

	cacheKey := unfurlCacheKey(rawURL)
	var cached services.UnfurlResult
	if found, err := services.Cache.Get(cacheKey, &cached); err == nil && found {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"preview": cached,
			"cached":  true,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := services.FetchUnfurl(ctx, rawURL)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Could not fetch a preview for this URL",
		})
		return
	}

	services.Cache.SetWithTTL(cacheKey, result, services.UnfurlCacheTTL)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"preview": result,
		"cached":  false,
	})
}
