package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nuggetsapp/nuggets-backend/internal/middleware"
	"github.com/nuggetsapp/nuggets-backend/internal/services"
	"github.com/nuggetsapp/nuggets-backend/internal/validation"
)

// AdminSigninRequest represents the admin login request
type AdminSigninRequest struct {
	AdminKey string `json:"admin_key" validate:"required"`
}

// adminStatsCacheKey is the single key used for the memoized stats payload.
const adminStatsCacheKey = "admin_stats"

// AdminSignin exchanges the admin key for a 24h session token
func AdminSignin(w http.ResponseWriter, r *http.Request) {
	var req AdminSigninRequest
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

	if !services.VerifyAdminKey(req.AdminKey, cfg.AdminKey) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid admin key",
		})
		return
	}

	token, err := services.CreateAdminSession()
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to create admin session",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Admin login successful",
		"token":   token,
	})
}

// AdminSignout invalidates the admin session token
func AdminSignout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token != "" {
		services.InvalidateAdminSession(token)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Signed out",
	})
}

// GetAdminStats serves aggregate platform stats, memoized in a bounded
// in-memory TTL cache so repeated dashboard refreshes skip the databases.
func GetAdminStats(w http.ResponseWriter, r *http.Request) {
	if !isAdminRequest(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Admin access required",
		})
		return
	}

	if cached, ok := services.AdminStatsCache.Get(adminStatsCacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"stats":   cached,
			"cached":  true,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stats, err := services.ComputeAdminStats(ctx)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to compute stats",
		})
		return
	}

	services.AdminStatsCache.Set(adminStatsCacheKey, stats)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"stats":   stats,
		"cached":  false,
	})
}

// UnblockIPRequest represents the request to lift a rate-limit block
type UnblockIPRequest struct {
	IPAddress string `json:"ip_address" validate:"required,ip"`
}

// UnblockIP lifts a 24h rate-limit block for an IP. Admin only.
func UnblockIP(w http.ResponseWriter, r *http.Request) {
	if !isAdminRequest(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Admin access required",
		})
		return
	}

	var req UnblockIPRequest
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

	if err := middleware.UnblockIP(req.IPAddress); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to unblock IP",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "IP unblocked",
	})
}
