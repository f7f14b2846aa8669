package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"time"

	"github.com/nuggetsapp/nuggets-backend/internal/database"
)

const (
	// AdminSessionDuration is 24 hours
	AdminSessionDuration = 24 * time.Hour
	// AdminSessionKeyPrefix is the Redis key prefix for admin sessions
	AdminSessionKeyPrefix = "admin_session:"
)

// VerifyAdminKey compares a presented key with the configured admin key in
// constant time. An empty configured key disables admin access entirely.
func VerifyAdminKey(presented, configured string) bool {
	if configured == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}

// CreateAdminSession mints a Redis-backed admin session token after the admin
// key has been verified. Returns the session token.
func CreateAdminSession() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	ctx := context.Background()
	sessionKey := AdminSessionKeyPrefix + sessionToken

	if err := database.RedisClient.Set(ctx, sessionKey, "admin", AdminSessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// ValidateAdminSession checks if an admin session token is valid.
func ValidateAdminSession(sessionToken string) bool {
	if sessionToken == "" {
		return false
	}

	ctx := context.Background()
	sessionKey := AdminSessionKeyPrefix + sessionToken

	val, err := database.RedisClient.Get(ctx, sessionKey).Result()
	return err == nil && val == "admin"
}

// InvalidateAdminSession removes an admin session from Redis.
func InvalidateAdminSession(sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	ctx := context.Background()
	return database.RedisClient.Del(ctx, AdminSessionKeyPrefix+sessionToken).Err()
}
