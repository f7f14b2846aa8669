package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// MaxJSONBodyBytes caps JSON request bodies. Multipart uploads have their own
// limit in the upload handler.
const MaxJSONBodyBytes = 1 << 20 // 1MB

// BodyLimit rejects oversized requests with 413 and wraps the body so reads
// past the limit fail instead of buffering unbounded input.
func BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Multipart uploads are size-checked by the upload handler
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > MaxJSONBodyBytes {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			w.Write([]byte(`{"success":false,"message":"Request body too large. Limit is ` + strconv.Itoa(MaxJSONBodyBytes) + ` bytes."}`))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
		next.ServeHTTP(w, r)
	})
}
