package utils

import "net/http"

// corsMiddleware allows cross-origin requests from any origin. Catalog
// addons are loaded by streaming clients served from app domains we do not
// control, so the surface must be reachable from anywhere. Every endpoint
// is read-only and unauthenticated, which makes the wildcard safe.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
