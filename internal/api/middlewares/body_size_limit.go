package middlewares

import "net/http"

// BodySizeLimit caps request bodies of POST, PUT and PATCH at limit bytes.
func BodySizeLimit(limit int64) Middleware {
	if limit <= 0 {
		limit = 10 << 20
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
