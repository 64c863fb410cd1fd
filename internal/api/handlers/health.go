package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/5w1tchy/library-api/internal/api/httpx"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RedisPinger wraps a Redis ping; nil means Redis is not configured.
type RedisPinger func(ctx context.Context) error

// RootHandler answers GET / with a short service banner.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	httpx.OK(w, map[string]string{"service": "library-api"})
}

// Healthz reports 200 when the database (and Redis, when configured) answer
// within two seconds, 503 otherwise.
func Healthz(db Pinger, redisPing RedisPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		status := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
		if redisPing != nil {
			checks["redis"] = "ok"
			if err := redisPing(ctx); err != nil {
				checks["redis"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		httpx.WriteJSON(w, status, map[string]any{"status": statusWord(status), "checks": checks})
	}
}

func statusWord(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
