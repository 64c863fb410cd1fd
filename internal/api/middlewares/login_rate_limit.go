package middlewares

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginRateLimit allows maxAttempts login calls per client IP per window.
// It fails open when Redis is absent or erroring.
func LoginRateLimit(rdb *redis.Client, maxAttempts int, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ip == "" || rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := "rl:login:" + ip
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				slog.Warn("login limiter unavailable", "component", "login-rate-limit", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}
			if n > int64(maxAttempts) {
				ttl, err := rdb.TTL(ctx, key).Result()
				if err != nil || ttl <= 0 {
					ttl = window
				}
				tooManyRequests(w, r, int64(ttl/time.Second))
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(maxAttempts)-n, 10))
			next.ServeHTTP(w, r)
		})
	}
}
