package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 20 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestLimiters_FailOpen(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	rdb := unreachableRedis(t)

	handlers := map[string]http.Handler{
		"token bucket nil":    mw.NewRedisTokenBucket(nil, 5, 20, mw.PerIPKey("rl")).Middleware(ok),
		"token bucket down":   mw.NewRedisTokenBucket(rdb, 5, 20, mw.PerIPKey("rl")).Middleware(ok),
		"sliding window nil":  mw.NewRedisSlidingWindow(nil, 10, time.Minute, mw.PerIPKey("sw")).Middleware(ok),
		"sliding window down": mw.NewRedisSlidingWindow(rdb, 10, time.Minute, mw.PerIPKey("sw")).Middleware(ok),
		"login limiter nil":   mw.LoginRateLimit(nil, 3, time.Minute)(ok),
		"login limiter down":  mw.LoginRateLimit(rdb, 3, time.Minute)(ok),
	}
	for name, h := range handlers {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/token/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code, name)
	}
}

func TestKeyFuncs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "rl:203.0.113.9", mw.PerIPKey("rl")(req))
	assert.Equal(t, "rl:203.0.113.9", mw.PerActorKey("rl")(req))

	req = req.WithContext(mw.WithActor(req.Context(), mw.Actor{ID: 5}))
	assert.Equal(t, "rl:user:5", mw.PerActorKey("rl")(req))
}
