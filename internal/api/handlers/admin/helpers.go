package admin

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/5w1tchy/library-api/internal/api/apperr"
)

func parseBool(q string) *bool {
	if q == "" {
		return nil
	}
	b := strings.EqualFold(q, "true") || q == "1"
	return &b
}

func rateKey(action string, adminID int64) string {
	return "admin:rl:" + action + ":" + strconv.FormatInt(adminID, 10)
}

// allowAction counts an action per admin in a fixed window. Without Redis
// every action is allowed.
func (h *Handler) allowAction(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if h.RDB == nil {
		return true, nil
	}
	pipe := h.RDB.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return int(incr.Val()) <= limit, nil
}

func (h *Handler) checkRateLimit(w http.ResponseWriter, r *http.Request, action string, adminID int64, limit int, window time.Duration) bool {
	ok, err := h.allowAction(r.Context(), rateKey(action, adminID), limit, window)
	if err != nil {
		h.log.Warn("admin rate limit unavailable", "action", action, "err", err)
		return true
	}
	if !ok {
		apperr.WriteStatus(w, r, http.StatusTooManyRequests, "Too Many Requests", "Request was throttled.")
		return false
	}
	return true
}
