package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
)

const StatsCacheKey = "admin:stats"
const StatsCacheDuration = 30 * time.Second

// GET /api/admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if stats, ok := h.getCachedStats(ctx); ok {
		httpx.OK(w, stats)
		return
	}

	stats, err := h.Sto.Stats(ctx)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	h.cacheStats(ctx, stats)
	httpx.OK(w, stats)
}

func (h *Handler) getCachedStats(ctx context.Context) (StatsResponse, bool) {
	var stats StatsResponse
	if h.RDB == nil {
		return stats, false
	}
	cached, err := h.RDB.Get(ctx, StatsCacheKey).Bytes()
	if err != nil || len(cached) == 0 {
		return stats, false
	}
	if err := json.Unmarshal(cached, &stats); err != nil {
		return stats, false
	}
	return stats, true
}

func (h *Handler) cacheStats(ctx context.Context, stats StatsResponse) {
	if h.RDB == nil {
		return
	}
	b, _ := json.Marshal(stats)
	_ = h.RDB.SetEx(ctx, StatsCacheKey, b, StatsCacheDuration).Err()
}
