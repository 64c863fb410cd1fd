// Package admin serves the superuser-only management endpoints under
// /api/admin: user listing, superuser flag changes, forced logout and
// catalog statistics.
package admin

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Handler struct {
	Sto Store
	RDB *redis.Client
	log *slog.Logger
}

func NewHandler(store Store, rdb *redis.Client) *Handler {
	return &Handler{
		Sto: store,
		RDB: rdb,
		log: slog.Default().With("component", "admin"),
	}
}
