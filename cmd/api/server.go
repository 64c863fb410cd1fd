package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/5w1tchy/library-api/internal/api/handlers"
	"github.com/5w1tchy/library-api/internal/api/handlers/admin"
	"github.com/5w1tchy/library-api/internal/api/handlers/bookrecords"
	bookshandler "github.com/5w1tchy/library-api/internal/api/handlers/books"
	"github.com/5w1tchy/library-api/internal/api/handlers/reviews"
	usershandler "github.com/5w1tchy/library-api/internal/api/handlers/users"
	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/api/router"
	"github.com/5w1tchy/library-api/internal/auth"
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/logger"
	"github.com/5w1tchy/library-api/internal/repository/redisconnect"
	"github.com/5w1tchy/library-api/internal/repository/sqlconnect"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
	"github.com/5w1tchy/library-api/internal/security/password"
	storage "github.com/5w1tchy/library-api/internal/storage/s3"
	adminstore "github.com/5w1tchy/library-api/internal/store/admin"
	"github.com/5w1tchy/library-api/internal/store/books"
	"github.com/5w1tchy/library-api/internal/store/records"
	storereviews "github.com/5w1tchy/library-api/internal/store/reviews"
	"github.com/5w1tchy/library-api/internal/store/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel)
	for _, w := range config.HardeningWarnings(cfg) {
		log.Warn(w, "component", "config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := sqlconnect.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	// Fail fast if Redis isn't reachable
	rdb, err := redisconnect.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info("connected to Redis")

	objects, err := storage.NewClient(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	signer := jwtutil.NewSigner(cfg.Auth)
	hasher := password.NewHasher(cfg.Argon2)
	userStore := users.New(db)
	bookStore := books.New(db, books.NewCache(rdb, cfg.Limits.FeaturedCacheTTL))

	userLimit := mw.NewRedisSlidingWindow(rdb, cfg.Limits.WindowLimit, cfg.Limits.Window, mw.PerActorKey("swu"))
	deps := router.Deps{
		Auth:        auth.New(userStore, auth.NewRedisRefreshTokens(rdb, cfg.Auth.RefreshTTL), signer, hasher),
		Books:       bookshandler.New(bookStore, objects),
		Records:     bookrecords.New(records.New(db)),
		Reviews:     reviews.New(storereviews.New(db)),
		Avatars:     usershandler.New(userStore, objects),
		Admin:       admin.NewHandler(adminstore.New(db), rdb),
		Health:      handlers.Healthz(db, func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		RequireAuth: mw.RequireAuth(userStore, signer),
		LoginLimit:  mw.LoginRateLimit(rdb, cfg.Limits.LoginMaxAttempts, cfg.Limits.LoginWindow),
		UserLimit:   userLimit.Middleware,
	}

	tb := mw.NewRedisTokenBucket(rdb, cfg.Limits.RatePerSecond, cfg.Limits.RateBurst, mw.PerIPKey("tb"))
	sw := mw.NewRedisSlidingWindow(rdb, cfg.Limits.WindowLimit, cfg.Limits.Window, mw.PerIPKey("sw"))

	secureMux := mw.ApplyMiddleware(
		router.Router(deps),
		mw.Recovery,
		mw.RequestID,
		mw.RequestLogger(log),
		mw.ResponseTime,
		mw.SecurityHeaders(cfg.IsProduction()),
		mw.Cors(cfg.HTTP.AllowedOrigins),
		mw.BodySizeLimit(cfg.HTTP.MaxBodyBytes),
		mw.HPP(mw.DefaultHPPOptions()),
		tb.Middleware,
		sw.Middleware,
		mw.Compression,
	)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           secureMux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server is running", "addr", cfg.HTTP.Addr, "tls", cfg.HTTP.TLSCertFile != "", "env", cfg.AppEnv)
		if cfg.HTTP.TLSCertFile != "" {
			errCh <- server.ListenAndServeTLS(cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
