package router

import (
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/handlers"
	"github.com/5w1tchy/library-api/internal/api/handlers/admin"
	"github.com/5w1tchy/library-api/internal/api/handlers/bookrecords"
	"github.com/5w1tchy/library-api/internal/api/handlers/books"
	"github.com/5w1tchy/library-api/internal/api/handlers/reviews"
	"github.com/5w1tchy/library-api/internal/api/handlers/users"
	mw "github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/auth"
)

// Deps carries the constructed handlers and the per-route middleware.
type Deps struct {
	Auth        *auth.Handler
	Books       *books.Handler
	Records     *bookrecords.Handler
	Reviews     *reviews.Handler
	Avatars     *users.Handler
	Admin       *admin.Handler
	Health      http.HandlerFunc
	RequireAuth mw.Middleware
	// LoginLimit throttles login attempts; nil disables it.
	LoginLimit mw.Middleware
	// UserLimit is a per-user limiter applied after authentication; nil disables it.
	UserLimit mw.Middleware
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	protect := func(p mw.Policy, h http.HandlerFunc) http.Handler {
		mws := []mw.Middleware{d.RequireAuth}
		if d.UserLimit != nil {
			mws = append(mws, d.UserLimit)
		}
		mws = append(mws, mw.Guard(p))
		return mw.ApplyMiddleware(h, mws...)
	}
	adminOrRO := func(h http.HandlerFunc) http.Handler { return protect(mw.AdminOrReadOnly{}, h) }
	reader := func(h http.HandlerFunc) http.Handler { return protect(mw.ReaderOrReadOnly{}, h) }
	owner := func(h http.HandlerFunc) http.Handler { return protect(mw.OwnerOrAdmin{}, h) }

	// Root
	mux.HandleFunc("GET /{$}", handlers.RootHandler)
	mux.Handle("GET /healthz", d.Health)

	// Auth
	login := http.Handler(http.HandlerFunc(d.Auth.Login))
	if d.LoginLimit != nil {
		login = d.LoginLimit(login)
	}
	mux.HandleFunc("POST /api/auth/users", d.Auth.Register)
	mux.Handle("POST /api/auth/token/login", login)
	mux.HandleFunc("POST /api/auth/token/refresh", d.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/token/logout", d.Auth.Logout)
	mux.Handle("POST /api/auth/token/logout-all", reader(d.Auth.LogoutAll))
	mux.Handle("GET /api/auth/users/me", reader(d.Auth.Me))
	mux.Handle("POST /api/auth/users/set_password", reader(d.Auth.ChangePassword))

	// Books
	mux.Handle("GET /api/books", adminOrRO(d.Books.List))
	mux.Handle("POST /api/books", adminOrRO(d.Books.Create))
	mux.Handle("GET /api/books/search", adminOrRO(d.Books.Search))
	mux.Handle("GET /api/books/featured", adminOrRO(d.Books.Featured))
	mux.Handle("GET /api/books/favorites", reader(d.Books.Favorites))
	mux.Handle("GET /api/books/{id}", adminOrRO(d.Books.Get))
	mux.Handle("PUT /api/books/{id}", adminOrRO(d.Books.Put))
	mux.Handle("PATCH /api/books/{id}", adminOrRO(d.Books.Patch))
	mux.Handle("DELETE /api/books/{id}", adminOrRO(d.Books.Delete))
	mux.Handle("PUT /api/books/{id}/title_page", adminOrRO(d.Books.UploadTitlePage))
	mux.Handle("POST /api/books/{book_id}/favorites", reader(d.Books.AddFavorite))
	mux.Handle("DELETE /api/books/{book_id}/favorites", reader(d.Books.RemoveFavorite))

	// Reading records, always scoped to the requesting reader
	mux.Handle("GET /api/books/{book_id}/book_records", reader(d.Records.List))
	mux.Handle("POST /api/books/{book_id}/book_records", reader(d.Records.Create))
	mux.Handle("GET /api/books/{book_id}/book_records/{id}", reader(d.Records.Get))
	mux.Handle("PUT /api/books/{book_id}/book_records/{id}", reader(d.Records.Put))
	mux.Handle("PATCH /api/books/{book_id}/book_records/{id}", reader(d.Records.Patch))
	mux.Handle("DELETE /api/books/{book_id}/book_records/{id}", reader(d.Records.Delete))

	// Reviews
	mux.Handle("GET /api/books/{book_id}/reviews", owner(d.Reviews.List))
	mux.Handle("POST /api/books/{book_id}/reviews", owner(d.Reviews.Create))
	mux.Handle("GET /api/book-reviews/{id}", owner(d.Reviews.Get))
	mux.Handle("DELETE /api/book-reviews/{id}", owner(d.Reviews.Delete))

	// Avatar
	mux.Handle("GET /api/users/me/avatar", reader(d.Avatars.Get))
	mux.Handle("PUT /api/users/me/avatar", reader(d.Avatars.Upload))
	mux.Handle("PATCH /api/users/me/avatar", reader(d.Avatars.Upload))

	// Admin
	if d.Admin != nil {
		MountAdmin(mux, d.Admin, d.RequireAuth)
	}

	return mux
}
