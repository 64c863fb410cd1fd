package middlewares

import (
	"net/http"
	"net/url"
)

// HPPOptions configures HPP. Query parameters outside Allowed are dropped;
// repeated values are collapsed to the first one.
type HPPOptions struct {
	Allowed map[string]struct{}
}

// HPP guards against HTTP parameter pollution on the query string. Request
// bodies are JSON or multipart and are left to the handlers.
func HPP(opts HPPOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				r.URL.RawQuery = cleanQuery(r.URL.Query(), opts.Allowed).Encode()
			}
			next.ServeHTTP(w, r)
		})
	}
}

func cleanQuery(q url.Values, allowed map[string]struct{}) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		if _, ok := allowed[k]; !ok || len(v) == 0 {
			continue
		}
		out.Set(k, v[0])
	}
	return out
}

// DefaultHPPOptions allows the filter, search and paging parameters read by
// the catalog and admin handlers.
func DefaultHPPOptions() HPPOptions {
	return HPPOptions{Allowed: setOf(
		"title", "author", "publication_year",
		"limit", "offset",
		"search", "is_superuser",
	)}
}

func setOf(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
