// Package books is the SQL store for books and their favorites.
package books

import "database/sql"

type Store struct {
	db    *sql.DB
	cache *Cache
}

// New returns a store; cache may be nil (featured listing is then read from
// the database every time).
func New(db *sql.DB, cache *Cache) *Store {
	if cache == nil {
		cache = NewCache(nil, 0)
	}
	return &Store{db: db, cache: cache}
}
