package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// Client wraps a SQL database connection with Turso-specific retry logic.
type Client struct {
	*sql.DB
}

// New opens a libsql connection. For remote Turso URLs the auth token
// is appended; file: URLs are opened as-is for local development.
func New(databaseURL, authToken string) (*Client, error) {
	connStr := databaseURL
	if authToken != "" {
		connStr = databaseURL + "?authToken=" + authToken
	}
	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, err
	}

	// Turso aggressively closes idle Hrana streams; stale pooled
	// connections then fail with "stream not found". Keep the pool
	// small and fresh.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Client{DB: db}, nil
}

// IsStreamError checks if an error is a Turso "stream not found" error.
func IsStreamError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "stream not found")
}

// WithRetry executes a function with retry logic for Turso stream
// errors, retrying up to maxRetries times.
func WithRetry[T any](ctx context.Context, maxRetries int, fn func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}

		if !IsStreamError(err) || attempt == maxRetries {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}

	return result, err
}
