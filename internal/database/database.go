package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/warefront/catalog_api/internal/config"
)

const (
	connectAttempts = 5
	connectBaseWait = 500 * time.Millisecond
	connectMaxWait  = 5 * time.Second
	pingTimeout     = 5 * time.Second
)

// Connect opens the catalog's Postgres pool and verifies it is reachable.
// At deploy time the API regularly races the database container, so failed
// attempts retry with doubling waits before giving up.
func Connect(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}
	source := dsn(cfg)

	var lastErr error
	wait := connectBaseWait
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := open(source)
		if err == nil {
			return db, nil
		}
		lastErr = err

		if attempt < connectAttempts {
			time.Sleep(wait)
			if wait *= 2; wait > connectMaxWait {
				wait = connectMaxWait
			}
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, lastErr)
}

// open dials one connection attempt: open, tune the pool, ping.
func open(source string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", source)
	if err != nil {
		return nil, err
	}

	// The filter endpoint holds two statements per request inside one
	// transaction, so the pool is sized for short bursts of small reads.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// dsn assembles the connection URL. Credentials go through url.URL so
// passwords with reserved characters survive intact.
func dsn(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   cfg.Name,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
