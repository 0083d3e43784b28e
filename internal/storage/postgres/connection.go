package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/sanjitr11/semiotic-logo-generator/config"
)

// NewConnection opens and pings a pool for dsn.
func NewConnection(ctx context.Context, dsn string, maxOpen int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if maxOpen <= 0 {
		maxOpen = 25
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Open connects with the service DSN.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	return NewConnection(ctx, DSN(cfg), cfg.MaxOpenConns)
}

// OpenAdmin connects with the admin DSN, used for schema changes.
func OpenAdmin(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	return NewConnection(ctx, AdminDSN(cfg), 2)
}
