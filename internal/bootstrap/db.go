package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sanjitr11/semiotic-logo-generator/config"
	"github.com/sanjitr11/semiotic-logo-generator/internal/storage/postgres"
)

// OpenDB applies the schema over the admin connection, then opens the service pool.
func OpenDB(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	if err := MigrateDB(ctx, cfg); err != nil {
		return nil, err
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return db, nil
}

// MigrateDB applies the schema using the admin DSN.
func MigrateDB(ctx context.Context, cfg *config.DatabaseConfig) error {
	admin, err := postgres.OpenAdmin(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db admin connect: %w", err)
	}
	defer admin.Close()

	return postgres.Migrate(ctx, admin)
}
