package postgres

import (
	"fmt"

	"github.com/sanjitr11/semiotic-logo-generator/config"
)

// DSN returns DB_DSN when set, otherwise a key/value DSN built from the parts.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode,
	)
}

// AdminDSN prefers DB_ADMIN_DSN and falls back to DSN.
func AdminDSN(cfg *config.DatabaseConfig) string {
	if cfg.AdminDSN != "" {
		return cfg.AdminDSN
	}
	return DSN(cfg)
}
