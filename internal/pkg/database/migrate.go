package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
)

//go:embed schema.sql
var schemaFS embed.FS

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *DB) error {
	slog.Info("Running database migrations...")

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	slog.Info("Database migrations completed successfully")
	return nil
}
