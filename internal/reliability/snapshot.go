// Package reliability snapshots the market database and ships the archives to
// S3-compatible object storage.
package reliability

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/axiome/analytics/internal/database"
)

// SnapshotDatabase writes a consistent copy of db to dest. dest must not exist.
func SnapshotDatabase(ctx context.Context, db *database.DB, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("snapshot target %s already exists", dest)
	}
	if _, err := db.Conn().ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return fmt.Errorf("failed to snapshot %s: %w", db.Name(), err)
	}
	return nil
}

// VerifySnapshot opens the file at path and runs an integrity check on it
func VerifySnapshot(ctx context.Context, driver, path string) error {
	conn, err := sql.Open(driver, path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer conn.Close()

	var result string
	if err := conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed for %s: %w", path, err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed for %s: %s", path, result)
	}
	return nil
}
