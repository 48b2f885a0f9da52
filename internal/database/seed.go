package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/shoplist/internal/model"
)

// SeedItems fills a never-written items table with names, in order. It is
// safe to run on every startup. Once any row has been inserted the table is
// left alone, even after every item is deleted: AUTOINCREMENT keeps the
// items row in sqlite_sequence. Blank names are skipped.
func SeedItems(ctx context.Context, db *sql.DB, names []string) error {
	if len(names) == 0 {
		return nil
	}
	var used int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_sequence WHERE name = 'items'`).Scan(&used)
	if err != nil {
		return fmt.Errorf("check items sequence: %w", err)
	}
	if used > 0 {
		return nil
	}
	return WithTx(db, func(tx *sql.Tx) error {
		for _, raw := range names {
			name, err := model.NormalizeName(raw)
			if err != nil {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO items(name) VALUES (?)`, name); err != nil {
				return fmt.Errorf("seed %q: %w", name, err)
			}
		}
		return nil
	})
}
