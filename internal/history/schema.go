package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// ledgerVersion is stored in PRAGMA user_version. Zero means a fresh file.
const ledgerVersion = 1

// ErrSchemaMismatch reports a ledger written by a different bisub release.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read history version: %w", err)
	}
	switch version {
	case ledgerVersion:
		return nil
	case 0:
		return s.createSchema(ctx)
	default:
		return fmt.Errorf("%w: %s has version %d, this build expects %d (move the file aside to start a new ledger)",
			ErrSchemaMismatch, s.path, version, ledgerVersion)
	}
}

// createSchema runs in one transaction so a crash cannot leave tables
// without a version stamp.
func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", ledgerVersion)); err != nil {
		return fmt.Errorf("stamp history version: %w", err)
	}
	return tx.Commit()
}
