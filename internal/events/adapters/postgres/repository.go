package postgres

import (
	"context"
	"errors"
	"fmt"

	"portfolio-analytics/internal/events/core/ports"

	"github.com/lib/pq"
)

// DefaultTable holds one row per storage key.
const DefaultTable = "analytics_kv"

// KVRepository persists collector keys in a single postgres table.
type KVRepository struct {
	db    DB
	table string
}

func NewKVRepository(db DB, table string) *KVRepository {
	if table == "" {
		table = DefaultTable
	}
	return &KVRepository{db: db, table: pq.QuoteIdentifier(table)}
}

var _ ports.KeyValueStorePort = (*KVRepository)(nil)

// EnsureSchema creates the backing table if it does not exist.
func (r *KVRepository) EnsureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`, r.table)

	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return mapError("ensure schema", err)
	}
	return nil
}

func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	q := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1;`, r.table)

	rows, err := r.db.QueryContext(ctx, q, key)
	if err != nil {
		return "", false, mapError("get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", false, mapError("get", err)
		}
		return "", false, nil
	}

	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, mapError("get", err)
	}
	return value, true, nil
}

func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	q := fmt.Sprintf(`
INSERT INTO %s (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = now();`, r.table)

	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return mapError("set", err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE key = $1;`, r.table)

	if _, err := r.db.ExecContext(ctx, q, key); err != nil {
		return mapError("delete", err)
	}
	return nil
}

// mapError marks connection and resource failures as ErrStorageUnavailable
// so callers can tell them apart from query bugs.
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return fmt.Errorf("postgres %s: %w: %w", op, ports.ErrStorageUnavailable, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("postgres %s: %w: %w", op, ports.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("postgres %s: %w", op, err)
}
