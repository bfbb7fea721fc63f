// Package kv implements the key-value store on PostgreSQL. It backs both the
// word cache and the settings store when their backend is "postgres".
package kv

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wordbuddy/internal/adapter/postgres"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const upsertSQL = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

// Repo provides key-value persistence backed by the kv_entries table.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new kv repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the value stored under key.
// Returns domain.ErrNotFound if the key does not exist.
func (r *Repo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return nil, postgres.MapError(err, "kv", key)
	}
	return value, nil
}

// GetMany returns the values present for keys. Missing keys are omitted.
func (r *Repo) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	query, args, err := psql.Select("key", "value").
		From("kv_entries").
		Where(sq.Eq{"key": keys}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("kv get many: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			k string
			v []byte
		)
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("kv scan: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv rows: %w", err)
	}
	return out, nil
}

// Set stores value under key, replacing any previous value.
func (r *Repo) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := r.pool.Exec(ctx, upsertSQL, key, value); err != nil {
		return postgres.MapError(err, "kv", key)
	}
	return nil
}

// SetMany upserts all pairs in a single transaction.
func (r *Repo) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for k, v := range values {
			if v == nil {
				v = []byte{}
			}
			batch.Queue(upsertSQL, k, v)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("kv set many: %w", err)
		}
		return nil
	})
}

// Delete removes keys. Missing keys are ignored.
func (r *Repo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := psql.Delete("kv_entries").Where(sq.Eq{"key": keys}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix.
func (r *Repo) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	query, args, err := psql.Delete("kv_entries").Where(sq.Expr("starts_with(key, ?)", prefix)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("kv delete prefix: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Keys lists keys starting with prefix in ascending order.
func (r *Repo) Keys(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := psql.Select("key").
		From("kv_entries").
		Where(sq.Expr("starts_with(key, ?)", prefix)).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("kv keys: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("kv keys: %w", err)
	}
	return keys, nil
}

// Ping checks that the database is reachable.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
