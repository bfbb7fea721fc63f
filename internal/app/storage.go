package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordbuddy/internal/adapter/memory"
	"github.com/heartmarshall/wordbuddy/internal/adapter/postgres"
	pgkv "github.com/heartmarshall/wordbuddy/internal/adapter/postgres/kv"
	"github.com/heartmarshall/wordbuddy/internal/adapter/sqlite"
	"github.com/heartmarshall/wordbuddy/internal/config"
)

// kvStore is the method set shared by every storage backend. The cache and
// the settings store each use a subset of it.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

// storage opens each configured backend once. The cache and the settings
// store share a backend when they name the same one.
type storage struct {
	backends map[string]kvStore
	sqliteDB *sql.DB
	pool     *pgxpool.Pool
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	s := &storage{backends: make(map[string]kvStore, 3)}

	for _, name := range []string{cfg.Cache.Backend, cfg.Settings.Backend} {
		if _, ok := s.backends[name]; ok {
			continue
		}
		kv, err := s.open(ctx, name, cfg, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.backends[name] = kv
	}
	return s, nil
}

func (s *storage) open(ctx context.Context, name string, cfg *config.Config, logger *slog.Logger) (kvStore, error) {
	switch name {
	case config.BackendMemory:
		return memory.NewKV(), nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLite.Path, err)
		}
		s.sqliteDB = db
		logger.InfoContext(ctx, "sqlite opened", slog.String("path", cfg.SQLite.Path))
		return sqlite.NewKV(db), nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		s.pool = pool
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				return nil, err
			}
		}
		return pgkv.New(pool), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", name)
}

func (s *storage) backend(name string) kvStore {
	return s.backends[name]
}

// Close releases database handles.
func (s *storage) Close() {
	if s.sqliteDB != nil {
		s.sqliteDB.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate applies pending Postgres migrations. It is a no-op success when
// no backend uses Postgres; SQLite applies its schema on open.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.UsesBackend(config.BackendPostgres) {
		logger.InfoContext(ctx, "no postgres backend configured, nothing to migrate")
		return nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.Migrate(ctx, pool, logger)
}
