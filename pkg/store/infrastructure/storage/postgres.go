package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"storefront/pkg/store/domain/model"
)

const postgresTimeout = 5 * time.Second

const createKVStore = `CREATE TABLE IF NOT EXISTS kv_store (
	k          TEXT        PRIMARY KEY,
	v          BYTEA       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// pgxPool is the part of *pgxpool.Pool the storage uses.
type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresStorage keeps records in a kv_store table it creates on open.
type PostgresStorage struct {
	pool pgxPool
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	if _, err := pool.Exec(ctx, createKVStore); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "create kv_store")
	}
	return &PostgresStorage{pool: pool}, nil
}

func (s *PostgresStorage) Load(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT v FROM kv_store WHERE k = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "load %s", key)
	}
	return value, nil
}

func (s *PostgresStorage) Save(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), postgresTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_store (k, v) VALUES ($1, $2)
		 ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = now()`, key, value)
	return errors.Wrapf(err, "save %s", key)
}

func (s *PostgresStorage) Close() {
	s.pool.Close()
}
