// Package store is the Postgres-backed registry of RSA public/private key
// material and Diffie-Hellman session parameters, replacing the teacher's
// internal/repository.KeyRepository and RoomRepository.
package store

import (
	"context"
	"fmt"

	"cryptolab/internal/config/storageconfig"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the runtime connection pool with each table's repository.
type Store struct {
	pool *pgxpool.Pool

	Operators *OperatorRepository
	RSAKeys   *RSAKeyRepository
	Sessions  *DHSessionRepository
}

// Open runs pending migrations (via database/sql, as golang-migrate's
// postgres driver requires) and then opens the pgxpool.Pool the
// repositories query through.
func Open(ctx context.Context, cfg *storageconfig.Config, migrationsPath string) (*Store, error) {
	if err := runMigrations(cfg.DSN(), migrationsPath); err != nil {
		return nil, fmt.Errorf("store: running migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("store: opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: pinging pool: %w", err)
	}

	return &Store{
		pool:      pool,
		Operators: &OperatorRepository{pool: pool},
		RSAKeys:   &RSAKeyRepository{pool: pool},
		Sessions:  &DHSessionRepository{pool: pool},
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func runMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("constructing migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
