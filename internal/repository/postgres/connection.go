package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dtroode/recipe-server/database"
	"github.com/dtroode/recipe-server/internal/logger"
)

type Connection struct {
	*pgxpool.Pool
}

// NewConnection waits for the database, migrates it and opens a pool.
func NewConnection(ctx context.Context, dsn string, waitTimeout time.Duration, log *logger.Logger) (*Connection, error) {
	if err := Prepare(ctx, dsn, waitTimeout, log); err != nil {
		return nil, err
	}

	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	return &Connection{
		Pool: pool,
	}, nil
}

// Prepare blocks until the database answers, bounded by waitTimeout, and
// applies pending migrations.
func Prepare(ctx context.Context, dsn string, waitTimeout time.Duration, log *logger.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	waitCtx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()

	if err := WaitForDB(waitCtx, db, time.Second, log); err != nil {
		return err
	}

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

func (s *Connection) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.Pool.Ping(ctx)
}
