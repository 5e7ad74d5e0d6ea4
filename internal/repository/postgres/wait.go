package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/recipe-server/internal/logger"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// WaitForDB pings db every interval until it answers or ctx is done.
func WaitForDB(ctx context.Context, db pinger, interval time.Duration, log *logger.Logger) error {
	log.Info("Waiting for database...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := db.PingContext(ctx)
		if err == nil {
			log.Info("Database available")
			return nil
		}
		log.Info("Database unavailable, waiting", "retry_in", interval, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("database did not become available: %w", errors.Join(ctx.Err(), err))
		case <-ticker.C:
		}
	}
}
