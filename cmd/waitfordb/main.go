// Command waitfordb blocks until the configured Postgres database accepts
// connections. Container start-up runs it before the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"recipebox/internal/config"
	"recipebox/internal/logger"
)

const pollInterval = time.Second

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.DBDriver != config.DriverPostgres {
		log.Infow("nothing to wait for", "driver", cfg.DBDriver)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.WaitTimeout)
	defer cancel()

	if err := Wait(ctx, cfg.PostgresDSN(), pollInterval, ping, log); err != nil {
		log.Errorw("database unavailable", "timeout", cfg.WaitTimeout, "error", err)
		os.Exit(1)
	}
	log.Info("Database available!")
}

// PingFunc checks a single connection attempt.
type PingFunc func(ctx context.Context, dsn string) error

// Wait calls ping every interval until it succeeds or ctx is done.
func Wait(ctx context.Context, dsn string, interval time.Duration, ping PingFunc, log *zap.SugaredLogger) error {
	log.Info("Waiting for database...")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := ping(ctx, dsn)
		if err == nil {
			return nil
		}
		log.Infow("Database unavailable, waiting 1 second...", "error", err)

		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), err)
		case <-ticker.C:
		}
	}
}

func ping(ctx context.Context, dsn string) error {
	attempt, cancel := context.WithTimeout(ctx, pollInterval)
	defer cancel()

	conn, err := pgx.Connect(attempt, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	return conn.Ping(attempt)
}
