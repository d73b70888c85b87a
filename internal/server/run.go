package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pmadmin/console/internal/config"
	"pmadmin/console/internal/jobs"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeSchedule   = "@every 1m"
)

// Run serves the stub backend over HTTP until ctx is done, then shuts down
// gracefully.
func Run(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) error {
	stub, err := NewStub(ctx, cfg, log)
	if err != nil {
		return err
	}

	httpServer := NewHTTPServer(cfg.Stub.HTTP, log, stub.Engine)

	scheduler := jobs.NewScheduler(log)
	if err := scheduler.Add("purge-sessions", purgeSchedule, stub.PurgeExpiredSessions); err != nil {
		return err
	}
	scheduler.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	select {
	case err := <-errCh:
		stopScheduler(log, scheduler)
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	stopScheduler(log, scheduler)

	log.Info().Msg("server exited cleanly")
	return nil
}

func stopScheduler(log zerolog.Logger, scheduler *jobs.Scheduler) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := scheduler.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("scheduler stop failed")
	}
}
