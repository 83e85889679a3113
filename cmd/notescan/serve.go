package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/notescan/cron"
	"github.com/fwojciec/notescan/demo"
	"github.com/fwojciec/notescan/echo"
)

// shutdownTimeout bounds the wait for in-flight requests and feed checks.
const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It blocks until deps.Ctx is done.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := echo.NewServer(echo.Config{
		Analyzer:     deps.Analyzer,
		Analyses:     deps.Analyses,
		FeedChecks:   deps.FeedChecks,
		Metrics:      deps.MetricsHandler,
		Logger:       deps.Logger,
		Mock:         c.Mock,
		MockMessage:  demo.Message,
		Version:      version,
		AllowOrigins: c.Origins,
		StaticDir:    c.Static,
	})

	var scheduler *cron.Scheduler
	if c.Feeds != "" {
		scheduler = cron.NewScheduler(deps.Logger, time.Local)
		job := checkFeedsJob(deps, c.Feeds)
		if err := scheduler.Schedule("feed check", c.FeedSchedule, job); err != nil {
			return err
		}
		scheduler.Start()
		deps.Logger.Info("feed checks scheduled", "file", c.Feeds, "next", scheduler.Next())

		go func() {
			if err := job(deps.Ctx); err != nil && deps.Ctx.Err() == nil {
				deps.Logger.Error("feed check", "file", c.Feeds, "err", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(c.Addr)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(ctx); err != nil {
			deps.Logger.Warn("scheduler stop", "err", err)
		}
	}
	if serveErr != nil {
		return fmt.Errorf("server: %w", serveErr)
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	deps.Logger.Info("server stopped")
	return nil
}
