package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/notescan"
)

var _ notescan.FeedProber = (*LoggingFeedProber)(nil)

// LoggingFeedProber wraps a FeedProber and logs each result.
type LoggingFeedProber struct {
	next   notescan.FeedProber
	logger *slog.Logger
}

// NewLoggingFeedProber creates a new LoggingFeedProber.
func NewLoggingFeedProber(next notescan.FeedProber, logger *slog.Logger) *LoggingFeedProber {
	return &LoggingFeedProber{next: next, logger: logger}
}

// Probe delegates to the wrapped prober. Working feeds are logged at info
// level and failing ones at warn.
func (p *LoggingFeedProber) Probe(ctx context.Context, url string) (status notescan.FeedStatus, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil || !status.OK {
			level = slog.LevelWarn
		}
		p.logger.Log(ctx, level, "probe feed",
			"url", url,
			"ok", status.OK,
			"message", status.Message,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Probe(ctx, url)
}
