package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/notescan"
)

var _ notescan.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   notescan.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next notescan.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the response.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (result *notescan.FetchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url}
		if result != nil {
			attrs = append(attrs, "status", result.StatusCode, "bytes", len(result.Body))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		f.logger.Debug("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
