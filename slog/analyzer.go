package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/notescan"
)

var _ notescan.Analyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps an Analyzer with request logging.
type LoggingAnalyzer struct {
	next   notescan.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next notescan.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the outcome. Failures
// the caller can act on are logged at warn level, others at error.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, image []byte) (analysis *notescan.Analysis, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"bytes", len(image),
			"duration", time.Since(begin),
		}
		if analysis != nil {
			attrs = append(attrs, "source", analysis.Source, "articles", len(analysis.Articles))
		}
		switch notescan.ErrorCode(err) {
		case "":
			a.logger.Info("analyze", attrs...)
		case notescan.EINVALID, notescan.ENOTEXT:
			a.logger.Warn("analyze", append(attrs, "err", err)...)
		default:
			a.logger.Error("analyze", append(attrs, "err", err)...)
		}
	}(time.Now())
	return a.next.Analyze(ctx, image)
}
