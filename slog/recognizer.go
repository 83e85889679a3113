package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/notescan"
)

var _ notescan.TextRecognizer = (*LoggingRecognizer)(nil)

// LoggingRecognizer wraps a TextRecognizer with debug logging.
type LoggingRecognizer struct {
	next   notescan.TextRecognizer
	logger *slog.Logger
}

// NewLoggingRecognizer creates a new LoggingRecognizer.
func NewLoggingRecognizer(next notescan.TextRecognizer, logger *slog.Logger) *LoggingRecognizer {
	return &LoggingRecognizer{next: next, logger: logger}
}

// DetectText delegates to the wrapped recognizer and logs the text size.
func (r *LoggingRecognizer) DetectText(ctx context.Context, image []byte) (text string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("detect text",
			"bytes", len(image),
			"chars", len([]rune(text)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.DetectText(ctx, image)
}
