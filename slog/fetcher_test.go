package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/notescan"
	"github.com/fwojciec/notescan/mock"
	nsslog "github.com/fwojciec/notescan/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs status and bytes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*notescan.FetchResult, error) {
				return &notescan.FetchResult{StatusCode: 200, Body: []byte("<rss></rss>")}, nil
			},
		}

		result, err := nsslog.NewLoggingFetcher(inner, debugLogger(&buf)).Fetch(context.Background(), "https://example.com/rss")

		require.NoError(t, err)
		assert.Equal(t, 200, result.StatusCode)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/rss")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "bytes=11")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(context.Context, string) (*notescan.FetchResult, error) {
				return nil, errors.New("network error")
			},
		}

		_, err := nsslog.NewLoggingFetcher(inner, debugLogger(&buf)).Fetch(context.Background(), "https://example.com/rss")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"network error\"")
	})
}

func TestLoggingFeedProber_ProbeFromFetcherSuite(t *testing.T) {
	t.Parallel()

	t.Run("logs working feeds at info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.FeedProber{
			ProbeFn: func(context.Context, string) (notescan.FeedStatus, error) {
				return notescan.FeedStatus{OK: true, Message: "OK (5 items)"}, nil
			},
		}

		status, err := nsslog.NewLoggingFeedProber(inner, slog.New(slog.NewTextHandler(&buf, nil))).Probe(context.Background(), "https://example.com/rss")

		require.NoError(t, err)
		assert.True(t, status.OK)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "ok=true")
		assert.Contains(t, output, "message=\"OK (5 items)\"")
	})

	t.Run("logs failing feeds at warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.FeedProber{
			ProbeFn: func(context.Context, string) (notescan.FeedStatus, error) {
				return notescan.FeedStatus{Message: "HTTP 404"}, nil
			},
		}

		_, err := nsslog.NewLoggingFeedProber(inner, slog.New(slog.NewTextHandler(&buf, nil))).Probe(context.Background(), "https://example.com/rss")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "message=\"HTTP 404\"")
	})
}
