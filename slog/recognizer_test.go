package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/notescan/mock"
	nsslog "github.com/fwojciec/notescan/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecognizer_DetectText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.TextRecognizer{
		DetectTextFn: func(context.Context, []byte) (string, error) {
			return "スキ", nil
		},
	}

	text, err := nsslog.NewLoggingRecognizer(inner, logger).DetectText(context.Background(), []byte("image"))

	require.NoError(t, err)
	assert.Equal(t, "スキ", text)
	output := buf.String()
	assert.Contains(t, output, "level=DEBUG")
	assert.Contains(t, output, "bytes=5")
	assert.Contains(t, output, "chars=2")
}
