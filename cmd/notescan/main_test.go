package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/notescan/cmd/notescan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"serve", "parse", "analyze", "history", "feeds"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"model": "test-model", "report_category": "AI", "version": "test"},
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range commands {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	newMain := func(t *testing.T) *main.Main {
		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "test.db")
		return m
	}

	t.Run("help shows kong output", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"--help"}, strings.NewReader(""), stdout, stderr)

		require.NoError(t, err)
		for _, cmd := range commands {
			assert.Contains(t, stdout.String(), cmd)
		}
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "Flags:")
	})

	t.Run("no arguments returns an error", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), nil, strings.NewReader(""), stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("unknown command returns an error", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"bogus"}, strings.NewReader(""), stdout, stderr)

		require.Error(t, err)
	})

	t.Run("parse reads stdin", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"parse", "--json"}, strings.NewReader(dashboardText), stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"views": 1234`)
		assert.Contains(t, stdout.String(), `"likes": 5`)
	})

	t.Run("history lists an empty database", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"history"}, strings.NewReader(""), stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No analyses found.")
	})

	t.Run("analyze with demo data", func(t *testing.T) {
		t.Parallel()

		image := writeImage(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := newMain(t).Run(context.Background(), []string{"analyze", "--mock", "--json", image}, strings.NewReader(""), stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"is_mock": true`)
	})
}
