package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/notescan"
	"github.com/fwojciec/notescan/demo"
	"github.com/fwojciec/notescan/gemini"
	"github.com/fwojciec/notescan/gofeed"
	"github.com/fwojciec/notescan/goquery"
	nshttp "github.com/fwojciec/notescan/http"
	"github.com/fwojciec/notescan/prometheus"
	"github.com/fwojciec/notescan/scan"
	nsslog "github.com/fwojciec/notescan/slog"
	"github.com/fwojciec/notescan/sqlite"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/genai"
)

// version is set at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("notescan"),
		kong.Description("Extract article statistics from note dashboard screenshots"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kongVars(),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'notescan --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := m.wire(ctx, kongCtx.Command(), cli, deps); err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// wire sets the command-specific dependencies.
func (m *Main) wire(ctx context.Context, command string, cli *CLI, deps *Dependencies) error {
	var err error
	switch {
	case command == "serve":
		c := cli.Serve
		if c.Save || c.Feeds != "" {
			if err := m.openDB(deps.Stderr); err != nil {
				return err
			}
			deps.FeedChecks = sqlite.NewFeedCheckService(m.DB)
		}
		if c.Save {
			deps.Analyses = sqlite.NewAnalysisService(m.DB)
		}

		reg := promclient.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		deps.Metrics = prometheus.NewMetrics(reg)
		deps.MetricsHandler = prometheus.Handler(reg)

		analyzer, err := m.newAnalyzer(ctx, cli.Model, c.Mock, "", deps)
		if err != nil {
			return err
		}
		source := scan.Source
		if c.Mock {
			source = demo.Source
		}
		deps.Analyzer = prometheus.NewInstrumentedAnalyzer(
			nsslog.NewLoggingAnalyzer(analyzer, deps.Logger), deps.Metrics, source)
		deps.Prober = prometheus.NewInstrumentedFeedProber(
			nsslog.NewLoggingFeedProber(newProber(nshttp.DefaultFetchTimeout, deps.Logger), deps.Logger), deps.Metrics)

	case strings.HasPrefix(command, "analyze"):
		c := cli.Analyze
		if c.Save {
			if err := m.openDB(deps.Stderr); err != nil {
				return err
			}
			deps.Analyses = sqlite.NewAnalysisService(m.DB)
		}
		deps.Analyzer, err = m.newAnalyzer(ctx, cli.Model, c.Mock, c.Server, deps)
		if err != nil {
			return err
		}

	case command == "history":
		if err := m.openDB(deps.Stderr); err != nil {
			return err
		}
		deps.Analyses = sqlite.NewAnalysisService(m.DB)

	case strings.HasPrefix(command, "feeds check"):
		c := cli.Feeds.Check
		if c.Save {
			if err := m.openDB(deps.Stderr); err != nil {
				return err
			}
			deps.FeedChecks = sqlite.NewFeedCheckService(m.DB)
		}
		deps.Prober = newProber(c.Timeout, deps.Logger)
	}
	return nil
}

func (m *Main) openDB(stderr io.Writer) error {
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		fmt.Fprintf(stderr, "Hint: Set NOTESCAN_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	return nil
}

// newAnalyzer returns the analyzer selected by the flags: a remote server,
// demo data, or Gemini text recognition.
func (m *Main) newAnalyzer(ctx context.Context, model string, mock bool, server string, deps *Dependencies) (notescan.Analyzer, error) {
	if server != "" {
		return nshttp.NewAnalyzerClient(server), nil
	}
	if mock {
		return demo.NewAnalyzer(uint64(deps.Now().UnixNano())), nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey, or use --mock")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	recognizer := nsslog.NewLoggingRecognizer(gemini.NewRecognizer(client, model), deps.Logger)
	return scan.NewAnalyzer(recognizer), nil
}

// newProber builds the feed prober used by feed checks.
func newProber(timeout time.Duration, logger *slog.Logger) notescan.FeedProber {
	fetcher := nsslog.NewLoggingFetcher(nshttp.NewFetcher(nshttp.WithTimeout(timeout)), logger)
	return gofeed.NewProber(fetcher, goquery.NewDiscoverer())
}

func defaultDBPath() string {
	if path := os.Getenv("NOTESCAN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "notescan.db"
	}
	dir := filepath.Join(home, ".notescan")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "notescan.db")
}
