package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/notescan"
	"github.com/fwojciec/notescan/feeds"
	"github.com/fwojciec/notescan/gemini"
	"github.com/fwojciec/notescan/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Now    func() time.Time

	Analyzer   notescan.Analyzer
	Analyses   notescan.AnalysisService
	FeedChecks notescan.FeedCheckService
	Prober     notescan.FeedProber

	// Metrics and MetricsHandler are set for the serve command.
	Metrics        *prometheus.Metrics
	MetricsHandler http.Handler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Model   string           `default:"${model}" env:"NOTESCAN_MODEL" help:"Gemini model used for text recognition"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Serve   ServeCmd   `cmd:"" help:"Run the analysis HTTP server"`
	Parse   ParseCmd   `cmd:"" help:"Parse recognized dashboard text from a file or stdin"`
	Analyze AnalyzeCmd `cmd:"" help:"Analyze a dashboard screenshot"`
	History HistoryCmd `cmd:"" help:"List or show stored analyses"`
	Feeds   FeedsCmd   `cmd:"" help:"Check and consolidate RSS feed lists"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr         string   `default:":5001" help:"Listen address"`
	Mock         bool     `help:"Serve demo data instead of recognizing text"`
	Static       string   `type:"existingdir" help:"Serve files from this directory under /static"`
	Save         bool     `help:"Store analyses in the database"`
	Feeds        string   `type:"existingfile" help:"Feed descriptor file to check on a schedule"`
	FeedSchedule string   `default:"@every 6h" help:"Cron schedule for feed checks"`
	Origins      []string `default:"*" help:"Allowed CORS origins"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File string `arg:"" optional:"" help:"Text file to parse (default: stdin)"`
	JSON bool   `name:"json" help:"Print articles as JSON"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	Image  string `arg:"" type:"existingfile" help:"Screenshot to analyze"`
	Mock   bool   `help:"Return demo data instead of recognizing text"`
	Server string `help:"Analyze with a running notescan server at this URL"`
	JSON   bool   `name:"json" help:"Print the analysis as JSON"`
	Save   bool   `help:"Store the analysis in the database"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	ID    string `help:"Show a single analysis"`
	Limit int    `default:"20" help:"Maximum number of analyses to list"`
}

// FeedsCmd groups the feed subcommands.
type FeedsCmd struct {
	Check FeedsCheckCmd `cmd:"" help:"Probe every feed in a descriptor file"`
	Merge FeedsMergeCmd `cmd:"" help:"Merge descriptor files into one deduplicated list"`
}

// FeedsCheckCmd is the "feeds check" subcommand.
type FeedsCheckCmd struct {
	File        string        `arg:"" type:"existingfile" help:"Feed descriptor file"`
	Out         string        `help:"Write the verified feeds report to this file"`
	Import      string        `help:"Write name|url|category lines for working feeds to this file"`
	Concurrency int           `short:"c" default:"8" help:"Concurrent probe limit"`
	Timeout     time.Duration `default:"5s" help:"Per-feed request timeout"`
	Category    string        `default:"${report_category}" help:"Category label of the verified report"`
	Save        bool          `help:"Store results in the database"`
}

// FeedsMergeCmd is the "feeds merge" subcommand.
type FeedsMergeCmd struct {
	Out   string   `arg:"" help:"Output file"`
	Files []string `arg:"" help:"Descriptor files to merge"`
	Seen  string   `help:"Bloom filter file remembering feeds from earlier merges; new feeds are listed"`
}

// kongVars are interpolated into CLI tags.
func kongVars() kong.Vars {
	return kong.Vars{
		"model":           gemini.DefaultModel,
		"report_category": feeds.DefaultReportCategory,
		"version":         version,
	}
}
