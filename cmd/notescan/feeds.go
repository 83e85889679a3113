package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fwojciec/notescan"
	"github.com/fwojciec/notescan/bloom"
	"github.com/fwojciec/notescan/feeds"
)

// Run executes the feeds check command.
func (c *FeedsCheckCmd) Run(deps *Dependencies) error {
	list, err := feeds.LoadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", notescan.ErrorMessage(err))
		return err
	}

	checker := newChecker(deps, c.Concurrency)
	result, err := checker.CheckAll(deps.Ctx, list, func(e feeds.ProgressEvent) {
		fmt.Fprintf(deps.Stderr, "[%d/%d] %s: %s\n", e.Completed, e.Total, e.Status.Feed.Name, e.Status.Message)
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	if err := renderFeedStatuses(deps.Stdout, result.Statuses); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "\n%d working, %d failed\n", result.Working, result.Failed)

	if c.Out != "" {
		report := feeds.NewReport(result, c.Category, deps.Now())
		if err := writeFile(c.Out, func(w io.Writer) error { return feeds.WriteJSON(w, report) }); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "Report written to %s\n", c.Out)
	}
	if c.Import != "" {
		if err := writeFile(c.Import, func(w io.Writer) error { return feeds.WriteImport(w, result.WorkingFeeds()) }); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "Import list written to %s\n", c.Import)
	}
	return nil
}

// Run executes the feeds merge command.
func (c *FeedsMergeCmd) Run(deps *Dependencies) error {
	var lists [][]notescan.Feed
	for _, path := range c.Files {
		list, err := feeds.LoadFile(path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "skipping %s\n", err)
			continue
		}
		fmt.Fprintf(deps.Stderr, "%s: %d feeds\n", path, len(list))
		lists = append(lists, list)
	}
	if len(lists) == 0 {
		return notescan.Errorf(notescan.EINVALID, "no readable feed files")
	}

	result := feeds.Merge(lists...)
	if err := writeFile(c.Out, func(w io.Writer) error { return feeds.WriteJSON(w, result.Feeds) }); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "%d feeds written to %s (%d duplicates, %d skipped)\n",
		len(result.Feeds), c.Out, result.Duplicates, result.Skipped)

	counts := feeds.CountByCategory(result.Feeds)
	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(deps.Stdout, "  %s: %d\n", category, counts[category])
	}

	if c.Seen != "" {
		seen, err := bloom.Load(c.Seen, feeds.DefaultSeenCapacity, feeds.DefaultSeenFPRate)
		if err != nil {
			return err
		}
		fresh := feeds.Unseen(result.Feeds, seen)
		if err := seen.Save(c.Seen); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "%d new since last merge\n", len(fresh))
		for _, f := range fresh {
			fmt.Fprintf(deps.Stdout, "  + %s (%s)\n", f.Name, f.URL)
		}
	}
	return nil
}

func newChecker(deps *Dependencies, concurrency int) *feeds.Checker {
	return &feeds.Checker{
		Prober:      deps.Prober,
		RateLimiter: feeds.NewDomainLimiter(feeds.DefaultRequestsPerSecond),
		Checks:      deps.FeedChecks,
		Concurrency: concurrency,
	}
}

// checkFeedsJob returns a scheduled job that checks the feeds listed in path.
func checkFeedsJob(deps *Dependencies, path string) func(ctx context.Context) error {
	checker := newChecker(deps, feeds.DefaultConcurrency)
	return func(ctx context.Context) error {
		list, err := feeds.LoadFile(path)
		if err != nil {
			return err
		}
		result, err := checker.CheckAll(ctx, list, nil)
		if err != nil {
			return err
		}
		deps.Logger.Info("feed check", "file", path, "working", result.Working, "failed", result.Failed)
		return nil
	}
}

// writeFile creates path and writes to it with fn.
func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
