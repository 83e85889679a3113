// Package feeds checks and consolidates lists of syndication feeds.
package feeds

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/fwojciec/notescan"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of feeds probed at once.
const DefaultConcurrency = 8

// Checker probes feeds concurrently, pacing requests per host. Results are
// stored in Checks when it is set.
type Checker struct {
	Prober      notescan.FeedProber
	RateLimiter notescan.DomainLimiter
	Checks      notescan.FeedCheckService
	Concurrency int
}

// Result holds the outcome of a check run. Statuses are in input order.
type Result struct {
	Statuses []notescan.FeedStatus
	Working  int
	Failed   int
}

// WorkingFeeds returns the feeds that responded with a valid feed, with
// their URL replaced by the final URL after redirects.
func (r *Result) WorkingFeeds() []notescan.Feed {
	feeds := make([]notescan.Feed, 0, r.Working)
	for _, s := range r.Statuses {
		if !s.OK {
			continue
		}
		f := s.Feed
		if s.FinalURL != "" {
			f.URL = s.FinalURL
		}
		feeds = append(feeds, f)
	}
	return feeds
}

// FailedStatuses returns the statuses of feeds that did not check out.
func (r *Result) FailedStatuses() []notescan.FeedStatus {
	var failed []notescan.FeedStatus
	for _, s := range r.Statuses {
		if !s.OK {
			failed = append(failed, s)
		}
	}
	return failed
}

// ProgressEvent reports a single completed probe.
type ProgressEvent struct {
	Completed int
	Total     int
	Status    notescan.FeedStatus
}

// ProgressFunc is a callback for reporting check progress.
type ProgressFunc func(event ProgressEvent)

type checkResult struct {
	position int
	status   notescan.FeedStatus
}

// CheckAll probes every feed and returns the statuses in input order. Probe
// failures are recorded in the statuses; an error is returned only when ctx
// ends early or storing the results fails. The progress callback, if
// provided, is called from a single goroutine.
func (c *Checker) CheckAll(ctx context.Context, feeds []notescan.Feed, progress ProgressFunc) (*Result, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan checkResult, len(feeds))
	var completed atomic.Int64
	total := len(feeds)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var groupErr error
	go func() {
		for i, feed := range feeds {
			g.Go(func() error {
				status, err := c.check(gctx, feed)
				if err != nil {
					return err
				}
				resultCh <- checkResult{position: i, status: status}
				return nil
			})
		}
		groupErr = g.Wait()
		close(resultCh)
	}()

	result := &Result{Statuses: make([]notescan.FeedStatus, len(feeds))}
	for r := range resultCh {
		n := completed.Add(1)
		result.Statuses[r.position] = r.status
		if r.status.OK {
			result.Working++
		} else {
			result.Failed++
		}
		if progress != nil {
			progress(ProgressEvent{
				Completed: int(n),
				Total:     total,
				Status:    r.status,
			})
		}
	}
	if groupErr != nil {
		return nil, groupErr
	}

	if c.Checks != nil && len(result.Statuses) > 0 {
		if err := c.Checks.CreateFeedChecks(ctx, result.Statuses); err != nil {
			return nil, fmt.Errorf("store feed checks: %w", err)
		}
	}

	return result, nil
}

func (c *Checker) check(ctx context.Context, feed notescan.Feed) (notescan.FeedStatus, error) {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, host(feed.URL)); err != nil {
			return notescan.FeedStatus{}, err
		}
	}

	status, err := c.Prober.Probe(ctx, feed.URL)
	if err != nil {
		return notescan.FeedStatus{}, err
	}
	status.Feed = feed
	return status, nil
}

// host returns the host of rawURL, or rawURL itself if it does not parse.
func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}
