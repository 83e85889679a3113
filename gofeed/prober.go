// Package gofeed implements feed probing using gofeed.
package gofeed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/fwojciec/notescan"
	"github.com/mmcdole/gofeed"
)

// Probe outcome messages.
const (
	MessageJSONFeed        = "OK (JSON feed)"
	MessageNotFeed         = "Not valid RSS/Atom"
	MessageParseError      = "Parse error"
	MessageTimeout         = "Timeout"
	MessageConnectionError = "Connection error"
)

var _ notescan.FeedProber = (*Prober)(nil)

// Prober implements notescan.FeedProber.
type Prober struct {
	fetcher    notescan.Fetcher
	discoverer notescan.FeedDiscoverer
	now        func() time.Time
}

// NewProber creates a Prober. The discoverer is optional; when set, HTML
// responses are searched for advertised feed links.
func NewProber(fetcher notescan.Fetcher, discoverer notescan.FeedDiscoverer) *Prober {
	return &Prober{fetcher: fetcher, discoverer: discoverer, now: time.Now}
}

// Probe fetches the URL and reports whether it serves a feed.
func (p *Prober) Probe(ctx context.Context, url string) (notescan.FeedStatus, error) {
	status := notescan.FeedStatus{
		Feed:     notescan.Feed{URL: url},
		FinalURL: url,
	}
	result, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return status, ctx.Err()
		}
		status.Message = classifyFetchError(err)
		status.CheckedAt = p.now().UTC()
		return status, nil
	}
	if result.FinalURL != "" {
		status.FinalURL = result.FinalURL
	}

	if result.StatusCode != 200 {
		status.Message = fmt.Sprintf("HTTP %d", result.StatusCode)
		status.CheckedAt = p.now().UTC()
		return status, nil
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(result.Body))
	switch {
	case err == nil:
		status.OK = true
		status.Items = len(feed.Items)
		if feed.FeedType == "json" {
			status.Message = MessageJSONFeed
		} else {
			status.Message = fmt.Sprintf("OK (%d items)", status.Items)
		}
	case errors.Is(err, gofeed.ErrFeedTypeNotDetected):
		status.Message = MessageNotFeed
		if alt := p.discover(result); len(alt) > 0 {
			status.Message += " (feeds: " + strings.Join(alt, ", ") + ")"
		}
	default:
		status.Message = MessageParseError
	}

	status.CheckedAt = p.now().UTC()
	return status, nil
}

func (p *Prober) discover(result *notescan.FetchResult) []string {
	if p.discoverer == nil || !strings.Contains(strings.ToLower(result.ContentType), "html") {
		return nil
	}
	links, err := p.discoverer.DiscoverFeeds(string(result.Body), result.FinalURL)
	if err != nil {
		return nil
	}
	return links
}

// classifyFetchError maps a transport error to a probe message.
func classifyFetchError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return MessageTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return MessageTimeout
	}
	return MessageConnectionError
}
