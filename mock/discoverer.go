package mock

import "github.com/fwojciec/notescan"

var _ notescan.FeedDiscoverer = (*FeedDiscoverer)(nil)

// FeedDiscoverer is a mock implementation of notescan.FeedDiscoverer.
type FeedDiscoverer struct {
	DiscoverFeedsFn func(html string, baseURL string) ([]string, error)
}

func (d *FeedDiscoverer) DiscoverFeeds(html string, baseURL string) ([]string, error) {
	return d.DiscoverFeedsFn(html, baseURL)
}
