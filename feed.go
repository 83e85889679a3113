package notescan

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// DefaultCategory is assigned to feeds without a category.
const DefaultCategory = "その他"

// Feed describes a syndication feed endpoint.
type Feed struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// FeedStatus is the outcome of probing a feed.
type FeedStatus struct {
	Feed      Feed      `json:"feed"`
	OK        bool      `json:"ok"`
	Message   string    `json:"message"`
	FinalURL  string    `json:"finalUrl"`
	Items     int       `json:"items"`
	CheckedAt time.Time `json:"checkedAt"`
}

// FeedProber checks whether a URL serves a usable feed.
type FeedProber interface {
	// Probe fetches the URL and reports whether it is a valid RSS, Atom or
	// JSON feed. Network and parse failures are reported in the status,
	// not as errors; an error is only returned when ctx is done.
	Probe(ctx context.Context, url string) (FeedStatus, error)
}

// FeedCheckService stores feed probe results.
type FeedCheckService interface {
	// CreateFeedChecks stores a batch of probe results.
	CreateFeedChecks(ctx context.Context, statuses []FeedStatus) error

	// FindLatestFeedChecks returns the most recent result per feed URL.
	FindLatestFeedChecks(ctx context.Context) ([]FeedStatus, error)
}

// CleanFeedURL normalizes a feed URL for deduplication by trimming
// whitespace, trailing slashes and a trailing "#".
func CleanFeedURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	return strings.TrimSuffix(url, "#")
}

// feedDescriptorFile covers the three descriptor layouts in use.
type feedDescriptorFile struct {
	Feeds        json.RawMessage `json:"feeds"`
	WorkingFeeds []Feed          `json:"workingFeeds"`
}

type feedCategory struct {
	Category string `json:"category"`
	Feeds    []Feed `json:"feeds"`
}

// ExtractFeeds decodes a feed descriptor file. Three layouts are accepted:
// hierarchical ({"feeds":[{"category":..,"feeds":[..]}]}), export
// ({"feeds":[{"name","url","category"}]}) and working ({"workingFeeds":[..]}).
// A plain JSON array of feeds and the verified report written by the feed
// checker are accepted too.
//
// Returns EINVALID if the data matches none of the layouts.
func ExtractFeeds(data []byte) ([]Feed, error) {
	var list []Feed
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var file feedDescriptorFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, Errorf(EINVALID, "invalid feed descriptor: %s", err)
	}

	if len(file.Feeds) > 0 && string(file.Feeds) != "null" {
		// Verified reports nest a single category object under "feeds" and
		// keep each feed's own category.
		var single feedCategory
		if err := json.Unmarshal(file.Feeds, &single); err == nil {
			feeds := make([]Feed, 0, len(single.Feeds))
			for _, f := range single.Feeds {
				if f.Category == "" {
					f.Category = single.Category
				}
				feeds = append(feeds, f)
			}
			return feeds, nil
		}

		var raw []map[string]json.RawMessage
		if err := json.Unmarshal(file.Feeds, &raw); err != nil {
			return nil, Errorf(EINVALID, "invalid feeds list: %s", err)
		}
		if len(raw) > 0 {
			if _, nested := raw[0]["feeds"]; nested {
				return extractHierarchical(file.Feeds)
			}
		}
		var feeds []Feed
		if err := json.Unmarshal(file.Feeds, &feeds); err != nil {
			return nil, Errorf(EINVALID, "invalid feeds list: %s", err)
		}
		return feeds, nil
	}

	if file.WorkingFeeds != nil {
		return file.WorkingFeeds, nil
	}

	return nil, Errorf(EINVALID, "unknown feed descriptor format")
}

func extractHierarchical(data json.RawMessage) ([]Feed, error) {
	var categories []feedCategory
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, Errorf(EINVALID, "invalid feed categories: %s", err)
	}
	var feeds []Feed
	for _, c := range categories {
		for _, f := range c.Feeds {
			f.Category = c.Category
			feeds = append(feeds, f)
		}
	}
	return feeds, nil
}

// SortFeeds orders feeds by category, then name.
func SortFeeds(feeds []Feed) {
	sort.SliceStable(feeds, func(i, j int) bool {
		if feeds[i].Category != feeds[j].Category {
			return feeds[i].Category < feeds[j].Category
		}
		return feeds[i].Name < feeds[j].Name
	})
}

// FeedDiscoverer finds feed links advertised by an HTML page.
type FeedDiscoverer interface {
	// DiscoverFeeds returns absolute URLs of the feeds a page links to via
	// <link rel="alternate">, in document order without duplicates.
	DiscoverFeeds(html string, baseURL string) ([]string, error)
}
