package feeds

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/notescan"
	"github.com/fwojciec/notescan/bloom"
)

// MergeResult holds the outcome of consolidating feed lists.
type MergeResult struct {
	Feeds      []notescan.Feed
	Duplicates int
	Skipped    int
}

// Merge consolidates feed lists into one, sorted by category and name.
// URLs are normalized with notescan.CleanFeedURL and the first feed seen
// for a URL wins. Feeds without a name or URL are skipped, and an empty
// category becomes notescan.DefaultCategory.
func Merge(lists ...[]notescan.Feed) *MergeResult {
	seen := make(map[string]bool)

	result := &MergeResult{Feeds: []notescan.Feed{}}
	for _, l := range lists {
		for _, f := range l {
			name := strings.TrimSpace(f.Name)
			url := notescan.CleanFeedURL(f.URL)
			if name == "" || url == "" {
				result.Skipped++
				continue
			}
			if seen[url] {
				result.Duplicates++
				continue
			}
			seen[url] = true
			category := strings.TrimSpace(f.Category)
			if category == "" {
				category = notescan.DefaultCategory
			}
			result.Feeds = append(result.Feeds, notescan.Feed{Name: name, URL: url, Category: category})
		}
	}

	notescan.SortFeeds(result.Feeds)
	return result
}

// Default sizing of the filter that remembers merged feeds across runs.
const (
	DefaultSeenCapacity = 100_000
	DefaultSeenFPRate   = 0.001
)

// Unseen returns the feeds whose URL the filter has not seen and adds
// every feed to it. A false positive in the filter can hide a new feed,
// never report a known one as new.
func Unseen(feeds []notescan.Feed, seen *bloom.Filter) []notescan.Feed {
	var fresh []notescan.Feed
	for _, f := range feeds {
		url := notescan.CleanFeedURL(f.URL)
		if seen.Test(url) {
			continue
		}
		seen.Add(url)
		fresh = append(fresh, f)
	}
	return fresh
}

// LoadFile reads a feed descriptor file in any layout accepted by
// notescan.ExtractFeeds.
func LoadFile(path string) ([]notescan.Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	feeds, err := notescan.ExtractFeeds(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return feeds, nil
}

// CountByCategory returns the number of feeds in each category.
func CountByCategory(feeds []notescan.Feed) map[string]int {
	counts := make(map[string]int)
	for _, f := range feeds {
		counts[f.Category]++
	}
	return counts
}
