// Package goquery implements HTML inspection using goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/notescan"
)

// feedTypes are the MIME types advertised for syndication feeds.
var feedTypes = map[string]bool{
	"application/rss+xml":   true,
	"application/atom+xml":  true,
	"application/feed+json": true,
	"application/json":      true,
	"application/rdf+xml":   true,
	"text/xml":              true,
	"application/xml":       true,
}

var _ notescan.FeedDiscoverer = (*Discoverer)(nil)

// Discoverer implements notescan.FeedDiscoverer.
type Discoverer struct{}

// NewDiscoverer creates a new Discoverer.
func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

// DiscoverFeeds returns the feed URLs advertised by the page. Relative
// links are resolved against baseURL.
func (d *Discoverer) DiscoverFeeds(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, notescan.Errorf(notescan.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, notescan.Errorf(notescan.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var feeds []string
	doc.Find("link[rel]").Each(func(_ int, sel *goquery.Selection) {
		if !hasRel(sel.AttrOr("rel", ""), "alternate") {
			return
		}
		typ := strings.ToLower(strings.TrimSpace(sel.AttrOr("type", "")))
		if i := strings.Index(typ, ";"); i != -1 {
			typ = strings.TrimSpace(typ[:i])
		}
		if !feedTypes[typ] {
			return
		}
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref).String()
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		feeds = append(feeds, resolved)
	})

	return feeds, nil
}

// hasRel reports whether a space-separated rel attribute contains value.
func hasRel(rel, value string) bool {
	for _, r := range strings.Fields(rel) {
		if strings.EqualFold(r, value) {
			return true
		}
	}
	return false
}
