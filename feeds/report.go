package feeds

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/notescan"
)

// DefaultReportCategory labels the group of verified feeds in a report.
const DefaultReportCategory = "AI・機械学習"

// StatusActive marks a feed that passed its check.
const StatusActive = "active"

// Report is the verified feeds document written after a check run. Only
// working feeds are listed.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	Feeds    ReportGroup    `json:"feeds"`
}

// ReportMetadata summarizes a check run.
type ReportMetadata struct {
	TotalTested int      `json:"total_tested"`
	Working     int      `json:"working"`
	Failed      int      `json:"failed"`
	TestDate    string   `json:"test_date"`
	Categories  []string `json:"categories"`
}

// ReportGroup groups the verified feeds under one category label.
type ReportGroup struct {
	Category string         `json:"category"`
	Feeds    []VerifiedFeed `json:"feeds"`
}

// VerifiedFeed is a working feed as recorded in a report.
type VerifiedFeed struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	LastChecked string `json:"last_checked"`
}

// NewReport builds a report from a check result. Categories lists the
// categories of all tested feeds in first-seen order.
func NewReport(result *Result, category string, now time.Time) *Report {
	if category == "" {
		category = DefaultReportCategory
	}

	r := &Report{
		Metadata: ReportMetadata{
			TotalTested: len(result.Statuses),
			Working:     result.Working,
			Failed:      result.Failed,
			TestDate:    now.Format(time.RFC3339),
			Categories:  []string{},
		},
		Feeds: ReportGroup{
			Category: category,
			Feeds:    []VerifiedFeed{},
		},
	}

	seen := make(map[string]bool)
	for _, s := range result.Statuses {
		if c := s.Feed.Category; c != "" && !seen[c] {
			seen[c] = true
			r.Metadata.Categories = append(r.Metadata.Categories, c)
		}
		if !s.OK {
			continue
		}
		url := s.Feed.URL
		if s.FinalURL != "" {
			url = s.FinalURL
		}
		checked := s.CheckedAt
		if checked.IsZero() {
			checked = now
		}
		r.Feeds.Feeds = append(r.Feeds.Feeds, VerifiedFeed{
			Name:        s.Feed.Name,
			URL:         url,
			Category:    s.Feed.Category,
			Status:      StatusActive,
			LastChecked: checked.Format(time.RFC3339),
		})
	}
	return r
}

// WriteJSON writes v as an indented JSON document without escaping
// non-ASCII or HTML characters.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return notescan.Errorf(notescan.EINTERNAL, "encode json: %s", err)
	}
	return nil
}

// WriteImport writes one "name|url|category" line per feed.
func WriteImport(w io.Writer, feeds []notescan.Feed) error {
	bw := bufio.NewWriter(w)
	for _, f := range feeds {
		if _, err := fmt.Fprintf(bw, "%s|%s|%s\n", f.Name, f.URL, f.Category); err != nil {
			return err
		}
	}
	return bw.Flush()
}
