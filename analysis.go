package notescan

import (
	"context"
	"time"
)

// MaxRawTextLength is the number of runes of recognized text echoed back
// to clients.
const MaxRawTextLength = 500

// Analysis is the result of analyzing one dashboard screenshot.
type Analysis struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Mock     bool      `json:"isMock"`
	Articles []Article `json:"articles"`
	RawText  string    `json:"rawText"`
	TextHash string    `json:"textHash"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the analysis contains invalid fields.
func (a *Analysis) Validate() error {
	for i, art := range a.Articles {
		if art.Title == "" {
			return Errorf(EINVALID, "article %d title required", i)
		}
		if art.Views < 0 || art.Comments < 0 || art.Likes < 0 {
			return Errorf(EINVALID, "article %d metrics must not be negative", i)
		}
	}
	return nil
}

// Totals sums the metrics of the analysis articles.
func (a *Analysis) Totals() Totals {
	return Summarize(a.Articles)
}

// TruncateText returns the first n runes of s.
func TruncateText(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Analyzer turns a screenshot into an Analysis.
type Analyzer interface {
	// Analyze extracts articles from the decoded image.
	// Returns EINVALID for an empty image and ENOTEXT when no text is found.
	Analyze(ctx context.Context, image []byte) (*Analysis, error)
}

// AnalysisService represents a service for managing stored analyses.
type AnalysisService interface {
	// CreateAnalysis stores an analysis and assigns its ID.
	CreateAnalysis(ctx context.Context, a *Analysis) error

	// FindAnalysisByID retrieves an analysis with its articles.
	// Returns ENOTFOUND if the analysis does not exist.
	FindAnalysisByID(ctx context.Context, id string) (*Analysis, error)

	// FindAnalyses retrieves analyses matching the filter, newest first.
	FindAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, error)

	// DeleteAnalysis permanently removes an analysis and its articles.
	// Returns ENOTFOUND if the analysis does not exist.
	DeleteAnalysis(ctx context.Context, id string) error
}

// AnalysisFilter represents a filter for FindAnalyses.
type AnalysisFilter struct {
	ID       *string `json:"id"`
	Mock     *bool   `json:"isMock"`
	TextHash *string `json:"textHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
