package mock

import (
	"context"

	"github.com/fwojciec/notescan"
)

var _ notescan.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of notescan.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, image []byte) (*notescan.Analysis, error)
}

func (a *Analyzer) Analyze(ctx context.Context, image []byte) (*notescan.Analysis, error) {
	return a.AnalyzeFn(ctx, image)
}
