package mock

import (
	"context"

	"github.com/fwojciec/notescan"
)

var _ notescan.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of notescan.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*notescan.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*notescan.FetchResult, error) {
	return f.FetchFn(ctx, url)
}
