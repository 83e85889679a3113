package notescan

import "context"

// FetchResult holds a fetched HTTP response.
type FetchResult struct {
	// FinalURL is the URL after following redirects.
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves raw responses from URLs.
type Fetcher interface {
	// Fetch performs a GET request and returns the response regardless of
	// status code. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
