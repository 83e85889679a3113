package mock

import (
	"context"

	"github.com/fwojciec/notescan"
)

var (
	_ notescan.FeedProber       = (*FeedProber)(nil)
	_ notescan.FeedCheckService = (*FeedCheckService)(nil)
	_ notescan.DomainLimiter    = (*DomainLimiter)(nil)
)

// FeedProber is a mock implementation of notescan.FeedProber.
type FeedProber struct {
	ProbeFn func(ctx context.Context, url string) (notescan.FeedStatus, error)
}

func (p *FeedProber) Probe(ctx context.Context, url string) (notescan.FeedStatus, error) {
	return p.ProbeFn(ctx, url)
}

// FeedCheckService is a mock implementation of notescan.FeedCheckService.
type FeedCheckService struct {
	CreateFeedChecksFn     func(ctx context.Context, statuses []notescan.FeedStatus) error
	FindLatestFeedChecksFn func(ctx context.Context) ([]notescan.FeedStatus, error)
}

func (s *FeedCheckService) CreateFeedChecks(ctx context.Context, statuses []notescan.FeedStatus) error {
	return s.CreateFeedChecksFn(ctx, statuses)
}

func (s *FeedCheckService) FindLatestFeedChecks(ctx context.Context) ([]notescan.FeedStatus, error) {
	return s.FindLatestFeedChecksFn(ctx)
}

// DomainLimiter is a mock implementation of notescan.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
