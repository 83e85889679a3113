package feeds

import (
	"context"
	"sync"

	"github.com/fwojciec/notescan"
	"golang.org/x/time/rate"
)

var _ notescan.DomainLimiter = (*DomainLimiter)(nil)

// DefaultRequestsPerSecond paces requests to a single host.
const DefaultRequestsPerSecond = 2

// DomainLimiter rate limits requests per host with one token bucket each,
// so feeds on different hosts are probed concurrently.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host, without bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until a request to domain is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
