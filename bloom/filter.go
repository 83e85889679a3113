// Package bloom remembers feed URLs across runs using Bloom filters.
package bloom

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a Bloom filter of feed URLs. It stores no URLs, so a
// filter for many thousands of feeds persists in a few kilobytes.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// WriteTo writes the filter in its binary form.
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	return f.f.WriteTo(w)
}

// ReadFrom replaces the filter with one read from r.
func (f *Filter) ReadFrom(r io.Reader) (int64, error) {
	g := &bloom.BloomFilter{}
	n, err := g.ReadFrom(r)
	if err != nil {
		return n, err
	}
	f.f = g
	return n, nil
}

// Load reads a filter saved with Save. A missing file yields a new empty
// filter sized for n items.
func Load(path string, n uint, fpRate float64) (*Filter, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewFilter(n, fpRate), nil
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	f := &Filter{}
	if _, err := f.ReadFrom(file); err != nil {
		return nil, fmt.Errorf("read filter %s: %w", path, err)
	}
	return f, nil
}

// Save writes the filter to path, replacing any existing file.
func (f *Filter) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("write filter %s: %w", path, err)
	}
	return file.Close()
}
