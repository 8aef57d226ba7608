// Package bloom deduplicates batch URLs. A Bloom filter answers most
// lookups; its positives are confirmed against the exact set.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate bounds how often a new URL costs an exact lookup.
const DefaultFalsePositiveRate = 0.0001

// URLSet remembers URLs it has been shown.
type URLSet struct {
	f     *bloom.BloomFilter
	exact map[string]struct{}
}

// NewURLSet returns a set sized for n URLs at fpRate. A non-positive rate
// uses DefaultFalsePositiveRate.
func NewURLSet(n int, fpRate float64) *URLSet {
	if fpRate <= 0 {
		fpRate = DefaultFalsePositiveRate
	}
	return &URLSet{
		f:     bloom.NewWithEstimates(uint(max(n, 1)), fpRate),
		exact: make(map[string]struct{}, max(n, 0)),
	}
}

// Seen reports whether url was shown before and records it.
func (s *URLSet) Seen(url string) bool {
	if s.f.TestAndAddString(url) {
		if _, ok := s.exact[url]; ok {
			return true
		}
	}
	s.exact[url] = struct{}{}
	return false
}
