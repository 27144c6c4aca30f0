package index

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// dedup tracks URLs already indexed in a run using a Bloom filter.
// It is safe for concurrent use by multiple goroutines.
type dedup struct {
	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// newDedup creates a dedup sized for n expected URLs with the given
// false positive rate.
func newDedup(n uint, fpRate float64) *dedup {
	return &dedup{seen: bloom.NewWithEstimates(n, fpRate)}
}

// Push records a URL and reports whether it was new. URL fragments are
// stripped first, so URLs differing only by fragment are duplicates.
// False positives drop a genuinely new URL at the filter's configured
// rate; false negatives do not occur.
func (d *dedup) Push(rawURL string) bool {
	url := rawURL
	if idx := strings.Index(url, "#"); idx != -1 {
		url = url[:idx]
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen.TestString(url) {
		return false
	}
	d.seen.AddString(url)
	return true
}
