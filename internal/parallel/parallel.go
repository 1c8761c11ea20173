// Package parallel splits element-wise tensor kernels into contiguous ranges.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how kernels split their work.
type Config struct {
	Enabled      bool // Whether ranges may run on separate goroutines.
	NumWorkers   int  // Upper bound on concurrent ranges.
	MinChunkSize int  // Minimum elements per range.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16 * 1024,
	}
}

// Ranges calls f(start, end) over [0, n) split into contiguous, non-overlapping ranges.
// Small inputs, or a disabled config, run as a single range on the calling goroutine.
func Ranges(n int, cfg Config, f func(start, end int)) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*cfg.MinChunkSize {
		f(0, n)
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
