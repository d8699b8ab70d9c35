// Package scanner resolves, for one repository or all repositories of an
// account, the commits that landed since the latest official release tag.
package scanner

import (
	"github.com/rs/zerolog"

	"github.com/kurihiro0119/github-release-delta/internal/collector"
)

// DefaultConcurrency bounds the per-repository fan-out during an account scan
const DefaultConcurrency = 5

// Scanner resolves release deltas against the GitHub API
type Scanner struct {
	collector   collector.Collector
	logger      zerolog.Logger
	concurrency int
}

// NewScanner creates a new scanner. concurrency bounds the number of
// repositories resolved in parallel during an account scan; values below 1
// fall back to DefaultConcurrency.
func NewScanner(coll collector.Collector, logger zerolog.Logger, concurrency int) *Scanner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Scanner{
		collector:   coll,
		logger:      logger,
		concurrency: concurrency,
	}
}
