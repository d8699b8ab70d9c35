package storage

import (
	"context"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
)

// Storage is the abstract interface for the persistence layer
type Storage interface {
	// SaveScan persists a scan run and its per-repository results
	SaveScan(ctx context.Context, scan *domain.Scan) error

	// GetScans retrieves the most recent scans for an account, newest
	// first. limit <= 0 means no limit.
	GetScans(ctx context.Context, login string, limit int) ([]*domain.Scan, error)

	// GetLatestScan retrieves the most recent scan for an account, or nil
	// when none exists
	GetLatestScan(ctx context.Context, login string) (*domain.Scan, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
