package collector

import (
	"context"
	"time"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
)

// Collector defines the interface for fetching repository data from GitHub
type Collector interface {
	// GetAccount retrieves the account record for a user or organization
	GetAccount(ctx context.Context, login string) (*domain.Account, error)

	// GetRepository retrieves a single repository record
	GetRepository(ctx context.Context, owner, name string) (*domain.RepositoryRef, error)

	// GetRepositories retrieves the full repository list of an account.
	// Pages are fetched concurrently and concatenated in page order.
	GetRepositories(ctx context.Context, account *domain.Account) ([]*domain.RepositoryRef, error)

	// GetTags retrieves the first page of tags for a repository, in the
	// order returned by the host
	GetTags(ctx context.Context, repo *domain.RepositoryRef) ([]*domain.Tag, error)

	// GetCommit retrieves a single commit by SHA
	GetCommit(ctx context.Context, repo *domain.RepositoryRef, sha string) (*domain.Commit, error)

	// GetCommitsSince retrieves commits at or after the given time,
	// newest first
	GetCommitsSince(ctx context.Context, repo *domain.RepositoryRef, since time.Time) ([]*domain.Commit, error)
}
