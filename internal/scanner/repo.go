package scanner

import (
	"context"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
	apperrors "github.com/kurihiro0119/github-release-delta/internal/errors"
)

// ResolveRepository resolves the release delta for one named repository.
// The name must match owner/name; malformed names are rejected before any
// network call. Forks and repositories without an official release tag are
// rejected with policy errors.
func (s *Scanner) ResolveRepository(ctx context.Context, fullName string) (*domain.PublishedResult, error) {
	ref, err := domain.ParseFullName(fullName)
	if err != nil {
		return nil, apperrors.NewInvalidNameError(fullName)
	}

	repo, err := s.collector.GetRepository(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, err
	}
	if repo.Fork {
		return nil, apperrors.NewForkIgnoredError(repo.FullName)
	}

	resolution, err := s.SelectTag(ctx, repo)
	if err != nil {
		return nil, err
	}
	if !resolution.HasTag() {
		return nil, apperrors.NewNoVersionTagError(repo.FullName)
	}

	delta, err := s.ResolveDelta(ctx, repo, resolution.Tag)
	if err != nil {
		return nil, err
	}
	return Project(delta), nil
}
