package scanner

import (
	"context"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
)

// ResolveDelta returns the commits on repo strictly newer than the commit
// tag points at. Callers must pass a present tag; filter out no-tag
// resolutions before invoking this.
//
// The since-filtered listing is inclusive, so the tagged commit itself comes
// back as part of the result. It is removed by comparing SHAs against the
// tag's commit rather than by trimming a fixed position, so the outcome does
// not depend on the host's ordering or boundary semantics.
func (s *Scanner) ResolveDelta(ctx context.Context, repo *domain.RepositoryRef, tag *domain.Tag) (*domain.DeltaResult, error) {
	tagged, err := s.collector.GetCommit(ctx, repo, tag.SHA)
	if err != nil {
		return nil, err
	}

	commits, err := s.collector.GetCommitsSince(ctx, repo, tagged.Date)
	if err != nil {
		return nil, err
	}

	delta := make([]*domain.Commit, 0, len(commits))
	for _, commit := range commits {
		if commit.SHA == tag.SHA {
			continue
		}
		delta = append(delta, commit)
	}

	s.logger.Info().
		Str("repo", repo.FullName).
		Str("tag", tag.Name).
		Int("commits", len(delta)).
		Msg("resolved commit delta")
	if len(commits) > 0 {
		s.logger.Debug().
			Str("repo", repo.FullName).
			Interface("commits", commits).
			Msg("raw commit list")
	}

	return &domain.DeltaResult{
		Repo:    repo,
		Tag:     tag,
		Commits: delta,
	}, nil
}
