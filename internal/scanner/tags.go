package scanner

import (
	"context"
	"regexp"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
)

// officialTag matches release tags of the form v1.2.3 or 1.2.3. Tags with
// pre-release or build metadata suffixes never qualify, even when they are
// the newest tag.
var officialTag = regexp.MustCompile(`^v?\d+\.\d+\.\d+$`)

// IsOfficialTag reports whether name is an official release tag name
func IsOfficialTag(name string) bool {
	return officialTag.MatchString(name)
}

// SelectTag fetches the repository's tags and selects the first official
// release tag in host order. A repository without a qualifying tag yields a
// TagResolution with a nil Tag; that is a normal outcome, not an error.
func (s *Scanner) SelectTag(ctx context.Context, repo *domain.RepositoryRef) (*domain.TagResolution, error) {
	tags, err := s.collector.GetTags(ctx, repo)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("repo", repo.FullName).
		Int("tags", len(tags)).
		Msg("fetched tags")
	if len(tags) > 0 {
		s.logger.Debug().
			Str("repo", repo.FullName).
			Strs("names", tagNames(tags)).
			Msg("raw tag list")
	}

	for _, tag := range tags {
		if IsOfficialTag(tag.Name) {
			return &domain.TagResolution{Repo: repo, Tag: tag}, nil
		}
	}
	return &domain.TagResolution{Repo: repo}, nil
}

func tagNames(tags []*domain.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}
