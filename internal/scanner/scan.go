package scanner

import (
	"context"
	"sync"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
)

// ScanAccount resolves release deltas for every eligible repository of an
// account. Forks, repositories without an official release tag, and
// repositories with no commits since their tag are silently omitted. The
// result order follows the account's repository order after fork filtering.
//
// A failure while fetching the account or its repository list aborts the
// scan. Failures of individual repositories do not: they are collected into
// the report's Failures list and the remaining repositories still resolve.
func (s *Scanner) ScanAccount(ctx context.Context, login string) (*domain.ScanReport, error) {
	account, err := s.collector.GetAccount(ctx, login)
	if err != nil {
		return nil, err
	}

	repos, err := s.collector.GetRepositories(ctx, account)
	if err != nil {
		return nil, err
	}

	sources := make([]*domain.RepositoryRef, 0, len(repos))
	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		sources = append(sources, repo)
	}
	s.logger.Info().
		Str("login", account.Login).
		Int("repos", len(repos)).
		Int("sources", len(sources)).
		Msg("listed repositories")

	report := &domain.ScanReport{Login: account.Login}

	// Tag selection fan-out; results land at their input index so the
	// repository order survives out-of-order completion.
	resolutions := make([]*domain.TagResolution, len(sources))
	tagErrs := make([]error, len(sources))
	s.forEach(len(sources), func(i int) {
		resolutions[i], tagErrs[i] = s.SelectTag(ctx, sources[i])
	})

	var tagged []*domain.TagResolution
	for i, resolution := range resolutions {
		if tagErrs[i] != nil {
			report.Failures = append(report.Failures, domain.RepoFailure{
				Repo:   sources[i].FullName,
				Reason: tagErrs[i].Error(),
			})
			continue
		}
		if !resolution.HasTag() {
			continue
		}
		tagged = append(tagged, resolution)
	}

	// Delta resolution fan-out over the surviving resolutions.
	deltas := make([]*domain.DeltaResult, len(tagged))
	deltaErrs := make([]error, len(tagged))
	s.forEach(len(tagged), func(i int) {
		deltas[i], deltaErrs[i] = s.ResolveDelta(ctx, tagged[i].Repo, tagged[i].Tag)
	})

	for i, delta := range deltas {
		if deltaErrs[i] != nil {
			report.Failures = append(report.Failures, domain.RepoFailure{
				Repo:   tagged[i].Repo.FullName,
				Reason: deltaErrs[i].Error(),
			})
			continue
		}
		if len(delta.Commits) == 0 {
			continue
		}
		report.Results = append(report.Results, Project(delta))
	}

	s.logger.Info().
		Str("login", account.Login).
		Int("results", len(report.Results)).
		Int("failures", len(report.Failures)).
		Msg("scan complete")

	return report, nil
}

// forEach runs fn for each index in [0, n) on bounded concurrent goroutines
func (s *Scanner) forEach(n int, fn func(i int)) {
	semaphore := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fn(i)
		}(i)
	}
	wg.Wait()
}
