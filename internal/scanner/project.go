package scanner

import "github.com/kurihiro0119/github-release-delta/internal/domain"

// Project maps a DeltaResult to its published shape. The repository
// collapses to its full name, the tag to its name, and each commit to its
// author and message; SHAs and timestamps are dropped from the published
// contract.
func Project(delta *domain.DeltaResult) *domain.PublishedResult {
	commits := make([]domain.PublishedCommit, len(delta.Commits))
	for i, commit := range delta.Commits {
		commits[i] = domain.PublishedCommit{
			Author:  commit.Author,
			Message: commit.Message,
		}
	}
	return &domain.PublishedResult{
		Repo:       delta.Repo.FullName,
		Tag:        delta.Tag.Name,
		NumCommits: len(commits),
		Commits:    commits,
	}
}
