package domain

import "time"

// DeltaResult holds the commits on a repository strictly newer than the
// commit its release tag points at. The tagged commit itself is never part
// of Commits.
type DeltaResult struct {
	Repo    *RepositoryRef
	Tag     *Tag
	Commits []*Commit
}

// PublishedCommit is the external projection of a commit
type PublishedCommit struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

// PublishedResult is the external projection of a DeltaResult. Timestamps
// and SHAs are deliberately dropped from the published contract.
type PublishedResult struct {
	Repo       string            `json:"repo"`
	Tag        string            `json:"tag"`
	NumCommits int               `json:"numCommits"`
	Commits    []PublishedCommit `json:"commits"`
}

// RepoFailure records a repository that could not be resolved during an
// account scan
type RepoFailure struct {
	Repo   string `json:"repo"`
	Reason string `json:"reason"`
}

// ScanReport is the outcome of scanning one account: the published deltas
// in filtered repository order, plus the repositories that failed along
// the way. A failing repository never aborts the rest of the scan.
type ScanReport struct {
	Login    string             `json:"login"`
	Results  []*PublishedResult `json:"results"`
	Failures []RepoFailure      `json:"failures,omitempty"`
}

// Scan is a persisted scan run
type Scan struct {
	ID        string             `json:"id"`
	Login     string             `json:"login"`
	StartedAt time.Time          `json:"started_at"`
	Results   []*PublishedResult `json:"results"`
	Failures  []RepoFailure      `json:"failures,omitempty"`
}
