package domain

import "time"

// Commit represents a single commit as returned by the GitHub API.
// Order among commits from a listing is preserved (newest first).
type Commit struct {
	SHA     string    `json:"sha"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}
