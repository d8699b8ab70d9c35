package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// AccountType discriminates between user and organization accounts
type AccountType string

const (
	AccountTypeUser         AccountType = "User"
	AccountTypeOrganization AccountType = "Organization"
)

// Account represents a GitHub account that owns repositories
type Account struct {
	Login        string      `json:"login"`
	Type         AccountType `json:"type"`
	PublicRepos  int         `json:"public_repos"`
	PrivateRepos int         `json:"private_repos"`
}

// TotalRepos returns the combined public and private repository count.
// PrivateRepos is zero when the credential cannot see private repositories.
func (a *Account) TotalRepos() int {
	return a.PublicRepos + a.PrivateRepos
}

// IsOrganization reports whether the account is an organization
func (a *Account) IsOrganization() bool {
	return a.Type == AccountTypeOrganization
}

// RepositoryRef identifies a remote GitHub repository
type RepositoryRef struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Fork     bool   `json:"fork"`
}

var fullNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+/[A-Za-z0-9_-]+$`)

// ParseFullName parses a user-supplied "owner/name" string into a
// RepositoryRef. Only the name fields are populated; fork status is unknown
// until the repository record is fetched.
func ParseFullName(fullName string) (*RepositoryRef, error) {
	if !fullNamePattern.MatchString(fullName) {
		return nil, fmt.Errorf("repository name %q does not match owner/name", fullName)
	}
	owner, name, _ := strings.Cut(fullName, "/")
	return &RepositoryRef{
		Owner:    owner,
		Name:     name,
		FullName: fullName,
	}, nil
}
