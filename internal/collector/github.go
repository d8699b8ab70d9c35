package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/go-github/v55/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
	apperrors "github.com/kurihiro0119/github-release-delta/internal/errors"
)

// listPageSize is the fixed page size used for all repository listings
const listPageSize = 100

// githubCollector implements Collector using the GitHub API
type githubCollector struct {
	client      *github.Client
	rateLimiter RateLimiter
	logger      zerolog.Logger
}

// NewGitHubCollector creates a new GitHub collector authenticated with the
// given token
func NewGitHubCollector(token string, logger zerolog.Logger) Collector {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	return &githubCollector{
		client:      client,
		rateLimiter: NewRateLimiter(logger),
		logger:      logger,
	}
}

// GetAccount retrieves the account record for a user or organization
func (c *githubCollector) GetAccount(ctx context.Context, login string) (*domain.Account, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	user, resp, err := c.client.Users.Get(ctx, login)
	if err != nil {
		return nil, c.apiError(fmt.Sprintf("get account %s", login), err)
	}
	c.updateRateLimitFromResponse(resp)

	return &domain.Account{
		Login:        user.GetLogin(),
		Type:         domain.AccountType(user.GetType()),
		PublicRepos:  user.GetPublicRepos(),
		PrivateRepos: int(user.GetTotalPrivateRepos()),
	}, nil
}

// GetRepository retrieves a single repository record
func (c *githubCollector) GetRepository(ctx context.Context, owner, name string) (*domain.RepositoryRef, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	repo, resp, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, c.apiError(fmt.Sprintf("get repository %s/%s", owner, name), err)
	}
	c.updateRateLimitFromResponse(resp)

	return toRepositoryRef(repo), nil
}

// GetRepositories retrieves the full repository list of an account. The
// page count is fixed up front from the account's repository counts and all
// pages are requested concurrently; results are concatenated in page order
// regardless of completion order. Any failing page fails the whole listing.
func (c *githubCollector) GetRepositories(ctx context.Context, account *domain.Account) ([]*domain.RepositoryRef, error) {
	total := account.TotalRepos()
	if total == 0 {
		return nil, apperrors.NewNoRepositoriesError(account.Login)
	}

	// Over-fetch by up to one trailing, possibly empty page rather than
	// under-fetch at exact multiples of the page size.
	pages := pageCount(total)

	results := make([][]*domain.RepositoryRef, pages)
	errs := make([]error, pages)
	var wg sync.WaitGroup

	for i := 0; i < pages; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			results[page-1], errs[page-1] = c.listRepositoryPage(ctx, account, page)
		}(i + 1)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var all []*domain.RepositoryRef
	for _, page := range results {
		all = append(all, page...)
	}
	return all, nil
}

// pageCount returns the number of listing pages for a repository total
func pageCount(total int) int {
	return total/listPageSize + 1
}

func (c *githubCollector) listRepositoryPage(ctx context.Context, account *domain.Account, page int) ([]*domain.RepositoryRef, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var (
		repos []*github.Repository
		resp  *github.Response
		err   error
	)
	if account.IsOrganization() {
		opts := &github.RepositoryListByOrgOptions{
			ListOptions: github.ListOptions{PerPage: listPageSize, Page: page},
		}
		repos, resp, err = c.client.Repositories.ListByOrg(ctx, account.Login, opts)
	} else {
		opts := &github.RepositoryListOptions{
			ListOptions: github.ListOptions{PerPage: listPageSize, Page: page},
		}
		repos, resp, err = c.client.Repositories.List(ctx, account.Login, opts)
	}
	if err != nil {
		return nil, c.apiError(fmt.Sprintf("list repositories for %s page %d", account.Login, page), err)
	}
	c.updateRateLimitFromResponse(resp)

	refs := make([]*domain.RepositoryRef, 0, len(repos))
	for _, repo := range repos {
		refs = append(refs, toRepositoryRef(repo))
	}
	return refs, nil
}

// GetTags retrieves the first page of tags for a repository. Tag pagination
// is out of scope; one page of 100 is assumed sufficient.
func (c *githubCollector) GetTags(ctx context.Context, repo *domain.RepositoryRef) ([]*domain.Tag, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &github.ListOptions{PerPage: listPageSize}
	tags, resp, err := c.client.Repositories.ListTags(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, c.apiError(fmt.Sprintf("list tags for %s", repo.FullName), err)
	}
	c.updateRateLimitFromResponse(resp)

	out := make([]*domain.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, &domain.Tag{
			Name: t.GetName(),
			SHA:  t.GetCommit().GetSHA(),
		})
	}
	return out, nil
}

// GetCommit retrieves a single commit by SHA
func (c *githubCollector) GetCommit(ctx context.Context, repo *domain.RepositoryRef, sha string) (*domain.Commit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	commit, resp, err := c.client.Repositories.GetCommit(ctx, repo.Owner, repo.Name, sha, nil)
	if err != nil {
		return nil, c.apiError(fmt.Sprintf("get commit %s for %s", sha, repo.FullName), err)
	}
	c.updateRateLimitFromResponse(resp)

	return toCommit(commit), nil
}

// GetCommitsSince retrieves commits at or after the given time, newest
// first. Commit pagination is out of scope; one page of 100 is assumed
// sufficient.
func (c *githubCollector) GetCommitsSince(ctx context.Context, repo *domain.RepositoryRef, since time.Time) ([]*domain.Commit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &github.CommitsListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}
	commits, resp, err := c.client.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, c.apiError(fmt.Sprintf("list commits since %s for %s", since.Format(time.RFC3339), repo.FullName), err)
	}
	c.updateRateLimitFromResponse(resp)

	out := make([]*domain.Commit, 0, len(commits))
	for _, commit := range commits {
		out = append(out, toCommit(commit))
	}
	return out, nil
}

func toRepositoryRef(repo *github.Repository) *domain.RepositoryRef {
	return &domain.RepositoryRef{
		Owner:    repo.GetOwner().GetLogin(),
		Name:     repo.GetName(),
		FullName: repo.GetFullName(),
		Fork:     repo.GetFork(),
	}
}

func toCommit(commit *github.RepositoryCommit) *domain.Commit {
	author := ""
	if commit.Author != nil {
		author = commit.Author.GetLogin()
	} else if commit.Commit != nil && commit.Commit.Author != nil {
		author = commit.Commit.Author.GetName()
	}
	return &domain.Commit{
		SHA:     commit.GetSHA(),
		Author:  author,
		Date:    commit.GetCommit().GetAuthor().GetDate().Time,
		Message: commit.GetCommit().GetMessage(),
	}
}

// apiError converts a go-github error into an AppError carrying the host's
// message. The failing request path is logged for diagnostics only and
// never surfaced in the returned error.
func (c *githubCollector) apiError(op string, err error) error {
	var gerr *github.ErrorResponse
	if errors.As(err, &gerr) {
		path := ""
		status := 0
		if gerr.Response != nil {
			status = gerr.Response.StatusCode
			if gerr.Response.Request != nil && gerr.Response.Request.URL != nil {
				u := gerr.Response.Request.URL
				path = u.Host + u.Path
			}
		}
		c.logger.Debug().
			Str("path", path).
			Str("message", gerr.Message).
			Msg("github api request failed")
		// The request URL stays in the log; the surfaced error carries
		// only the host's message.
		return apperrors.NewAPIError(gerr.Message, fmt.Errorf("%s: status %d", op, status))
	}
	return apperrors.NewAPIError(err.Error(), fmt.Errorf("%s: %w", op, err))
}

// updateRateLimitFromResponse updates the rate limiter from API response
func (c *githubCollector) updateRateLimitFromResponse(resp *github.Response) {
	if resp != nil && resp.Rate.Remaining >= 0 {
		c.rateLimiter.UpdateLimit(resp.Rate.Remaining, resp.Rate.Reset.Time)
	}
}
