package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
)

// fakeCollector is an in-memory Collector for tests. Fixture maps are keyed
// by repository full name; errs short-circuit the matching method.
type fakeCollector struct {
	mu    sync.Mutex
	calls []string

	account    *domain.Account
	accountErr error

	repos    []*domain.RepositoryRef
	reposErr error

	repoRecords map[string]*domain.RepositoryRef

	tags    map[string][]*domain.Tag
	tagsErr map[string]error

	commits map[string]*domain.Commit // keyed by fullName@sha

	since    map[string][]*domain.Commit
	sinceErr map[string]error
}

func newFakeCollector() *fakeCollector {
	return &fakeCollector{
		repoRecords: map[string]*domain.RepositoryRef{},
		tags:        map[string][]*domain.Tag{},
		tagsErr:     map[string]error{},
		commits:     map[string]*domain.Commit{},
		since:       map[string][]*domain.Commit{},
		sinceErr:    map[string]error{},
	}
}

func (f *fakeCollector) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCollector) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCollector) GetAccount(ctx context.Context, login string) (*domain.Account, error) {
	f.record("account:" + login)
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.account, nil
}

func (f *fakeCollector) GetRepository(ctx context.Context, owner, name string) (*domain.RepositoryRef, error) {
	fullName := owner + "/" + name
	f.record("repo:" + fullName)
	repo, ok := f.repoRecords[fullName]
	if !ok {
		return nil, fmt.Errorf("no fixture for repository %s", fullName)
	}
	return repo, nil
}

func (f *fakeCollector) GetRepositories(ctx context.Context, account *domain.Account) ([]*domain.RepositoryRef, error) {
	f.record("repos:" + account.Login)
	if f.reposErr != nil {
		return nil, f.reposErr
	}
	return f.repos, nil
}

func (f *fakeCollector) GetTags(ctx context.Context, repo *domain.RepositoryRef) ([]*domain.Tag, error) {
	f.record("tags:" + repo.FullName)
	if err := f.tagsErr[repo.FullName]; err != nil {
		return nil, err
	}
	return f.tags[repo.FullName], nil
}

func (f *fakeCollector) GetCommit(ctx context.Context, repo *domain.RepositoryRef, sha string) (*domain.Commit, error) {
	f.record("commit:" + repo.FullName + "@" + sha)
	commit, ok := f.commits[repo.FullName+"@"+sha]
	if !ok {
		return nil, fmt.Errorf("no fixture for commit %s@%s", repo.FullName, sha)
	}
	return commit, nil
}

func (f *fakeCollector) GetCommitsSince(ctx context.Context, repo *domain.RepositoryRef, since time.Time) ([]*domain.Commit, error) {
	f.record("since:" + repo.FullName)
	if err := f.sinceErr[repo.FullName]; err != nil {
		return nil, err
	}
	return f.since[repo.FullName], nil
}
