package scanner

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
)

var tagTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func deltaFixture(raw []*domain.Commit) (*fakeCollector, *domain.RepositoryRef, *domain.Tag) {
	repo := &domain.RepositoryRef{Owner: "acme", Name: "widget", FullName: "acme/widget"}
	tag := &domain.Tag{Name: "v2.0.0", SHA: "tagsha"}

	coll := newFakeCollector()
	coll.commits[repo.FullName+"@tagsha"] = &domain.Commit{
		SHA: "tagsha", Author: "alice", Date: tagTime, Message: "release v2.0.0",
	}
	coll.since[repo.FullName] = raw
	return coll, repo, tag
}

func TestResolveDelta_ExcludesTaggedCommit(t *testing.T) {
	// Newest first, tagged commit last: the inclusive since filter always
	// returns it.
	raw := []*domain.Commit{
		{SHA: "c3", Author: "bob", Date: tagTime.Add(3 * time.Hour), Message: "three"},
		{SHA: "c2", Author: "bob", Date: tagTime.Add(2 * time.Hour), Message: "two"},
		{SHA: "c1", Author: "alice", Date: tagTime.Add(time.Hour), Message: "one"},
		{SHA: "tagsha", Author: "alice", Date: tagTime, Message: "release v2.0.0"},
	}
	coll, repo, tag := deltaFixture(raw)

	delta, err := testScanner(coll).ResolveDelta(context.Background(), repo, tag)
	if err != nil {
		t.Fatalf("ResolveDelta failed: %v", err)
	}
	if len(delta.Commits) != 3 {
		t.Fatalf("expected 3 commits, got %d", len(delta.Commits))
	}
	for _, commit := range delta.Commits {
		if commit.SHA == tag.SHA {
			t.Errorf("delta contains the tagged commit %s", commit.SHA)
		}
	}
	// Host order (newest first) must survive.
	got := []string{delta.Commits[0].SHA, delta.Commits[1].SHA, delta.Commits[2].SHA}
	want := []string{"c3", "c2", "c1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("commit order = %v, want %v", got, want)
	}
}

func TestResolveDelta_ExcludesBySHANotPosition(t *testing.T) {
	// The tagged commit is not the last element here; exclusion must still
	// find it.
	raw := []*domain.Commit{
		{SHA: "c2", Date: tagTime.Add(2 * time.Hour), Message: "two"},
		{SHA: "tagsha", Date: tagTime, Message: "release v2.0.0"},
		{SHA: "c1", Date: tagTime.Add(time.Hour), Message: "one"},
	}
	coll, repo, tag := deltaFixture(raw)

	delta, err := testScanner(coll).ResolveDelta(context.Background(), repo, tag)
	if err != nil {
		t.Fatalf("ResolveDelta failed: %v", err)
	}
	if len(delta.Commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(delta.Commits))
	}
	for _, commit := range delta.Commits {
		if commit.SHA == tag.SHA {
			t.Error("delta contains the tagged commit")
		}
	}
}

func TestResolveDelta_NoCommitsSinceTag(t *testing.T) {
	tests := []struct {
		name string
		raw  []*domain.Commit
	}{
		{"only tagged commit", []*domain.Commit{{SHA: "tagsha", Date: tagTime}}},
		{"empty listing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, repo, tag := deltaFixture(tt.raw)

			delta, err := testScanner(coll).ResolveDelta(context.Background(), repo, tag)
			if err != nil {
				t.Fatalf("ResolveDelta failed: %v", err)
			}
			if len(delta.Commits) != 0 {
				t.Errorf("expected empty delta, got %d commits", len(delta.Commits))
			}
		})
	}
}

func TestResolveDelta_Idempotent(t *testing.T) {
	raw := []*domain.Commit{
		{SHA: "c2", Date: tagTime.Add(2 * time.Hour), Message: "two"},
		{SHA: "c1", Date: tagTime.Add(time.Hour), Message: "one"},
		{SHA: "tagsha", Date: tagTime, Message: "release v2.0.0"},
	}
	coll, repo, tag := deltaFixture(raw)
	s := testScanner(coll)

	first, err := s.ResolveDelta(context.Background(), repo, tag)
	if err != nil {
		t.Fatalf("first ResolveDelta failed: %v", err)
	}
	second, err := s.ResolveDelta(context.Background(), repo, tag)
	if err != nil {
		t.Fatalf("second ResolveDelta failed: %v", err)
	}
	if !reflect.DeepEqual(first.Commits, second.Commits) {
		t.Error("repeated resolution produced different commit sequences")
	}
}

func TestResolveDelta_FetchErrorsPropagate(t *testing.T) {
	repo := &domain.RepositoryRef{Owner: "acme", Name: "widget", FullName: "acme/widget"}
	tag := &domain.Tag{Name: "v2.0.0", SHA: "tagsha"}

	t.Run("commit fetch fails", func(t *testing.T) {
		coll := newFakeCollector() // no commit fixture
		if _, err := testScanner(coll).ResolveDelta(context.Background(), repo, tag); err == nil {
			t.Error("expected error when the tag commit fetch fails")
		}
	})

	t.Run("commit list fails", func(t *testing.T) {
		coll, repo, tag := deltaFixture(nil)
		listErr := errors.New("boom")
		coll.sinceErr[repo.FullName] = listErr

		_, err := testScanner(coll).ResolveDelta(context.Background(), repo, tag)
		if !errors.Is(err, listErr) {
			t.Errorf("expected propagated list error, got %v", err)
		}
	})
}
