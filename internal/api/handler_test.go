package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
	"github.com/kurihiro0119/github-release-delta/internal/scanner"
)

// stubCollector serves a fixed repository/tag/commit fixture
type stubCollector struct {
	repo    *domain.RepositoryRef
	tags    []*domain.Tag
	commit  *domain.Commit
	commits []*domain.Commit
}

func (s *stubCollector) GetAccount(ctx context.Context, login string) (*domain.Account, error) {
	return &domain.Account{Login: login, Type: domain.AccountTypeUser, PublicRepos: 1}, nil
}

func (s *stubCollector) GetRepository(ctx context.Context, owner, name string) (*domain.RepositoryRef, error) {
	return s.repo, nil
}

func (s *stubCollector) GetRepositories(ctx context.Context, account *domain.Account) ([]*domain.RepositoryRef, error) {
	return []*domain.RepositoryRef{s.repo}, nil
}

func (s *stubCollector) GetTags(ctx context.Context, repo *domain.RepositoryRef) ([]*domain.Tag, error) {
	return s.tags, nil
}

func (s *stubCollector) GetCommit(ctx context.Context, repo *domain.RepositoryRef, sha string) (*domain.Commit, error) {
	return s.commit, nil
}

func (s *stubCollector) GetCommitsSince(ctx context.Context, repo *domain.RepositoryRef, since time.Time) ([]*domain.Commit, error) {
	return s.commits, nil
}

// stubStorage is an in-memory Storage for handler tests
type stubStorage struct {
	scans []*domain.Scan
}

func (s *stubStorage) SaveScan(ctx context.Context, scan *domain.Scan) error {
	s.scans = append(s.scans, scan)
	return nil
}

func (s *stubStorage) GetScans(ctx context.Context, login string, limit int) ([]*domain.Scan, error) {
	return s.scans, nil
}

func (s *stubStorage) GetLatestScan(ctx context.Context, login string) (*domain.Scan, error) {
	if len(s.scans) == 0 {
		return nil, nil
	}
	return s.scans[0], nil
}

func (s *stubStorage) Migrate(ctx context.Context) error { return nil }
func (s *stubStorage) Close() error                      { return nil }

func testRouter(coll *stubCollector) *gin.Engine {
	return testRouterWithStore(coll, &stubStorage{})
}

func testRouterWithStore(coll *stubCollector, store *stubStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := scanner.NewScanner(coll, zerolog.Nop(), 2)
	return SetupRoutes(NewHandler(s, store))
}

func defaultStub() *stubCollector {
	released := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return &stubCollector{
		repo: &domain.RepositoryRef{Owner: "acme", Name: "widget", FullName: "acme/widget"},
		tags: []*domain.Tag{{Name: "v2.0.0", SHA: "tagsha"}},
		commit: &domain.Commit{
			SHA: "tagsha", Date: released,
		},
		commits: []*domain.Commit{
			{SHA: "c1", Author: "alice", Date: released.Add(time.Hour), Message: "fix"},
			{SHA: "tagsha", Date: released},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(defaultStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestGetRepoDelta(t *testing.T) {
	router := testRouter(defaultStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/acme/widget/delta", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var response struct {
		Data *domain.PublishedResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.Repo != "acme/widget" || response.Data.Tag != "v2.0.0" || response.Data.NumCommits != 1 {
		t.Errorf("unexpected payload: %+v", response.Data)
	}
}

func TestGetRepoDelta_InvalidName(t *testing.T) {
	router := testRouter(defaultStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/acme/wid.get/delta", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetRepoDelta_Fork(t *testing.T) {
	stub := defaultStub()
	stub.repo.Fork = true
	router := testRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/repos/acme/widget/delta", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestGetLatestScan(t *testing.T) {
	store := &stubStorage{
		scans: []*domain.Scan{
			{
				ID:        "scan-1",
				Login:     "acme",
				StartedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
				Results: []*domain.PublishedResult{
					{Repo: "acme/widget", Tag: "v2.0.0", NumCommits: 1},
				},
			},
		},
	}
	router := testRouterWithStore(defaultStub(), store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acme/scans/latest", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var response struct {
		Data *domain.Scan `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Data.ID != "scan-1" || len(response.Data.Results) != 1 {
		t.Errorf("unexpected payload: %+v", response.Data)
	}
}

func TestGetLatestScan_NoneStored(t *testing.T) {
	router := testRouter(defaultStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acme/scans/latest", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetScans_BadLimit(t *testing.T) {
	router := testRouter(defaultStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acme/scans?limit=weird", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
