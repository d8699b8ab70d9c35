package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kurihiro0119/github-release-delta/internal/domain"
	"github.com/kurihiro0119/github-release-delta/internal/storage"
)

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connStr string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &postgresStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		login TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		failures JSONB NOT NULL DEFAULT '[]'
	);

	CREATE INDEX IF NOT EXISTS idx_scans_login_started_at ON scans(login, started_at);

	CREATE TABLE IF NOT EXISTS scan_results (
		scan_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		repo TEXT NOT NULL,
		tag TEXT NOT NULL,
		num_commits INTEGER NOT NULL,
		commits JSONB NOT NULL,
		PRIMARY KEY (scan_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_scan_results_repo ON scan_results(repo);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveScan persists a scan run and its per-repository results
func (s *postgresStorage) SaveScan(ctx context.Context, scan *domain.Scan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	failures, err := json.Marshal(scan.Failures)
	if err != nil {
		return fmt.Errorf("failed to encode failures: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scans (id, login, started_at, failures)
		VALUES ($1, $2, $3, $4)
	`, scan.ID, scan.Login, scan.StartedAt, string(failures))
	if err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}

	for i, result := range scan.Results {
		commits, err := json.Marshal(result.Commits)
		if err != nil {
			return fmt.Errorf("failed to encode commits for %s: %w", result.Repo, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO scan_results (scan_id, position, repo, tag, num_commits, commits)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, scan.ID, i, result.Repo, result.Tag, result.NumCommits, string(commits))
		if err != nil {
			return fmt.Errorf("failed to save result for %s: %w", result.Repo, err)
		}
	}

	return tx.Commit()
}

// GetScans retrieves the most recent scans for an account, newest first
func (s *postgresStorage) GetScans(ctx context.Context, login string, limit int) ([]*domain.Scan, error) {
	query := `
		SELECT id, login, started_at, failures FROM scans
		WHERE login = $1
		ORDER BY started_at DESC
	`
	args := []interface{}{login}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []*domain.Scan
	for rows.Next() {
		scan := &domain.Scan{}
		var failures []byte
		if err := rows.Scan(&scan.ID, &scan.Login, &scan.StartedAt, &failures); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(failures, &scan.Failures); err != nil {
			return nil, fmt.Errorf("failed to decode failures for scan %s: %w", scan.ID, err)
		}
		scans = append(scans, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, scan := range scans {
		results, err := s.loadResults(ctx, scan.ID)
		if err != nil {
			return nil, err
		}
		scan.Results = results
	}

	return scans, nil
}

// GetLatestScan retrieves the most recent scan for an account
func (s *postgresStorage) GetLatestScan(ctx context.Context, login string) (*domain.Scan, error) {
	scans, err := s.GetScans(ctx, login, 1)
	if err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, nil
	}
	return scans[0], nil
}

func (s *postgresStorage) loadResults(ctx context.Context, scanID string) ([]*domain.PublishedResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT repo, tag, num_commits, commits FROM scan_results
		WHERE scan_id = $1
		ORDER BY position
	`, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.PublishedResult
	for rows.Next() {
		result := &domain.PublishedResult{}
		var commits []byte
		if err := rows.Scan(&result.Repo, &result.Tag, &result.NumCommits, &commits); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(commits, &result.Commits); err != nil {
			return nil, fmt.Errorf("failed to decode commits for %s: %w", result.Repo, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}
