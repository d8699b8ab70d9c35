package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/github-release-delta/internal/collector"
	"github.com/kurihiro0119/github-release-delta/internal/config"
	"github.com/kurihiro0119/github-release-delta/internal/domain"
	"github.com/kurihiro0119/github-release-delta/internal/scanner"
	"github.com/kurihiro0119/github-release-delta/internal/storage"
	"github.com/kurihiro0119/github-release-delta/internal/storage/postgres"
	"github.com/kurihiro0119/github-release-delta/internal/storage/sqlite"
	apiclient "github.com/kurihiro0119/github-release-delta/pkg/client"
)

var (
	outputJSON   bool
	remoteMode   bool
	saveScan     bool
	historyLimit int
)

var rootCmd = &cobra.Command{
	Use:   "release-delta",
	Short: "GitHub release delta tool",
	Long: `A CLI tool for finding commits that landed since the latest official
release tag.

Given a repository or an entire GitHub account, release-delta resolves the
newest tag of the form v<major>.<minor>.<patch> and lists every commit made
after it.`,
}

var repoCmd = &cobra.Command{
	Use:   "repo [owner/name]",
	Short: "Resolve the release delta for one repository",
	Long:  `Resolve the commits made since the latest official release tag of a single repository.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRepo,
}

var scanCmd = &cobra.Command{
	Use:   "scan [login]",
	Short: "Scan all repositories of an account",
	Long: `Scan every non-fork repository of a GitHub user or organization and report
the ones with unreleased commits.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var historyCmd = &cobra.Command{
	Use:   "history [login]",
	Short: "Show stored scans for an account",
	Long:  `Display previously saved scan runs for a GitHub user or organization.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&remoteMode, "remote", false, "query the API server at API_ENDPOINT instead of GitHub directly")
	scanCmd.Flags().BoolVar(&saveScan, "save", false, "persist the scan results")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of scans to show")

	rootCmd.AddCommand(repoCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	default:
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func newScanner(cfg *config.Config) *scanner.Scanner {
	logger := newLogger(cfg)
	coll := collector.NewGitHubCollector(cfg.GitHubToken, logger)
	return scanner.NewScanner(coll, logger, cfg.ScanConcurrency)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runRepo(cmd *cobra.Command, args []string) error {
	fullName := args[0]

	var result *domain.PublishedResult
	if remoteMode {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ref, err := domain.ParseFullName(fullName)
		if err != nil {
			return err
		}
		result, err = apiclient.NewClient(cfg.APIEndpoint).GetRepoDelta(ref.Owner, ref.Name)
		if err != nil {
			return err
		}
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s := newScanner(cfg)
		result, err = s.ResolveRepository(context.Background(), fullName)
		if err != nil {
			return err
		}
	}

	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	fmt.Printf("\nRepository: %s\n", result.Repo)
	fmt.Printf("Latest release tag: %s\n", result.Tag)
	fmt.Printf("Commits since release: %d\n\n", result.NumCommits)

	if result.NumCommits == 0 {
		fmt.Println("Nothing unreleased.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Author", "Message"})
	for _, commit := range result.Commits {
		table.Append([]string{commit.Author, firstLine(commit.Message)})
	}
	table.Render()

	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	login := args[0]

	if remoteMode {
		if saveScan {
			return fmt.Errorf("--save is not supported with --remote; the server owns the storage")
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		results, failures, err := apiclient.NewClient(cfg.APIEndpoint).ScanAccount(login)
		if err != nil {
			return err
		}
		return renderScanReport(&domain.ScanReport{Login: login, Results: results, Failures: failures})
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	startedAt := time.Now()
	s := newScanner(cfg)

	fmt.Printf("Scanning repositories for %s...\n", login)
	report, err := s.ScanAccount(context.Background(), login)
	if err != nil {
		return err
	}

	if saveScan {
		store, err := getStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		scan := &domain.Scan{
			ID:        uuid.New().String(),
			Login:     report.Login,
			StartedAt: startedAt,
			Results:   report.Results,
			Failures:  report.Failures,
		}
		if err := store.SaveScan(context.Background(), scan); err != nil {
			return fmt.Errorf("failed to save scan: %w", err)
		}
		fmt.Printf("Saved scan %s\n", scan.ID)
	}

	return renderScanReport(report)
}

func renderScanReport(report *domain.ScanReport) error {
	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	fmt.Printf("\nRepositories with unreleased commits: %d\n\n", len(report.Results))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Repository", "Tag", "Commits"})
	for _, result := range report.Results {
		table.Append([]string{result.Repo, result.Tag, fmt.Sprintf("%d", result.NumCommits)})
	}
	table.Render()

	if len(report.Failures) > 0 {
		fmt.Printf("\nFailed repositories: %d\n", len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Printf("  %s: %s\n", failure.Repo, failure.Reason)
		}
	}

	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	login := args[0]

	var scans []*domain.Scan
	if remoteMode {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		scans, err = apiclient.NewClient(cfg.APIEndpoint).GetScans(login, historyLimit)
		if err != nil {
			return err
		}
		return renderHistory(login, scans)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	scans, err = store.GetScans(context.Background(), login, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load scans: %w", err)
	}

	return renderHistory(login, scans)
}

func renderHistory(login string, scans []*domain.Scan) error {
	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(scans)
	}

	if len(scans) == 0 {
		fmt.Printf("No stored scans for %s.\n", login)
		return nil
	}

	fmt.Printf("\nStored scans for %s:\n\n", login)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Started", "Results", "Failures"})
	for _, scan := range scans {
		table.Append([]string{
			scan.ID,
			scan.StartedAt.Format(time.RFC3339),
			fmt.Sprintf("%d", len(scan.Results)),
			fmt.Sprintf("%d", len(scan.Failures)),
		})
	}
	table.Render()

	return nil
}

func firstLine(message string) string {
	for i := 0; i < len(message); i++ {
		if message[i] == '\n' {
			return message[:i]
		}
	}
	return message
}
