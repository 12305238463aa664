package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/github-org-snapshot/internal/collector"
	"github.com/kurihiro0119/github-org-snapshot/internal/config"
	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	"github.com/kurihiro0119/github-org-snapshot/internal/logging"
	"github.com/kurihiro0119/github-org-snapshot/internal/snapshot"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage/file"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage/postgres"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage/sqlite"
)

var (
	outputPath string
	outputJSON bool
	inputFile  string
	useRemote  bool
	listLimit  int
)

var rootCmd = &cobra.Command{
	Use:   "github-snapshot",
	Short: "GitHub organization/repository snapshot tool",
	Long: `A CLI tool for collecting a snapshot of a GitHub organization and one of its repositories.

The snapshot holds the organization profile, members and repositories, and the
repository's branches, commits, issues, pull requests, workflows, discussions,
projects and contributor statistics.`,
	SilenceUsage: true,
}

var collectCmd = &cobra.Command{
	Use:   "collect [org] [repo]",
	Short: "Collect a snapshot from GitHub",
	Long: `Collect a snapshot and write it to the output file.

Organization and repository default to ORGANIZATION and REPOSITORY. Without
GITHUB_TOKEN the credential-gated sections are left empty.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCollect,
}

var showCmd = &cobra.Command{
	Use:   "show [org] [repo]",
	Short: "Show snapshot insights",
	Long:  `Display member, issue, pull request and branch insights for a snapshot.`,
	Args:  cobra.MaximumNArgs(2),
	RunE:  runShow,
}

var historyCmd = &cobra.Command{
	Use:   "history [org] [repo]",
	Short: "Show collected runs",
	Long:  `Display stored snapshot runs and how each section was collected.`,
	Args:  cobra.MaximumNArgs(2),
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	collectCmd.Flags().StringVarP(&outputPath, "output", "o", "", "snapshot file (default is OUTPUT_PATH)")

	showCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the snapshot from a file")
	showCmd.Flags().BoolVar(&useRemote, "remote", false, "read the snapshot from the API server at API_ENDPOINT")

	historyCmd.Flags().BoolVar(&useRemote, "remote", false, "read runs from the API server at API_ENDPOINT")
	historyCmd.Flags().IntVar(&listLimit, "limit", storage.DefaultListLimit, "maximum number of runs")

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration, applies positional org/repo overrides and
// configures logging
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Organization = args[0]
	}
	if len(args) > 1 {
		cfg.Repository = args[1]
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Configure(cfg.LogFormat, cfg.LogLevel, cfg.LogOutput); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	return cfg, nil
}

// getStorage returns nil when no database is configured
func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	case "sqlite":
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	default:
		return nil, nil
	}
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if outputPath != "" {
		cfg.OutputPath = outputPath
	}
	if err := cfg.ValidateTarget(); err != nil {
		return err
	}

	logger := logging.Default()
	logger.Debug("Loaded configuration", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.With(ctx, logger)

	coll, err := collector.NewGitHubCollector(collector.Options{
		BaseURL: cfg.GitHubAPIURL,
		Token:   cfg.GitHubToken,
		Timeout: cfg.HTTPTimeout,
		RetryPolicy: collector.RetryPolicy{
			Delay:      cfg.StatsRetryDelay,
			MaxRetries: cfg.StatsMaxRetries,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}

	if !cfg.HasCredential() {
		fmt.Println("GITHUB_TOKEN is not set; members, pull requests, workflows, discussions, projects and contributor stats will be empty")
	}
	fmt.Printf("Collecting snapshot for %s/%s\n", cfg.Organization, cfg.Repository)

	assembler := snapshot.NewAssembler(coll, cfg.Organization, cfg.Repository, cfg.HasCredential())
	run, err := assembler.Assemble(ctx, func(section string, progress float64) {
		fmt.Printf("\rProgress: %5.1f%% (%s)          ", progress*100, section)
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to collect snapshot: %w", err)
	}

	if err := file.WriteDocument(cfg.OutputPath, run.Snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if store != nil {
		defer store.Close()
		if err := store.SaveSnapshot(ctx, run); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	if outputJSON {
		return printJSON(run)
	}

	renderSections(run)
	fmt.Printf("Snapshot %s written to %s\n", run.ID, cfg.OutputPath)
	return nil
}

func renderSections(run *domain.SnapshotRun) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Section", "Status", "Items", "Error"})
	for _, s := range run.Sections {
		table.Append([]string{s.Name, string(s.Status), strconv.Itoa(s.Items), s.Error})
	}
	table.Render()
}
