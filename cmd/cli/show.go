package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kurihiro0119/github-org-snapshot/internal/aggregator"
	"github.com/kurihiro0119/github-org-snapshot/internal/config"
	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage/file"
	"github.com/kurihiro0119/github-org-snapshot/pkg/client"
)

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	insights := aggregator.BuildInsights(snap)
	if outputJSON {
		return printJSON(insights)
	}

	renderInsights(insights)
	return nil
}

// loadSnapshot reads the document from --file, the API server, the database
// or the output file, in that order of preference
func loadSnapshot(ctx context.Context, cfg *config.Config) (*domain.Snapshot, error) {
	if inputFile != "" {
		return file.ReadDocument(inputFile)
	}

	if useRemote {
		if err := cfg.ValidateTarget(); err != nil {
			return nil, err
		}
		return client.NewClient(cfg.APIEndpoint).GetLatestSnapshot(cfg.Organization, cfg.Repository)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if store == nil {
		return file.ReadDocument(cfg.OutputPath)
	}
	defer store.Close()

	if err := cfg.ValidateTarget(); err != nil {
		return nil, err
	}
	run, err := store.GetLatestSnapshot(ctx, cfg.Organization, cfg.Repository)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return run.Snapshot, nil
}

func renderInsights(insights *aggregator.Insights) {
	fmt.Println("\nMember Activity")
	if len(insights.MemberActivity) == 0 {
		fmt.Println("No member data found.")
	} else {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Member", "Commits", "Lines Written", "Lines Deleted"})
		for _, m := range insights.MemberActivity {
			table.Append([]string{m.Login, strconv.Itoa(m.TotalCommits), strconv.Itoa(m.LinesWritten), strconv.Itoa(m.LinesDeleted)})
		}
		table.Render()

		fmt.Printf("\nTop %d Contributors\n", aggregator.TopContributorsLimit)
		table = tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rank", "Member", "Commits", "Lines Written", "Lines Deleted"})
		for i, m := range insights.TopContributors {
			table.Append([]string{strconv.Itoa(i + 1), m.Login, strconv.Itoa(m.TotalCommits), strconv.Itoa(m.LinesWritten), strconv.Itoa(m.LinesDeleted)})
		}
		table.Render()
	}

	fmt.Println("\nIssues")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	appendSummary(table, "Resolution Time (days)", insights.IssueResolutionDays)
	table.Render()

	if len(insights.TopLabels) > 0 {
		fmt.Println("\nMost Active Issue Labels")
		table = tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Label", "Issues"})
		for _, l := range insights.TopLabels {
			table.Append([]string{l.Label, strconv.Itoa(l.Count)})
		}
		table.Render()
	}

	fmt.Println("\nPull Requests")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	appendSummary(table, "Merge Time (days)", insights.MergeDays)
	table.Append([]string{"Merged", strconv.Itoa(insights.MergedPulls)})
	table.Append([]string{"Closed Without Merge", strconv.Itoa(insights.ClosedUnmerged)})
	if rate, ok := insights.ApprovalRate(); ok {
		table.Append([]string{"Approval Rate", fmt.Sprintf("%.1f%%", rate*100)})
	} else {
		table.Append([]string{"Approval Rate", "-"})
	}
	table.Render()

	fmt.Println("\nBranches")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Active", strconv.Itoa(insights.ActiveBranches)})
	table.Append([]string{"Inactive", strconv.Itoa(insights.InactiveBranches)})
	if insights.BranchMerges.Count > 0 {
		table.Append([]string{"Merges per Branch (mean)", fmt.Sprintf("%.2f", insights.BranchMerges.Mean)})
		table.Append([]string{"Merges per Branch (max)", fmt.Sprintf("%.0f", insights.BranchMerges.Max)})
	}
	table.Render()
}

func appendSummary(table *tablewriter.Table, label string, s aggregator.DaySummary) {
	if s.Count == 0 {
		table.Append([]string{label, "-"})
		return
	}
	table.Append([]string{label + " count", strconv.Itoa(s.Count)})
	table.Append([]string{label + " mean", fmt.Sprintf("%.2f", s.Mean)})
	table.Append([]string{label + " median", fmt.Sprintf("%.1f", s.Median)})
	table.Append([]string{label + " max", fmt.Sprintf("%.0f", s.Max)})
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTarget(); err != nil {
		return err
	}

	var runs []*domain.SnapshotRun
	if useRemote {
		runs, err = client.NewClient(cfg.APIEndpoint).ListSnapshots(cfg.Organization, cfg.Repository, listLimit)
	} else {
		store, storeErr := getStorage(cfg)
		if storeErr != nil {
			return fmt.Errorf("failed to initialize storage: %w", storeErr)
		}
		if store == nil {
			return fmt.Errorf("history needs STORAGE_TYPE sqlite or postgres, or --remote")
		}
		defer store.Close()
		runs, err = store.ListSnapshots(cmd.Context(), cfg.Organization, cfg.Repository, listLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if outputJSON {
		return printJSON(runs)
	}

	fmt.Printf("\nSnapshots: %s/%s\n\n", cfg.Organization, cfg.Repository)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Collected At", "Authenticated", "Complete", "Partial", "Skipped", "Failed"})
	for _, run := range runs {
		counts := map[domain.SectionStatus]int{}
		for _, s := range run.Sections {
			counts[s.Status]++
		}
		table.Append([]string{
			run.ID,
			run.CollectedAt.Format("2006-01-02 15:04:05"),
			strconv.FormatBool(run.Authenticated),
			strconv.Itoa(counts[domain.SectionStatusComplete]),
			strconv.Itoa(counts[domain.SectionStatusPartial]),
			strconv.Itoa(counts[domain.SectionStatusSkipped]),
			strconv.Itoa(counts[domain.SectionStatusFailed]),
		})
	}
	table.Render()
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
