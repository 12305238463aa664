// Package snapshot assembles every section of an organization/repository
// snapshot from the collector's raw records.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kurihiro0119/github-org-snapshot/internal/aggregator"
	"github.com/kurihiro0119/github-org-snapshot/internal/collector"
	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
	"github.com/kurihiro0119/github-org-snapshot/internal/logging"
	"github.com/kurihiro0119/github-org-snapshot/internal/normalizer"
)

// ProgressCallback is called after each section with the fraction of sections done
type ProgressCallback func(section string, progress float64)

// Assembler builds one snapshot run for an organization/repository pair
type Assembler struct {
	collector     collector.Collector
	org           string
	repo          string
	authenticated bool

	now   func() time.Time
	newID func() string
}

// NewAssembler creates a new assembler. authenticated decides, once for the
// whole run, whether credential-gated sections are collected.
func NewAssembler(c collector.Collector, org, repo string, authenticated bool) *Assembler {
	return &Assembler{
		collector:     c,
		org:           org,
		repo:          repo,
		authenticated: authenticated,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

type section struct {
	name  string
	gated bool
	// collect fills its section of snap and returns the number of items kept
	collect func(ctx context.Context, snap *domain.Snapshot) (int, error)
}

func (a *Assembler) sections(now time.Time) []section {
	return []section{
		{name: domain.SectionOrganizationProfile, collect: a.collectProfile},
		{name: domain.SectionOrganizationMembers, gated: true, collect: a.collectMembers},
		{name: domain.SectionOrganizationRepos, collect: a.collectRepositories},
		{name: domain.SectionBranches, collect: func(ctx context.Context, snap *domain.Snapshot) (int, error) {
			return a.collectBranches(ctx, snap, now)
		}},
		{name: domain.SectionCommits, collect: a.collectCommits},
		{name: domain.SectionIssues, collect: a.collectIssues},
		{name: domain.SectionPullRequests, gated: true, collect: a.collectPullRequests},
		{name: domain.SectionWorkflows, gated: true, collect: a.collectWorkflows},
		{name: domain.SectionDiscussions, gated: true, collect: a.collectDiscussions},
		{name: domain.SectionProjects, gated: true, collect: a.collectProjects},
		{name: domain.SectionRepositoryMembers, gated: true, collect: a.collectRepositoryMembers},
	}
}

// Assemble collects every section in document order.
//
// A failing section degrades to its partial or empty value and is recorded in
// the run's section reports. Cancellation aborts the run and returns the
// context error with no run.
func (a *Assembler) Assemble(ctx context.Context, onProgress ProgressCallback) (*domain.SnapshotRun, error) {
	if a.org == "" {
		return nil, apperrors.NewMissingRequiredContextError("organization")
	}
	if a.repo == "" {
		return nil, apperrors.NewMissingRequiredContextError("repository")
	}

	now := a.now().UTC()
	run := &domain.SnapshotRun{
		ID:            a.newID(),
		Org:           a.org,
		Repo:          a.repo,
		Authenticated: a.authenticated,
		CollectedAt:   now,
		Snapshot:      domain.NewSnapshot(),
	}

	logger := logging.From(ctx).With("org", a.org, "repo", a.repo, "run_id", run.ID)
	ctx = logging.With(ctx, logger)
	logger.Info("Collecting snapshot", "authenticated", a.authenticated)

	sections := a.sections(now)
	for i, s := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report := domain.SectionReport{Name: s.name, Status: domain.SectionStatusComplete}
		if s.gated && !a.authenticated {
			report.Status = domain.SectionStatusSkipped
			logger.Debug("Skipping section without credential", "section", s.name)
		} else {
			items, err := s.collect(ctx, run.Snapshot)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}

			report.Items = items
			if err != nil {
				report.Error = err.Error()
				report.Status = domain.SectionStatusFailed
				if items > 0 {
					report.Status = domain.SectionStatusPartial
				}
				logger.Warn("Section degraded", "section", s.name, "status", report.Status, "items", items, "error", err)
			} else {
				logger.Debug("Section collected", "section", s.name, "items", items)
			}
		}
		run.Sections = append(run.Sections, report)

		if onProgress != nil {
			onProgress(s.name, float64(i+1)/float64(len(sections)))
		}
	}

	aggregator.ApplyMergeCounts(run.Snapshot.Branches, run.Snapshot.PullRequests)
	run.Snapshot.Normalize()

	logger.Info("Snapshot assembled", "sections", len(run.Sections))
	return run, nil
}

func (a *Assembler) collectProfile(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raw, err := a.collector.GetOrganization(ctx, a.org)
	if err != nil {
		return 0, err
	}
	profile, err := normalizer.Organization(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to decode organization %s: %w", a.org, err)
	}
	snap.OrganizationProfile = profile
	return 1, nil
}

func (a *Assembler) collectMembers(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetMembers(ctx, a.org)
	members, err := normalizer.Members(raws)
	snap.OrganizationMembers = members
	return len(members), errors.Join(fetchErr, err)
}

func (a *Assembler) collectRepositories(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetRepositories(ctx, a.org)
	repos, err := normalizer.Repositories(raws)
	snap.OrganizationRepos = repos
	return len(repos), errors.Join(fetchErr, err)
}

// collectBranches lists branches then looks up each one's tip commit.
// A branch whose lookup fails is left out.
func (a *Assembler) collectBranches(ctx context.Context, snap *domain.Snapshot, now time.Time) (int, error) {
	logger := logging.From(ctx)

	raws, fetchErr := a.collector.GetBranches(ctx, a.org, a.repo)
	names, err := normalizer.BranchNames(raws)
	errs := []error{fetchErr, err}

	branches := make([]domain.Branch, 0, len(names))
	failed := 0
	for _, name := range names {
		detail, err := a.collector.GetBranch(ctx, a.org, a.repo, name)
		if err == nil {
			var branch domain.Branch
			branch, err = normalizer.Branch(detail, now)
			if err == nil {
				branches = append(branches, branch)
				continue
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return len(branches), ctxErr
		}
		logger.Warn("Failed to get branch detail", "branch", name, "error", err)
		failed++
		if failed == 1 {
			errs = append(errs, fmt.Errorf("branch %s: %w", name, err))
		}
	}
	if failed > 1 {
		errs = append(errs, fmt.Errorf("%d branch detail lookups failed", failed))
	}

	snap.Branches = branches
	return len(branches), errors.Join(errs...)
}

func (a *Assembler) collectCommits(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetCommits(ctx, a.org, a.repo)
	commits, err := normalizer.Commits(raws)
	snap.Commits = commits
	return len(commits), errors.Join(fetchErr, err)
}

func (a *Assembler) collectIssues(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetIssues(ctx, a.org, a.repo)
	issues, err := normalizer.Issues(raws)
	snap.Issues = issues
	return len(issues), errors.Join(fetchErr, err)
}

func (a *Assembler) collectPullRequests(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetPullRequests(ctx, a.org, a.repo)
	pulls, err := normalizer.PullRequests(raws)
	snap.PullRequests = pulls
	return len(pulls), errors.Join(fetchErr, err)
}

func (a *Assembler) collectWorkflows(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetWorkflows(ctx, a.org, a.repo)
	workflows, err := normalizer.Workflows(raws)
	snap.Workflows = workflows
	return len(workflows), errors.Join(fetchErr, err)
}

func (a *Assembler) collectDiscussions(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetDiscussions(ctx, a.org, a.repo)
	discussions, err := normalizer.Discussions(raws)
	snap.Discussions = discussions
	return len(discussions), errors.Join(fetchErr, err)
}

func (a *Assembler) collectProjects(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetProjects(ctx, a.org)
	projects, err := normalizer.Projects(raws)
	snap.Projects = projects
	return len(projects), errors.Join(fetchErr, err)
}

func (a *Assembler) collectRepositoryMembers(ctx context.Context, snap *domain.Snapshot) (int, error) {
	raws, fetchErr := a.collector.GetContributorStats(ctx, a.org, a.repo)
	members, err := normalizer.RepositoryMembers(raws)
	snap.RepositoryMembers = members
	return len(members), errors.Join(fetchErr, err)
}
