package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/repos"
	"github.com/testbridge/testbridge-backend/internal/types"
)

const coverageFanout = 4

type CoverageReport struct {
	TraceableCount int                  `json:"traceable_count"`
	InPlanCount    int                  `json:"in_plan_count"`
	ExecutedCount  int                  `json:"executed_count"`
	PassedCount    int                  `json:"passed_count"`
	CoveragePct    float64              `json:"coverage_pct"`
	ExecutionPct   float64              `json:"execution_pct"`
	PassRate       float64              `json:"pass_rate"`
	CoverageStatus types.CoverageStatus `json:"coverage_status"`
}

type DeclarationCoverage struct {
	DeclarationID uuid.UUID             `json:"declaration_id"`
	SourceType    types.ScopeSourceType `json:"source_type"`
	SourceCode    string                `json:"source_code"`
	SourceTitle   string                `json:"source_title"`
	Report        *CoverageReport       `json:"report,omitempty"`
	Issue         string                `json:"issue,omitempty"`
}

type PlanCoverage struct {
	PlanID         uuid.UUID             `json:"plan_id"`
	PerDeclaration []DeclarationCoverage `json:"per_declaration"`
	Summary        CoverageReport        `json:"summary"`
}

// CoverageService aggregates execution results into coverage figures and is
// the single writer of the cached coverage_status on scope declarations.
type CoverageService interface {
	ComputeAnchorCoverage(ctx context.Context, tx *gorm.DB, planID, anchorID uuid.UUID) (*CoverageReport, error)
	ComputePlanCoverage(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*PlanCoverage, error)
}

type coverageService struct {
	db        *gorm.DB
	log       *logger.Logger
	tracer    *declTracer
	planRepo  repos.TestPlanRepo
	declRepo  repos.ScopeDeclarationRepo
	entryRepo repos.PlanCaseEntryRepo
	execRepo  repos.ExecutionRepo
}

func NewCoverageService(
	db *gorm.DB,
	baseLog *logger.Logger,
	nodeRepo repos.ProcessNodeRepo,
	reqRepo repos.RequirementRepo,
	itemRepo repos.DevelopmentItemRepo,
	caseRepo repos.TestCaseRepo,
	planRepo repos.TestPlanRepo,
	declRepo repos.ScopeDeclarationRepo,
	entryRepo repos.PlanCaseEntryRepo,
	execRepo repos.ExecutionRepo,
) CoverageService {
	return &coverageService{
		db:        db,
		log:       baseLog.With("service", "CoverageService"),
		tracer:    &declTracer{nodeRepo: nodeRepo, reqRepo: reqRepo, itemRepo: itemRepo, caseRepo: caseRepo},
		planRepo:  planRepo,
		declRepo:  declRepo,
		entryRepo: entryRepo,
		execRepo:  execRepo,
	}
}

func (s *coverageService) ComputeAnchorCoverage(ctx context.Context, tx *gorm.DB, planID, anchorID uuid.UUID) (*CoverageReport, error) {
	inPlan, err := s.planMembership(ctx, tx, planID)
	if err != nil {
		return nil, err
	}

	traceable, err := s.tracer.traceAnchor(ctx, tx, anchorID)
	if err != nil {
		return nil, MapStoreError(err)
	}

	report, err := s.buildReport(ctx, tx, dedupCases(traceable), inPlan)
	if err != nil {
		return nil, err
	}

	// Refresh the cached status on the matching declaration, if the plan
	// declares this anchor.
	decls, err := s.declRepo.GetByPlanID(ctx, tx, planID)
	if err != nil {
		return nil, MapStoreError(err)
	}
	for _, decl := range decls {
		if decl.SourceType == types.ScopeSourceProcessAnchor && decl.SourceID == anchorID {
			if err := s.declRepo.UpdateCoverageStatus(ctx, tx, decl.ID, report.CoverageStatus); err != nil {
				return nil, MapStoreError(err)
			}
			break
		}
	}
	return report, nil
}

func (s *coverageService) ComputePlanCoverage(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*PlanCoverage, error) {
	plans, err := s.planRepo.GetByIDs(ctx, tx, []uuid.UUID{planID})
	if err != nil {
		return nil, MapStoreError(err)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}

	decls, err := s.declRepo.GetByPlanID(ctx, tx, planID)
	if err != nil {
		return nil, MapStoreError(err)
	}
	inPlan, err := s.planMembership(ctx, tx, planID)
	if err != nil {
		return nil, err
	}

	perDecl := make([]DeclarationCoverage, len(decls))
	tracedByDecl := make([][]*types.TestCase, len(decls))

	// Declarations are independent reads, so they fan out; cache writes
	// happen after the group joins so the single-writer rule holds. A
	// caller-supplied transaction pins a single connection, so the group
	// runs serially in that case.
	limit := coverageFanout
	if tx != nil {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, decl := range decls {
		g.Go(func() error {
			row := DeclarationCoverage{
				DeclarationID: decl.ID,
				SourceType:    decl.SourceType,
				SourceCode:    decl.SourceCode,
				SourceTitle:   decl.SourceTitle,
			}

			traceable, sourceMissing, err := s.traceForCoverage(gctx, tx, decl)
			if err != nil {
				return err
			}
			if sourceMissing {
				row.Issue = fmt.Sprintf("%s %s no longer exists", decl.SourceType, declDisplay(decl))
				perDecl[i] = row
				return nil
			}

			traceable = dedupCases(traceable)
			report, err := s.buildReport(gctx, tx, traceable, inPlan)
			if err != nil {
				return err
			}
			row.Report = report
			perDecl[i] = row
			tracedByDecl[i] = traceable
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, MapStoreError(err)
	}

	for i, decl := range decls {
		if perDecl[i].Report == nil {
			continue
		}
		if err := s.declRepo.UpdateCoverageStatus(ctx, tx, decl.ID, perDecl[i].Report.CoverageStatus); err != nil {
			return nil, MapStoreError(err)
		}
	}

	// Plan-wide totals count each case once, however many declarations
	// reach it.
	var distinct []*types.TestCase
	for _, traced := range tracedByDecl {
		distinct = append(distinct, traced...)
	}
	summary, err := s.buildReport(ctx, tx, dedupCases(distinct), inPlan)
	if err != nil {
		return nil, err
	}

	return &PlanCoverage{
		PlanID:         planID,
		PerDeclaration: perDecl,
		Summary:        *summary,
	}, nil
}

// traceForCoverage expands a declaration for coverage purposes. Anchors get
// the full expansion (direct cases plus requirement-delivered ones); the
// other source types trace the same way suggestions do.
func (s *coverageService) traceForCoverage(ctx context.Context, tx *gorm.DB, decl *types.ScopeDeclaration) ([]*types.TestCase, bool, error) {
	if decl.SourceType == types.ScopeSourceProcessAnchor {
		nodes, err := s.tracer.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{decl.SourceID})
		if err != nil {
			return nil, false, err
		}
		if len(nodes) == 0 {
			return nil, true, nil
		}
		cases, err := s.tracer.traceAnchor(ctx, tx, decl.SourceID)
		return cases, false, err
	}
	return s.tracer.traceDeclaration(ctx, tx, decl)
}

func (s *coverageService) planMembership(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (map[uuid.UUID]bool, error) {
	entries, err := s.entryRepo.GetByPlanID(ctx, tx, planID)
	if err != nil {
		return nil, MapStoreError(err)
	}
	inPlan := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		inPlan[entry.TestCaseID] = true
	}
	return inPlan, nil
}

func (s *coverageService) buildReport(ctx context.Context, tx *gorm.DB, traceable []*types.TestCase, inPlan map[uuid.UUID]bool) (*CoverageReport, error) {
	var inPlanIDs []uuid.UUID
	for _, tc := range traceable {
		if inPlan[tc.ID] {
			inPlanIDs = append(inPlanIDs, tc.ID)
		}
	}

	latest, err := s.latestExecutions(ctx, tx, inPlanIDs)
	if err != nil {
		return nil, err
	}

	report := &CoverageReport{
		TraceableCount: len(traceable),
		InPlanCount:    len(inPlanIDs),
	}
	for _, id := range inPlanIDs {
		exec, ok := latest[id]
		if !ok || exec.Result == types.ExecutionNotRun {
			continue
		}
		report.ExecutedCount++
		if exec.Result == types.ExecutionPass {
			report.PassedCount++
		}
	}

	report.CoveragePct = pct(report.InPlanCount, report.TraceableCount)
	report.ExecutionPct = pct(report.ExecutedCount, report.InPlanCount)
	report.PassRate = pct(report.PassedCount, report.ExecutedCount)

	switch {
	case report.TraceableCount > 0 && report.InPlanCount == report.TraceableCount:
		report.CoverageStatus = types.CoverageFull
	case report.InPlanCount > 0:
		report.CoverageStatus = types.CoveragePartial
	default:
		report.CoverageStatus = types.CoverageNone
	}
	return report, nil
}

// latestExecutions picks the most recent execution per case. The repo
// returns rows ordered (executed_at, seq) ascending, so the last row seen
// wins and equal timestamps fall back to the recording order.
func (s *coverageService) latestExecutions(ctx context.Context, tx *gorm.DB, caseIDs []uuid.UUID) (map[uuid.UUID]*types.TestExecution, error) {
	execs, err := s.execRepo.GetByTestCaseIDs(ctx, tx, caseIDs)
	if err != nil {
		return nil, MapStoreError(err)
	}
	latest := make(map[uuid.UUID]*types.TestExecution, len(caseIDs))
	for _, exec := range execs {
		latest[exec.TestCaseID] = exec
	}
	return latest, nil
}

// pct rounds to one decimal place but never rounds a partial value onto
// an endpoint: 100.0 means part == whole and 0 means part == 0, so the
// reported percentage always agrees with the status derived from the
// unrounded counts.
func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	v := math.Round(float64(part)/float64(whole)*1000) / 10
	if v == 100 && part != whole {
		v = 99.9
	}
	if v == 0 && part != 0 {
		v = 0.1
	}
	return v
}
