package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/config"
	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/repos"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type GateOutcome string

const (
	GatePass GateOutcome = "PASS"
	GateFail GateOutcome = "FAIL"
)

type GateResult struct {
	Name          string `json:"name"`
	MeasuredValue string `json:"measured_value"`
	Threshold     string `json:"threshold"`
	Passed        bool   `json:"passed"`
	Detail        string `json:"detail,omitempty"`
}

type ExitGateReport struct {
	PlanID  uuid.UUID    `json:"plan_id"`
	Overall GateOutcome  `json:"overall"`
	Gates   []GateResult `json:"gates"`
}

// DataReadinessChecker reports whether the mandatory supporting data for a
// project is in place. The engine only consumes the verdict.
type DataReadinessChecker interface {
	Ready(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (bool, string, error)
}

// GateService evaluates the exit decision for a plan. The report always
// carries every gate's measured value so callers can render a full
// scorecard; a gate whose value cannot be determined fails with the cause in
// its detail rather than erroring the evaluation.
type GateService interface {
	EvaluateExit(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*ExitGateReport, error)
}

type gateService struct {
	db         *gorm.DB
	log        *logger.Logger
	thresholds config.GateThresholds
	planRepo   repos.TestPlanRepo
	entryRepo  repos.PlanCaseEntryRepo
	execRepo   repos.ExecutionRepo
	defectRepo repos.DefectRepo
	readiness  DataReadinessChecker
}

func NewGateService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg config.EngineConfig,
	planRepo repos.TestPlanRepo,
	entryRepo repos.PlanCaseEntryRepo,
	execRepo repos.ExecutionRepo,
	defectRepo repos.DefectRepo,
	readiness DataReadinessChecker,
) GateService {
	return &gateService{
		db:         db,
		log:        baseLog.With("service", "GateService"),
		thresholds: cfg.Gates,
		planRepo:   planRepo,
		entryRepo:  entryRepo,
		execRepo:   execRepo,
		defectRepo: defectRepo,
		readiness:  readiness,
	}
}

func (s *gateService) EvaluateExit(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*ExitGateReport, error) {
	plans, err := s.planRepo.GetByIDs(ctx, tx, []uuid.UUID{planID})
	if err != nil {
		return nil, MapStoreError(err)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	plan := plans[0]

	report := &ExitGateReport{PlanID: planID, Overall: GatePass}
	report.Gates = []GateResult{
		s.passRateGate(ctx, tx, planID),
		s.defectGate(ctx, tx, plan.ProjectID, types.DefectCritical),
		s.defectGate(ctx, tx, plan.ProjectID, types.DefectHigh),
		s.completionGate(ctx, tx, planID),
		s.dataReadinessGate(ctx, tx, plan.ProjectID),
	}

	for _, gate := range report.Gates {
		if !gate.Passed {
			report.Overall = GateFail
		}
	}
	return report, nil
}

func (s *gateService) passRateGate(ctx context.Context, tx *gorm.DB, planID uuid.UUID) GateResult {
	gate := GateResult{
		Name:      "pass_rate",
		Threshold: fmt.Sprintf(">= %.1f%%", s.thresholds.PassRatePct),
	}

	execs, err := s.execRepo.GetByPlanID(ctx, tx, planID)
	if err != nil {
		gate.MeasuredValue = "unknown"
		gate.Detail = fmt.Sprintf("could not load executions: %v", err)
		return gate
	}

	var passed, failed int
	for _, exec := range execs {
		switch exec.Result {
		case types.ExecutionPass:
			passed++
		case types.ExecutionFail:
			failed++
		}
	}
	if passed+failed == 0 {
		gate.MeasuredValue = "unknown"
		gate.Detail = "no pass or fail executions recorded"
		return gate
	}

	rate := pct(passed, passed+failed)
	gate.MeasuredValue = fmt.Sprintf("%.1f%%", rate)
	gate.Passed = rate >= s.thresholds.PassRatePct
	return gate
}

func (s *gateService) defectGate(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, severity types.DefectSeverity) GateResult {
	gate := GateResult{
		Name:      fmt.Sprintf("open_%s_defects", severity),
		Threshold: "= 0",
	}

	count, err := s.defectRepo.CountOpenBySeverity(ctx, tx, projectID, severity)
	if err != nil {
		gate.MeasuredValue = "unknown"
		gate.Detail = fmt.Sprintf("could not count defects: %v", err)
		return gate
	}

	gate.MeasuredValue = fmt.Sprintf("%d", count)
	gate.Passed = count == 0
	return gate
}

func (s *gateService) completionGate(ctx context.Context, tx *gorm.DB, planID uuid.UUID) GateResult {
	gate := GateResult{
		Name:      "completion_rate",
		Threshold: fmt.Sprintf(">= %.1f%%", s.thresholds.CompletionPct),
	}

	entries, err := s.entryRepo.GetByPlanID(ctx, tx, planID)
	if err != nil {
		gate.MeasuredValue = "unknown"
		gate.Detail = fmt.Sprintf("could not load plan entries: %v", err)
		return gate
	}
	if len(entries) == 0 {
		gate.MeasuredValue = "unknown"
		gate.Detail = "plan has no cases"
		return gate
	}

	caseIDs := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		caseIDs = append(caseIDs, entry.TestCaseID)
	}
	execs, err := s.execRepo.GetByTestCaseIDs(ctx, tx, caseIDs)
	if err != nil {
		gate.MeasuredValue = "unknown"
		gate.Detail = fmt.Sprintf("could not load executions: %v", err)
		return gate
	}

	// Last row per case wins: rows arrive ordered (executed_at, seq).
	latest := map[uuid.UUID]types.ExecutionResult{}
	for _, exec := range execs {
		latest[exec.TestCaseID] = exec.Result
	}
	run := 0
	for _, id := range caseIDs {
		if result, ok := latest[id]; ok && result != types.ExecutionNotRun {
			run++
		}
	}

	rate := pct(run, len(entries))
	gate.MeasuredValue = fmt.Sprintf("%.1f%%", rate)
	gate.Passed = rate >= s.thresholds.CompletionPct
	return gate
}

func (s *gateService) dataReadinessGate(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) GateResult {
	gate := GateResult{
		Name:      "data_readiness",
		Threshold: "all mandatory packages ready",
	}

	ready, detail, err := s.readiness.Ready(ctx, tx, projectID)
	if err != nil {
		gate.MeasuredValue = "unknown"
		gate.Detail = fmt.Sprintf("readiness check failed: %v", err)
		return gate
	}

	gate.Passed = ready
	if ready {
		gate.MeasuredValue = "ready"
	} else {
		gate.MeasuredValue = "not ready"
		gate.Detail = detail
	}
	return gate
}

// dataPackageReadiness reads supporting-data status from the store.
type dataPackageReadiness struct {
	repo repos.DataPackageRepo
}

func NewDataPackageReadiness(repo repos.DataPackageRepo) DataReadinessChecker {
	return &dataPackageReadiness{repo: repo}
}

func (c *dataPackageReadiness) Ready(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (bool, string, error) {
	packages, err := c.repo.GetMandatoryByProjectID(ctx, tx, projectID)
	if err != nil {
		return false, "", err
	}

	var notReady []string
	for _, pkg := range packages {
		if pkg.Status != types.DataPackageReady {
			notReady = append(notReady, pkg.Name)
		}
	}
	if len(notReady) > 0 {
		return false, fmt.Sprintf("packages not ready: %s", strings.Join(notReady, ", ")), nil
	}
	return true, "", nil
}
