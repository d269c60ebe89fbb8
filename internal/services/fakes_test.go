package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// uid builds a deterministic uuid from a single byte, so tests can name
// entities without parsing literals everywhere.
func uid(b byte) uuid.UUID {
	var raw [16]byte
	raw[15] = b
	raw[6] = 0x40
	raw[8] = 0x80
	return uuid.UUID(raw)
}

func uidPtr(b byte) *uuid.UUID {
	id := uid(b)
	return &id
}

func duplicateKeyErr() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type fakeNodeRepo struct {
	nodes map[uuid.UUID]*types.ProcessNode
}

func (f *fakeNodeRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ProcessNode) ([]*types.ProcessNode, error) {
	for _, row := range rows {
		f.nodes[row.ID] = row
	}
	return rows, nil
}

func (f *fakeNodeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProcessNode, error) {
	var out []*types.ProcessNode
	for _, id := range ids {
		if node, ok := f.nodes[id]; ok {
			out = append(out, node)
		}
	}
	return out, nil
}

func (f *fakeNodeRepo) GetChildren(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, level int) ([]*types.ProcessNode, error) {
	var out []*types.ProcessNode
	for _, node := range f.nodes {
		if node.ParentID != nil && *node.ParentID == parentID && (level == 0 || node.Level == level) {
			out = append(out, node)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type fakeStepRepo struct {
	steps map[uuid.UUID]*types.ProcessStep
}

func (f *fakeStepRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ProcessStep) ([]*types.ProcessStep, error) {
	for _, row := range rows {
		f.steps[row.ID] = row
	}
	return rows, nil
}

func (f *fakeStepRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProcessStep, error) {
	var out []*types.ProcessStep
	for _, id := range ids {
		if step, ok := f.steps[id]; ok {
			out = append(out, step)
		}
	}
	return out, nil
}

type fakeReqRepo struct {
	reqs map[uuid.UUID]*types.Requirement
}

func (f *fakeReqRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Requirement) ([]*types.Requirement, error) {
	for _, row := range rows {
		f.reqs[row.ID] = row
	}
	return rows, nil
}

func (f *fakeReqRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Requirement, error) {
	var out []*types.Requirement
	for _, id := range ids {
		if req, ok := f.reqs[id]; ok {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeReqRepo) GetByAnchorIDs(ctx context.Context, tx *gorm.DB, anchorIDs []uuid.UUID) ([]*types.Requirement, error) {
	var out []*types.Requirement
	for _, anchorID := range anchorIDs {
		for _, req := range f.reqs {
			if req.AnchorID != nil && *req.AnchorID == anchorID {
				out = append(out, req)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type fakeItemRepo struct {
	items map[uuid.UUID]*types.DevelopmentItem
}

func (f *fakeItemRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DevelopmentItem) ([]*types.DevelopmentItem, error) {
	for _, row := range rows {
		f.items[row.ID] = row
	}
	return rows, nil
}

func (f *fakeItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.DevelopmentItem, error) {
	var out []*types.DevelopmentItem
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) GetByRequirementIDs(ctx context.Context, tx *gorm.DB, requirementIDs []uuid.UUID) ([]*types.DevelopmentItem, error) {
	var out []*types.DevelopmentItem
	for _, reqID := range requirementIDs {
		for _, item := range f.items {
			if item.RequirementID != nil && *item.RequirementID == reqID {
				out = append(out, item)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type fakeCaseRepo struct {
	cases map[uuid.UUID]*types.TestCase
}

func (f *fakeCaseRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TestCase) ([]*types.TestCase, error) {
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		f.cases[row.ID] = row
	}
	return rows, nil
}

func (f *fakeCaseRepo) Update(ctx context.Context, tx *gorm.DB, row *types.TestCase) error {
	f.cases[row.ID] = row
	return nil
}

func (f *fakeCaseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestCase, error) {
	var out []*types.TestCase
	for _, id := range ids {
		if tc, ok := f.cases[id]; ok {
			out = append(out, tc)
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) active() []*types.TestCase {
	var out []*types.TestCase
	for _, tc := range f.cases {
		if tc.ArchivedAt == nil {
			out = append(out, tc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (f *fakeCaseRepo) GetByAnchorIDs(ctx context.Context, tx *gorm.DB, anchorIDs []uuid.UUID) ([]*types.TestCase, error) {
	var out []*types.TestCase
	for _, anchorID := range anchorIDs {
		for _, tc := range f.active() {
			if tc.AnchorID != nil && *tc.AnchorID == anchorID {
				out = append(out, tc)
			}
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) GetByDevelopmentItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.TestCase, error) {
	var out []*types.TestCase
	for _, itemID := range itemIDs {
		for _, tc := range f.active() {
			if tc.DevelopmentItemID != nil && *tc.DevelopmentItemID == itemID {
				out = append(out, tc)
			}
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) GetByRequirementIDs(ctx context.Context, tx *gorm.DB, requirementIDs []uuid.UUID) ([]*types.TestCase, error) {
	var out []*types.TestCase
	for _, reqID := range requirementIDs {
		for _, tc := range f.active() {
			if tc.RequirementID != nil && *tc.RequirementID == reqID {
				out = append(out, tc)
			}
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) ArchiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if tc, ok := f.cases[id]; ok {
		now := tc.CreatedAt
		tc.ArchivedAt = &now
	}
	return nil
}

type fakeSuiteRepo struct {
	suites map[uuid.UUID]*types.TestSuite
}

func (f *fakeSuiteRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TestSuite) ([]*types.TestSuite, error) {
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		f.suites[row.ID] = row
	}
	return rows, nil
}

func (f *fakeSuiteRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestSuite, error) {
	var out []*types.TestSuite
	for _, id := range ids {
		if suite, ok := f.suites[id]; ok {
			out = append(out, suite)
		}
	}
	return out, nil
}

type fakeLinkRepo struct {
	links []*types.CaseSuiteLink
}

func (f *fakeLinkRepo) Create(ctx context.Context, tx *gorm.DB, row *types.CaseSuiteLink) (*types.CaseSuiteLink, error) {
	for _, link := range f.links {
		if link.TestCaseID == row.TestCaseID && link.SuiteID == row.SuiteID {
			return nil, duplicateKeyErr()
		}
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.links = append(f.links, row)
	return row, nil
}

func (f *fakeLinkRepo) DeleteByPair(ctx context.Context, tx *gorm.DB, testCaseID, suiteID uuid.UUID) (int64, error) {
	var kept []*types.CaseSuiteLink
	var removed int64
	for _, link := range f.links {
		if link.TestCaseID == testCaseID && link.SuiteID == suiteID {
			removed++
			continue
		}
		kept = append(kept, link)
	}
	f.links = kept
	return removed, nil
}

func (f *fakeLinkRepo) GetBySuiteID(ctx context.Context, tx *gorm.DB, suiteID uuid.UUID) ([]*types.CaseSuiteLink, error) {
	var out []*types.CaseSuiteLink
	for _, link := range f.links {
		if link.SuiteID == suiteID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) GetByTestCaseID(ctx context.Context, tx *gorm.DB, testCaseID uuid.UUID) ([]*types.CaseSuiteLink, error) {
	var out []*types.CaseSuiteLink
	for _, link := range f.links {
		if link.TestCaseID == testCaseID {
			out = append(out, link)
		}
	}
	return out, nil
}

type fakePlanRepo struct {
	plans map[uuid.UUID]*types.TestPlan
}

func (f *fakePlanRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TestPlan) ([]*types.TestPlan, error) {
	for _, row := range rows {
		f.plans[row.ID] = row
	}
	return rows, nil
}

func (f *fakePlanRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.TestPlan, error) {
	var out []*types.TestPlan
	for _, id := range ids {
		if plan, ok := f.plans[id]; ok {
			out = append(out, plan)
		}
	}
	return out, nil
}

type fakeDeclRepo struct {
	decls    []*types.ScopeDeclaration
	statuses map[uuid.UUID]types.CoverageStatus
}

func (f *fakeDeclRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ScopeDeclaration) (*types.ScopeDeclaration, error) {
	for _, decl := range f.decls {
		if decl.PlanID == row.PlanID && decl.SourceType == row.SourceType && decl.SourceID == row.SourceID {
			return nil, duplicateKeyErr()
		}
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.decls = append(f.decls, row)
	return row, nil
}

func (f *fakeDeclRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScopeDeclaration, error) {
	var out []*types.ScopeDeclaration
	for _, id := range ids {
		for _, decl := range f.decls {
			if decl.ID == id {
				out = append(out, decl)
			}
		}
	}
	return out, nil
}

func (f *fakeDeclRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.ScopeDeclaration, error) {
	var out []*types.ScopeDeclaration
	for _, decl := range f.decls {
		if decl.PlanID == planID {
			out = append(out, decl)
		}
	}
	return out, nil
}

func (f *fakeDeclRepo) UpdateCoverageStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.CoverageStatus) error {
	if f.statuses == nil {
		f.statuses = map[uuid.UUID]types.CoverageStatus{}
	}
	f.statuses[id] = status
	for _, decl := range f.decls {
		if decl.ID == id {
			decl.CoverageStatus = status
		}
	}
	return nil
}

func (f *fakeDeclRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	var kept []*types.ScopeDeclaration
	var removed int64
	for _, decl := range f.decls {
		if decl.ID == id {
			removed++
			continue
		}
		kept = append(kept, decl)
	}
	f.decls = kept
	return removed, nil
}

type fakeEntryRepo struct {
	entries []*types.PlanCaseEntry
}

func (f *fakeEntryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.PlanCaseEntry) (*types.PlanCaseEntry, error) {
	for _, entry := range f.entries {
		if entry.PlanID == row.PlanID && entry.TestCaseID == row.TestCaseID {
			return nil, duplicateKeyErr()
		}
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.entries = append(f.entries, row)
	return row, nil
}

func (f *fakeEntryRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.PlanCaseEntry, error) {
	var out []*types.PlanCaseEntry
	for _, entry := range f.entries {
		if entry.PlanID == planID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) DeleteByPair(ctx context.Context, tx *gorm.DB, planID, testCaseID uuid.UUID) (int64, error) {
	var kept []*types.PlanCaseEntry
	var removed int64
	for _, entry := range f.entries {
		if entry.PlanID == planID && entry.TestCaseID == testCaseID {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	f.entries = kept
	return removed, nil
}

type fakeExecRepo struct {
	execs []*types.TestExecution
}

func (f *fakeExecRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TestExecution) ([]*types.TestExecution, error) {
	for _, row := range rows {
		row.Seq = int64(len(f.execs) + 1)
		f.execs = append(f.execs, row)
	}
	return rows, nil
}

func (f *fakeExecRepo) sorted(filtered []*types.TestExecution) []*types.TestExecution {
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].ExecutedAt.Equal(filtered[j].ExecutedAt) {
			return filtered[i].Seq < filtered[j].Seq
		}
		return filtered[i].ExecutedAt.Before(filtered[j].ExecutedAt)
	})
	return filtered
}

func (f *fakeExecRepo) GetByTestCaseIDs(ctx context.Context, tx *gorm.DB, testCaseIDs []uuid.UUID) ([]*types.TestExecution, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range testCaseIDs {
		wanted[id] = true
	}
	var out []*types.TestExecution
	for _, exec := range f.execs {
		if wanted[exec.TestCaseID] {
			out = append(out, exec)
		}
	}
	return f.sorted(out), nil
}

func (f *fakeExecRepo) GetByPlanID(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.TestExecution, error) {
	var out []*types.TestExecution
	for _, exec := range f.execs {
		if exec.PlanID != nil && *exec.PlanID == planID {
			out = append(out, exec)
		}
	}
	return f.sorted(out), nil
}

type fakeDefectRepo struct {
	defects []*types.Defect
	err     error
}

func (f *fakeDefectRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Defect) ([]*types.Defect, error) {
	f.defects = append(f.defects, rows...)
	return rows, nil
}

func (f *fakeDefectRepo) CountOpenBySeverity(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, severity types.DefectSeverity) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var count int64
	for _, defect := range f.defects {
		if defect.ProjectID != projectID || defect.Severity != severity {
			continue
		}
		if defect.Status == types.DefectOpen || defect.Status == types.DefectInProgress {
			count++
		}
	}
	return count, nil
}

type fakeDataPackageRepo struct {
	packages []*types.DataPackage
}

func (f *fakeDataPackageRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DataPackage) ([]*types.DataPackage, error) {
	f.packages = append(f.packages, rows...)
	return rows, nil
}

func (f *fakeDataPackageRepo) GetMandatoryByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.DataPackage, error) {
	var out []*types.DataPackage
	for _, pkg := range f.packages {
		if pkg.ProjectID == projectID && pkg.Mandatory {
			out = append(out, pkg)
		}
	}
	return out, nil
}

func (f *fakeDataPackageRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.DataPackageStatus) error {
	for _, pkg := range f.packages {
		if pkg.ID == id {
			pkg.Status = status
		}
	}
	return nil
}
