package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/repos"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type DeclareScopeInput struct {
	SourceType types.ScopeSourceType `json:"source_type"`
	SourceID   uuid.UUID             `json:"source_id"`
	Priority   int                   `json:"priority"`
	RiskLevel  string                `json:"risk_level"`
}

type AddCasesResult struct {
	Added   []*types.PlanCaseEntry `json:"added"`
	Skipped []uuid.UUID            `json:"skipped"`
}

// ScopeService manages a plan's scope declarations and working-set entries.
// Removal is plan-local: deleting a declaration or an entry never touches
// the underlying case or graph.
type ScopeService interface {
	DeclareScope(ctx context.Context, tx *gorm.DB, planID uuid.UUID, input DeclareScopeInput) (*types.ScopeDeclaration, error)
	RemoveDeclaration(ctx context.Context, tx *gorm.DB, planID, declID uuid.UUID) error
	AddCasesToPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID, caseIDs []uuid.UUID, addedMethod types.AddedMethod) (*AddCasesResult, error)
	RemoveCaseFromPlan(ctx context.Context, tx *gorm.DB, planID, testCaseID uuid.UUID) error
}

type scopeService struct {
	db        *gorm.DB
	log       *logger.Logger
	planRepo  repos.TestPlanRepo
	declRepo  repos.ScopeDeclarationRepo
	entryRepo repos.PlanCaseEntryRepo
	caseRepo  repos.TestCaseRepo
	nodeRepo  repos.ProcessNodeRepo
	reqRepo   repos.RequirementRepo
	itemRepo  repos.DevelopmentItemRepo
}

func NewScopeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	planRepo repos.TestPlanRepo,
	declRepo repos.ScopeDeclarationRepo,
	entryRepo repos.PlanCaseEntryRepo,
	caseRepo repos.TestCaseRepo,
	nodeRepo repos.ProcessNodeRepo,
	reqRepo repos.RequirementRepo,
	itemRepo repos.DevelopmentItemRepo,
) ScopeService {
	return &scopeService{
		db:        db,
		log:       baseLog.With("service", "ScopeService"),
		planRepo:  planRepo,
		declRepo:  declRepo,
		entryRepo: entryRepo,
		caseRepo:  caseRepo,
		nodeRepo:  nodeRepo,
		reqRepo:   reqRepo,
		itemRepo:  itemRepo,
	}
}

func (s *scopeService) DeclareScope(ctx context.Context, tx *gorm.DB, planID uuid.UUID, input DeclareScopeInput) (*types.ScopeDeclaration, error) {
	plans, err := s.planRepo.GetByIDs(ctx, tx, []uuid.UUID{planID})
	if err != nil {
		return nil, MapStoreError(err)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}

	code, title, err := s.sourceDisplay(ctx, tx, input.SourceType, input.SourceID)
	if err != nil {
		return nil, err
	}

	decl, err := s.declRepo.Create(ctx, tx, &types.ScopeDeclaration{
		PlanID:         planID,
		SourceType:     input.SourceType,
		SourceID:       input.SourceID,
		SourceCode:     code,
		SourceTitle:    title,
		Priority:       input.Priority,
		RiskLevel:      input.RiskLevel,
		CoverageStatus: types.CoverageNotCalculated,
	})
	if err != nil {
		return nil, MapStoreError(err)
	}
	return decl, nil
}

func (s *scopeService) RemoveDeclaration(ctx context.Context, tx *gorm.DB, planID, declID uuid.UUID) error {
	decls, err := s.declRepo.GetByIDs(ctx, tx, []uuid.UUID{declID})
	if err != nil {
		return MapStoreError(err)
	}
	if len(decls) == 0 || decls[0].PlanID != planID {
		return fmt.Errorf("declaration %s in plan %s: %w", declID, planID, ErrNotFound)
	}

	affected, err := s.declRepo.DeleteByID(ctx, tx, declID)
	if err != nil {
		return MapStoreError(err)
	}
	if affected == 0 {
		return fmt.Errorf("declaration %s: %w", declID, ErrNotFound)
	}
	return nil
}

// AddCasesToPlan turns accepted suggestions (or manual picks) into plan
// entries. Cases already in the plan are reported as skipped, not errors, so
// a bulk accept is not all-or-nothing.
func (s *scopeService) AddCasesToPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID, caseIDs []uuid.UUID, addedMethod types.AddedMethod) (*AddCasesResult, error) {
	plans, err := s.planRepo.GetByIDs(ctx, tx, []uuid.UUID{planID})
	if err != nil {
		return nil, MapStoreError(err)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}

	cases, err := s.caseRepo.GetByIDs(ctx, tx, caseIDs)
	if err != nil {
		return nil, MapStoreError(err)
	}
	known := make(map[uuid.UUID]bool, len(cases))
	for _, tc := range cases {
		known[tc.ID] = true
	}
	// Every id is checked before the first write: a bad id fails the
	// whole batch with nothing persisted.
	for _, caseID := range caseIDs {
		if !known[caseID] {
			return nil, fmt.Errorf("test case %s: %w", caseID, ErrNotFound)
		}
	}

	if addedMethod == "" {
		addedMethod = types.AddedManual
	}

	result := &AddCasesResult{Added: []*types.PlanCaseEntry{}}
	for _, caseID := range caseIDs {
		entry, err := s.entryRepo.Create(ctx, tx, &types.PlanCaseEntry{
			PlanID:      planID,
			TestCaseID:  caseID,
			AddedMethod: addedMethod,
		})
		if err != nil {
			mapped := MapStoreError(err)
			if errors.Is(mapped, ErrDuplicateAssociation) {
				result.Skipped = append(result.Skipped, caseID)
				continue
			}
			return nil, mapped
		}
		result.Added = append(result.Added, entry)
	}
	return result, nil
}

func (s *scopeService) RemoveCaseFromPlan(ctx context.Context, tx *gorm.DB, planID, testCaseID uuid.UUID) error {
	affected, err := s.entryRepo.DeleteByPair(ctx, tx, planID, testCaseID)
	if err != nil {
		return MapStoreError(err)
	}
	if affected == 0 {
		return fmt.Errorf("case %s in plan %s: %w", testCaseID, planID, ErrNotFound)
	}
	return nil
}

func (s *scopeService) sourceDisplay(ctx context.Context, tx *gorm.DB, sourceType types.ScopeSourceType, sourceID uuid.UUID) (string, string, error) {
	switch sourceType {
	case types.ScopeSourceProcessAnchor, types.ScopeSourceScenario:
		nodes, err := s.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{sourceID})
		if err != nil {
			return "", "", MapStoreError(err)
		}
		if len(nodes) == 0 {
			return "", "", fmt.Errorf("%s %s: %w", sourceType, sourceID, ErrNotFound)
		}
		return nodes[0].Code, nodes[0].Title, nil
	case types.ScopeSourceRequirement:
		reqs, err := s.reqRepo.GetByIDs(ctx, tx, []uuid.UUID{sourceID})
		if err != nil {
			return "", "", MapStoreError(err)
		}
		if len(reqs) == 0 {
			return "", "", fmt.Errorf("requirement %s: %w", sourceID, ErrNotFound)
		}
		return reqs[0].Code, reqs[0].Title, nil
	case types.ScopeSourceDevelopmentItem:
		items, err := s.itemRepo.GetByIDs(ctx, tx, []uuid.UUID{sourceID})
		if err != nil {
			return "", "", MapStoreError(err)
		}
		if len(items) == 0 {
			return "", "", fmt.Errorf("development item %s: %w", sourceID, ErrNotFound)
		}
		return items[0].Code, items[0].Title, nil
	}
	return "", "", fmt.Errorf("unknown source type %q", sourceType)
}
