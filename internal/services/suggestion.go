package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/repos"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type Suggestion struct {
	TestCaseID    uuid.UUID `json:"test_case_id"`
	TestCaseCode  string    `json:"test_case_code"`
	TestCaseTitle string    `json:"test_case_title"`
	DeclarationID uuid.UUID `json:"matched_declaration_id"`
	Reason        string    `json:"reason"`
	AlreadyInPlan bool      `json:"already_in_plan"`
}

type DeclarationIssue struct {
	DeclarationID uuid.UUID `json:"declaration_id"`
	Detail        string    `json:"detail"`
}

type SuggestionResult struct {
	Suggestions        []Suggestion       `json:"suggestions"`
	Total              int                `json:"total"`
	NewCount           int                `json:"new_count"`
	AlreadyInPlanCount int                `json:"already_in_plan_count"`
	Message            string             `json:"message,omitempty"`
	Issues             []DeclarationIssue `json:"issues,omitempty"`
}

// SuggestionService forward-traces a plan's scope declarations to candidate
// test cases. Read-only and idempotent: repeated calls over an unchanged
// graph and plan return the identical list.
type SuggestionService interface {
	SuggestCandidates(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*SuggestionResult, error)
}

type suggestionService struct {
	db        *gorm.DB
	log       *logger.Logger
	tracer    *declTracer
	planRepo  repos.TestPlanRepo
	declRepo  repos.ScopeDeclarationRepo
	entryRepo repos.PlanCaseEntryRepo
}

func NewSuggestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	nodeRepo repos.ProcessNodeRepo,
	reqRepo repos.RequirementRepo,
	itemRepo repos.DevelopmentItemRepo,
	caseRepo repos.TestCaseRepo,
	planRepo repos.TestPlanRepo,
	declRepo repos.ScopeDeclarationRepo,
	entryRepo repos.PlanCaseEntryRepo,
) SuggestionService {
	return &suggestionService{
		db:        db,
		log:       baseLog.With("service", "SuggestionService"),
		tracer:    &declTracer{nodeRepo: nodeRepo, reqRepo: reqRepo, itemRepo: itemRepo, caseRepo: caseRepo},
		planRepo:  planRepo,
		declRepo:  declRepo,
		entryRepo: entryRepo,
	}
}

func (s *suggestionService) SuggestCandidates(ctx context.Context, tx *gorm.DB, planID uuid.UUID) (*SuggestionResult, error) {
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
	if len(decls) == 0 {
		return &SuggestionResult{
			Suggestions: []Suggestion{},
			Message:     "no scope declared for this plan; declare processes, scenarios, requirements or development items first",
		}, nil
	}

	entries, err := s.entryRepo.GetByPlanID(ctx, tx, planID)
	if err != nil {
		return nil, MapStoreError(err)
	}
	inPlan := map[uuid.UUID]bool{}
	for _, entry := range entries {
		inPlan[entry.TestCaseID] = true
	}

	result := &SuggestionResult{Suggestions: []Suggestion{}}
	seen := map[uuid.UUID]bool{}

	for _, decl := range decls {
		cases, sourceMissing, err := s.tracer.traceDeclaration(ctx, tx, decl)
		if err != nil {
			return nil, MapStoreError(err)
		}
		if sourceMissing {
			result.Issues = append(result.Issues, DeclarationIssue{
				DeclarationID: decl.ID,
				Detail:        fmt.Sprintf("%s %s no longer exists", decl.SourceType, declDisplay(decl)),
			})
			continue
		}

		reason := fmt.Sprintf("traced from %s %s", decl.SourceType, declDisplay(decl))
		for _, tc := range cases {
			if tc == nil || seen[tc.ID] {
				// A case reachable through more than one declaration keeps
				// the first discovery's reason.
				continue
			}
			seen[tc.ID] = true
			result.Suggestions = append(result.Suggestions, Suggestion{
				TestCaseID:    tc.ID,
				TestCaseCode:  tc.Code,
				TestCaseTitle: tc.Title,
				DeclarationID: decl.ID,
				Reason:        reason,
				AlreadyInPlan: inPlan[tc.ID],
			})
		}
	}

	result.Total = len(result.Suggestions)
	for _, sg := range result.Suggestions {
		if sg.AlreadyInPlan {
			result.AlreadyInPlanCount++
		} else {
			result.NewCount++
		}
	}
	return result, nil
}

func declDisplay(decl *types.ScopeDeclaration) string {
	if decl.SourceCode != "" {
		return decl.SourceCode
	}
	return decl.SourceID.String()
}
