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

type TestCaseInput struct {
	Code              string               `json:"code"`
	Title             string               `json:"title"`
	TestLayer         types.TestLayer      `json:"test_layer"`
	AnchorID          *uuid.UUID           `json:"anchor_id,omitempty"`
	DevelopmentItemID *uuid.UUID           `json:"development_item_id,omitempty"`
	RequirementID     *uuid.UUID           `json:"requirement_id,omitempty"`
	Source            types.TestCaseSource `json:"source,omitempty"`
}

// TestCaseService is the write path for test cases. Every create and relink
// runs anchor resolution and the layer policy: a reject blocks the write, a
// warn is returned alongside the persisted record.
type TestCaseService interface {
	Create(ctx context.Context, tx *gorm.DB, input TestCaseInput) (*types.TestCase, *LayerValidation, error)
	Relink(ctx context.Context, tx *gorm.DB, id uuid.UUID, input TestCaseInput) (*types.TestCase, *LayerValidation, error)
	Archive(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type testCaseService struct {
	db       *gorm.DB
	log      *logger.Logger
	caseRepo repos.TestCaseRepo
	resolver AnchorResolverService
	policy   LayerPolicyService
}

func NewTestCaseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	caseRepo repos.TestCaseRepo,
	resolver AnchorResolverService,
	policy LayerPolicyService,
) TestCaseService {
	return &testCaseService{
		db:       db,
		log:      baseLog.With("service", "TestCaseService"),
		caseRepo: caseRepo,
		resolver: resolver,
		policy:   policy,
	}
}

func (s *testCaseService) Create(ctx context.Context, tx *gorm.DB, input TestCaseInput) (*types.TestCase, *LayerValidation, error) {
	if input.Code == "" || input.Title == "" || input.TestLayer == "" {
		return nil, nil, fmt.Errorf("missing code, title or test layer")
	}

	anchorID, validation, err := s.resolveAndValidate(ctx, tx, input)
	if err != nil {
		return nil, validation, err
	}

	source := input.Source
	if source == "" {
		source = types.TestCaseSourceManual
	}
	rows, err := s.caseRepo.Create(ctx, tx, []*types.TestCase{{
		Code:              input.Code,
		Title:             input.Title,
		TestLayer:         input.TestLayer,
		AnchorID:          anchorID,
		DevelopmentItemID: input.DevelopmentItemID,
		RequirementID:     input.RequirementID,
		Source:            source,
	}})
	if err != nil {
		return nil, nil, MapStoreError(err)
	}
	return rows[0], validation, nil
}

func (s *testCaseService) Relink(ctx context.Context, tx *gorm.DB, id uuid.UUID, input TestCaseInput) (*types.TestCase, *LayerValidation, error) {
	cases, err := s.caseRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, nil, MapStoreError(err)
	}
	if len(cases) == 0 {
		return nil, nil, fmt.Errorf("test case %s: %w", id, ErrNotFound)
	}
	tc := cases[0]

	if input.TestLayer != "" {
		tc.TestLayer = input.TestLayer
	}
	tc.DevelopmentItemID = input.DevelopmentItemID
	tc.RequirementID = input.RequirementID

	anchorID, validation, err := s.resolveAndValidate(ctx, tx, TestCaseInput{
		TestLayer:         tc.TestLayer,
		AnchorID:          input.AnchorID,
		DevelopmentItemID: input.DevelopmentItemID,
		RequirementID:     input.RequirementID,
	})
	if err != nil {
		return nil, validation, err
	}
	tc.AnchorID = anchorID

	if err := s.caseRepo.Update(ctx, tx, tc); err != nil {
		return nil, nil, MapStoreError(err)
	}
	return tc, validation, nil
}

func (s *testCaseService) Archive(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	cases, err := s.caseRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return MapStoreError(err)
	}
	if len(cases) == 0 {
		return fmt.Errorf("test case %s: %w", id, ErrNotFound)
	}
	return MapStoreError(s.caseRepo.ArchiveByID(ctx, tx, id))
}

func (s *testCaseService) resolveAndValidate(ctx context.Context, tx *gorm.DB, input TestCaseInput) (*uuid.UUID, *LayerValidation, error) {
	anchorID, err := s.resolver.ResolveAnchor(ctx, tx, AnchorRefs{
		NodeID:            input.AnchorID,
		DevelopmentItemID: input.DevelopmentItemID,
		RequirementID:     input.RequirementID,
	})
	if err != nil {
		return nil, nil, MapStoreError(err)
	}

	validation := s.policy.Validate(input.TestLayer, anchorID)
	if validation.Status == ValidationReject {
		return nil, &validation, fmt.Errorf("%s: %w", validation.Message, ErrValidationRejected)
	}
	return anchorID, &validation, nil
}
