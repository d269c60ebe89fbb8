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

// SuiteLinkService maintains the many-to-many grouping of test cases into
// suites. A pair exists at most once; unlinking one pair never touches any
// other membership of either side.
type SuiteLinkService interface {
	CreateSuite(ctx context.Context, tx *gorm.DB, name, description string) (*types.TestSuite, error)
	Link(ctx context.Context, tx *gorm.DB, testCaseID, suiteID uuid.UUID, addedMethod types.AddedMethod) (*types.CaseSuiteLink, error)
	Unlink(ctx context.Context, tx *gorm.DB, testCaseID, suiteID uuid.UUID) error
	ListCasesForSuite(ctx context.Context, tx *gorm.DB, suiteID uuid.UUID) ([]*types.CaseSuiteLink, error)
	ListSuitesForCase(ctx context.Context, tx *gorm.DB, testCaseID uuid.UUID) ([]*types.CaseSuiteLink, error)
}

type suiteLinkService struct {
	db        *gorm.DB
	log       *logger.Logger
	suiteRepo repos.TestSuiteRepo
	caseRepo  repos.TestCaseRepo
	linkRepo  repos.CaseSuiteLinkRepo
}

func NewSuiteLinkService(
	db *gorm.DB,
	baseLog *logger.Logger,
	suiteRepo repos.TestSuiteRepo,
	caseRepo repos.TestCaseRepo,
	linkRepo repos.CaseSuiteLinkRepo,
) SuiteLinkService {
	return &suiteLinkService{
		db:        db,
		log:       baseLog.With("service", "SuiteLinkService"),
		suiteRepo: suiteRepo,
		caseRepo:  caseRepo,
		linkRepo:  linkRepo,
	}
}

func (s *suiteLinkService) CreateSuite(ctx context.Context, tx *gorm.DB, name, description string) (*types.TestSuite, error) {
	if name == "" {
		return nil, fmt.Errorf("missing suite name")
	}
	suites, err := s.suiteRepo.Create(ctx, tx, []*types.TestSuite{{Name: name, Description: description}})
	if err != nil {
		return nil, MapStoreError(err)
	}
	return suites[0], nil
}

// Link creates the membership pair. Duplicate detection is delegated to the
// storage uniqueness constraint so two concurrent writers cannot both
// succeed; the loser surfaces ErrDuplicateAssociation.
func (s *suiteLinkService) Link(ctx context.Context, tx *gorm.DB, testCaseID, suiteID uuid.UUID, addedMethod types.AddedMethod) (*types.CaseSuiteLink, error) {
	if testCaseID == uuid.Nil || suiteID == uuid.Nil {
		return nil, fmt.Errorf("missing test case or suite id")
	}
	if addedMethod == "" {
		addedMethod = types.AddedManual
	}

	cases, err := s.caseRepo.GetByIDs(ctx, tx, []uuid.UUID{testCaseID})
	if err != nil {
		return nil, MapStoreError(err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("test case %s: %w", testCaseID, ErrNotFound)
	}
	suites, err := s.suiteRepo.GetByIDs(ctx, tx, []uuid.UUID{suiteID})
	if err != nil {
		return nil, MapStoreError(err)
	}
	if len(suites) == 0 {
		return nil, fmt.Errorf("suite %s: %w", suiteID, ErrNotFound)
	}

	link, err := s.linkRepo.Create(ctx, tx, &types.CaseSuiteLink{
		TestCaseID:  testCaseID,
		SuiteID:     suiteID,
		AddedMethod: addedMethod,
	})
	if err != nil {
		mapped := MapStoreError(err)
		s.log.Warn("Link: create failed", "error", err, "test_case_id", testCaseID, "suite_id", suiteID)
		return nil, mapped
	}
	return link, nil
}

func (s *suiteLinkService) Unlink(ctx context.Context, tx *gorm.DB, testCaseID, suiteID uuid.UUID) error {
	affected, err := s.linkRepo.DeleteByPair(ctx, tx, testCaseID, suiteID)
	if err != nil {
		return MapStoreError(err)
	}
	if affected == 0 {
		return fmt.Errorf("case %s in suite %s: %w", testCaseID, suiteID, ErrNotFound)
	}
	return nil
}

func (s *suiteLinkService) ListCasesForSuite(ctx context.Context, tx *gorm.DB, suiteID uuid.UUID) ([]*types.CaseSuiteLink, error) {
	links, err := s.linkRepo.GetBySuiteID(ctx, tx, suiteID)
	if err != nil {
		return nil, MapStoreError(err)
	}
	return links, nil
}

func (s *suiteLinkService) ListSuitesForCase(ctx context.Context, tx *gorm.DB, testCaseID uuid.UUID) ([]*types.CaseSuiteLink, error) {
	links, err := s.linkRepo.GetByTestCaseID(ctx, tx, testCaseID)
	if err != nil {
		return nil, MapStoreError(err)
	}
	return links, nil
}
