package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/repos"
	"github.com/testbridge/testbridge-backend/internal/types"
)

// declTracer is the forward-trace core shared by the suggestion engine and
// the coverage aggregator: it expands a scope declaration (or a bare anchor)
// into the test cases that satisfy it. Read-only.
type declTracer struct {
	nodeRepo repos.ProcessNodeRepo
	reqRepo  repos.RequirementRepo
	itemRepo repos.DevelopmentItemRepo
	caseRepo repos.TestCaseRepo
}

// traceDeclaration returns the cases reachable from one declaration.
// sourceMissing reports that the declared source entity no longer exists, so
// callers can annotate instead of aborting.
func (t *declTracer) traceDeclaration(ctx context.Context, tx *gorm.DB, decl *types.ScopeDeclaration) (cases []*types.TestCase, sourceMissing bool, err error) {
	switch decl.SourceType {
	case types.ScopeSourceDevelopmentItem:
		items, err := t.itemRepo.GetByIDs(ctx, tx, []uuid.UUID{decl.SourceID})
		if err != nil {
			return nil, false, err
		}
		if len(items) == 0 {
			return nil, true, nil
		}
		cases, err := t.caseRepo.GetByDevelopmentItemIDs(ctx, tx, []uuid.UUID{decl.SourceID})
		return cases, false, err

	case types.ScopeSourceRequirement:
		reqs, err := t.reqRepo.GetByIDs(ctx, tx, []uuid.UUID{decl.SourceID})
		if err != nil {
			return nil, false, err
		}
		if len(reqs) == 0 {
			return nil, true, nil
		}
		cases, err := t.traceRequirement(ctx, tx, reqs[0])
		return cases, false, err

	case types.ScopeSourceProcessAnchor:
		nodes, err := t.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{decl.SourceID})
		if err != nil {
			return nil, false, err
		}
		if len(nodes) == 0 {
			return nil, true, nil
		}
		// Direct anchor matches only: requirement-delivered coverage of the
		// anchor is the aggregator's expansion, not a suggestion.
		cases, err := t.caseRepo.GetByAnchorIDs(ctx, tx, []uuid.UUID{decl.SourceID})
		return cases, false, err

	case types.ScopeSourceScenario:
		nodes, err := t.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{decl.SourceID})
		if err != nil {
			return nil, false, err
		}
		if len(nodes) == 0 {
			return nil, true, nil
		}
		cases, err := t.traceScenario(ctx, tx, decl.SourceID)
		return cases, false, err
	}

	return nil, false, nil
}

// traceRequirement applies the requirement expansion: cases linked to the
// requirement itself, plus cases delivered through its development item(s).
func (t *declTracer) traceRequirement(ctx context.Context, tx *gorm.DB, req *types.Requirement) ([]*types.TestCase, error) {
	cases, err := t.caseRepo.GetByRequirementIDs(ctx, tx, []uuid.UUID{req.ID})
	if err != nil {
		return nil, err
	}

	itemIDs := map[uuid.UUID]bool{}
	if req.DevelopmentItemID != nil {
		itemIDs[*req.DevelopmentItemID] = true
	}
	backLinked, err := t.itemRepo.GetByRequirementIDs(ctx, tx, []uuid.UUID{req.ID})
	if err != nil {
		return nil, err
	}
	for _, item := range backLinked {
		itemIDs[item.ID] = true
	}

	if len(itemIDs) > 0 {
		ids := make([]uuid.UUID, 0, len(itemIDs))
		for id := range itemIDs {
			ids = append(ids, id)
		}
		viaItems, err := t.caseRepo.GetByDevelopmentItemIDs(ctx, tx, ids)
		if err != nil {
			return nil, err
		}
		cases = append(cases, viaItems...)
	}
	return cases, nil
}

// traceScenario expands a level-2 scenario: every level-3 node under it,
// every requirement mapped to each, then the requirement expansion.
func (t *declTracer) traceScenario(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) ([]*types.TestCase, error) {
	children, err := t.nodeRepo.GetChildren(ctx, tx, scenarioID, types.LevelProcess)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}

	anchorIDs := make([]uuid.UUID, 0, len(children))
	for _, child := range children {
		anchorIDs = append(anchorIDs, child.ID)
	}

	reqs, err := t.reqRepo.GetByAnchorIDs(ctx, tx, anchorIDs)
	if err != nil {
		return nil, err
	}

	var cases []*types.TestCase
	for _, req := range reqs {
		viaReq, err := t.traceRequirement(ctx, tx, req)
		if err != nil {
			return nil, err
		}
		cases = append(cases, viaReq...)
	}
	return cases, nil
}

// traceAnchor is the coverage-side expansion for one anchor: directly
// anchored cases plus everything delivered through requirements mapped to
// the anchor and their development items.
func (t *declTracer) traceAnchor(ctx context.Context, tx *gorm.DB, anchorID uuid.UUID) ([]*types.TestCase, error) {
	cases, err := t.caseRepo.GetByAnchorIDs(ctx, tx, []uuid.UUID{anchorID})
	if err != nil {
		return nil, err
	}

	reqs, err := t.reqRepo.GetByAnchorIDs(ctx, tx, []uuid.UUID{anchorID})
	if err != nil {
		return nil, err
	}
	for _, req := range reqs {
		viaReq, err := t.traceRequirement(ctx, tx, req)
		if err != nil {
			return nil, err
		}
		cases = append(cases, viaReq...)
	}
	return cases, nil
}

// dedupCases collapses duplicate discoveries across traversal paths. First
// occurrence wins, so the first path to find a case keeps its reason.
func dedupCases(cases []*types.TestCase) []*types.TestCase {
	seen := map[uuid.UUID]bool{}
	out := make([]*types.TestCase, 0, len(cases))
	for _, tc := range cases {
		if tc == nil || seen[tc.ID] {
			continue
		}
		seen[tc.ID] = true
		out = append(out, tc)
	}
	return out
}
