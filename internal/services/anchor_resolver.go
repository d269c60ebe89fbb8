package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/repos"
	"github.com/testbridge/testbridge-backend/internal/types"
)

// AnchorRefs is the set of references a test case may carry. Any subset may
// be present; resolution tries them in a fixed priority order.
type AnchorRefs struct {
	NodeID            *uuid.UUID `json:"node_id,omitempty"`
	DevelopmentItemID *uuid.UUID `json:"development_item_id,omitempty"`
	RequirementID     *uuid.UUID `json:"requirement_id,omitempty"`
}

// AnchorResolverService resolves a reference set to the canonical level-3
// process node. A nil result with a nil error is a resolution miss, which is
// a normal outcome, not a failure.
type AnchorResolverService interface {
	ResolveAnchor(ctx context.Context, tx *gorm.DB, refs AnchorRefs) (*uuid.UUID, error)
}

// resolveStrategy tries one reference path. Returning (nil, nil) means "no
// match from this path" and the resolver falls through to the next strategy.
type resolveStrategy func(ctx context.Context, tx *gorm.DB, refs AnchorRefs) (*uuid.UUID, error)

type anchorResolverService struct {
	db         *gorm.DB
	log        *logger.Logger
	nodeRepo   repos.ProcessNodeRepo
	stepRepo   repos.ProcessStepRepo
	reqRepo    repos.RequirementRepo
	itemRepo   repos.DevelopmentItemRepo
	strategies []resolveStrategy
}

func NewAnchorResolverService(
	db *gorm.DB,
	baseLog *logger.Logger,
	nodeRepo repos.ProcessNodeRepo,
	stepRepo repos.ProcessStepRepo,
	reqRepo repos.RequirementRepo,
	itemRepo repos.DevelopmentItemRepo,
) AnchorResolverService {
	s := &anchorResolverService{
		db:       db,
		log:      baseLog.With("service", "AnchorResolverService"),
		nodeRepo: nodeRepo,
		stepRepo: stepRepo,
		reqRepo:  reqRepo,
		itemRepo: itemRepo,
	}
	// Priority order is fixed: explicit node beats development item beats
	// requirement. New reference types slot in without touching these.
	s.strategies = []resolveStrategy{
		s.fromNode,
		s.fromDevelopmentItem,
		s.fromRequirement,
	}
	return s
}

func (s *anchorResolverService) ResolveAnchor(ctx context.Context, tx *gorm.DB, refs AnchorRefs) (*uuid.UUID, error) {
	for _, strategy := range s.strategies {
		anchorID, err := strategy(ctx, tx, refs)
		if err != nil {
			return nil, err
		}
		if anchorID != nil {
			return anchorID, nil
		}
	}
	return nil, nil
}

func (s *anchorResolverService) fromNode(ctx context.Context, tx *gorm.DB, refs AnchorRefs) (*uuid.UUID, error) {
	if refs.NodeID == nil {
		return nil, nil
	}
	return s.walkToAnchor(ctx, tx, *refs.NodeID)
}

func (s *anchorResolverService) fromDevelopmentItem(ctx context.Context, tx *gorm.DB, refs AnchorRefs) (*uuid.UUID, error) {
	if refs.DevelopmentItemID == nil {
		return nil, nil
	}

	items, err := s.itemRepo.GetByIDs(ctx, tx, []uuid.UUID{*refs.DevelopmentItemID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 || items[0].RequirementID == nil {
		return nil, nil
	}
	return s.resolveRequirement(ctx, tx, *items[0].RequirementID)
}

func (s *anchorResolverService) fromRequirement(ctx context.Context, tx *gorm.DB, refs AnchorRefs) (*uuid.UUID, error) {
	if refs.RequirementID == nil {
		return nil, nil
	}
	return s.resolveRequirement(ctx, tx, *refs.RequirementID)
}

func (s *anchorResolverService) resolveRequirement(ctx context.Context, tx *gorm.DB, requirementID uuid.UUID) (*uuid.UUID, error) {
	reqs, err := s.reqRepo.GetByIDs(ctx, tx, []uuid.UUID{requirementID})
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}
	req := reqs[0]

	if req.AnchorID != nil {
		return s.walkToAnchor(ctx, tx, *req.AnchorID)
	}

	if req.ProcessStepID != nil {
		steps, err := s.stepRepo.GetByIDs(ctx, tx, []uuid.UUID{*req.ProcessStepID})
		if err != nil {
			return nil, err
		}
		if len(steps) == 0 {
			return nil, nil
		}
		return s.walkToAnchor(ctx, tx, steps[0].NodeID)
	}

	return nil, nil
}

// walkToAnchor follows parent_id upward until a level-3 node is reached.
// The visited set guards against malformed graphs: a cycle or an exhausted
// chain is a miss from this path, never an error or an unbounded loop.
func (s *anchorResolverService) walkToAnchor(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) (*uuid.UUID, error) {
	visited := map[uuid.UUID]bool{}
	current := nodeID

	for !visited[current] {
		visited[current] = true

		nodes, err := s.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{current})
		if err != nil {
			return nil, err
		}
		if len(nodes) == 0 {
			return nil, nil
		}
		node := nodes[0]

		if node.Level == types.LevelProcess {
			anchorID := node.ID
			return &anchorID, nil
		}
		if node.ParentID == nil {
			return nil, nil
		}
		current = *node.ParentID
	}

	s.log.Warn("Cycle detected in process hierarchy, treating as unresolved", "node_id", nodeID)
	return nil, nil
}
