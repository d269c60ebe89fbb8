package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/types"
)

type resolverFixture struct {
	nodes *fakeNodeRepo
	steps *fakeStepRepo
	reqs  *fakeReqRepo
	items *fakeItemRepo
	svc   AnchorResolverService
}

// newResolverFixture seeds a small hierarchy:
//
//	E2E (level 1) > SCN (level 2) > PRC "L3-042" (level 3) > SUB (level 4)
func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	f := &resolverFixture{
		nodes: &fakeNodeRepo{nodes: map[uuid.UUID]*types.ProcessNode{}},
		steps: &fakeStepRepo{steps: map[uuid.UUID]*types.ProcessStep{}},
		reqs:  &fakeReqRepo{reqs: map[uuid.UUID]*types.Requirement{}},
		items: &fakeItemRepo{items: map[uuid.UUID]*types.DevelopmentItem{}},
	}
	f.svc = NewAnchorResolverService(nil, testLogger(), f.nodes, f.steps, f.reqs, f.items)

	f.nodes.nodes[uid(0x01)] = &types.ProcessNode{ID: uid(0x01), Code: "E2E-01", Level: types.LevelEndToEnd}
	f.nodes.nodes[uid(0x02)] = &types.ProcessNode{ID: uid(0x02), Code: "SCN-01", Level: types.LevelScenario, ParentID: uidPtr(0x01)}
	f.nodes.nodes[uid(0x03)] = &types.ProcessNode{ID: uid(0x03), Code: "L3-042", Level: types.LevelProcess, ParentID: uidPtr(0x02)}
	f.nodes.nodes[uid(0x04)] = &types.ProcessNode{ID: uid(0x04), Code: "SUB-01", Level: types.LevelSubProcess, ParentID: uidPtr(0x03)}
	return f
}

func TestResolveAnchorFromNode(t *testing.T) {
	f := newResolverFixture(t)

	cases := []struct {
		name   string
		nodeID uuid.UUID
		want   *uuid.UUID
	}{
		{name: "level 3 node resolves to itself", nodeID: uid(0x03), want: uidPtr(0x03)},
		{name: "level 4 node walks up to its parent", nodeID: uid(0x04), want: uidPtr(0x03)},
		{name: "level 2 node never reaches level 3 walking up", nodeID: uid(0x02), want: nil},
		{name: "level 1 node has no chain at all", nodeID: uid(0x01), want: nil},
		{name: "unknown node is a miss, not an error", nodeID: uid(0x7f), want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.svc.ResolveAnchor(context.Background(), nil, AnchorRefs{NodeID: &tc.nodeID})
			if err != nil {
				t.Fatalf("ResolveAnchor: %v", err)
			}
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestResolveAnchorCycleIsAMiss(t *testing.T) {
	f := newResolverFixture(t)
	f.nodes.nodes[uid(0x0a)] = &types.ProcessNode{ID: uid(0x0a), Code: "CYC-A", Level: types.LevelSubProcess, ParentID: uidPtr(0x0b)}
	f.nodes.nodes[uid(0x0b)] = &types.ProcessNode{ID: uid(0x0b), Code: "CYC-B", Level: types.LevelSubProcess, ParentID: uidPtr(0x0a)}

	start := uid(0x0a)
	got, err := f.svc.ResolveAnchor(context.Background(), nil, AnchorRefs{NodeID: &start})
	if err != nil {
		t.Fatalf("ResolveAnchor on a cyclic chain: %v", err)
	}
	if got != nil {
		t.Fatalf("cyclic chain resolved to %s, want nil", got)
	}
}

func TestResolveAnchorViaRequirement(t *testing.T) {
	f := newResolverFixture(t)
	f.steps.steps[uid(0x31)] = &types.ProcessStep{ID: uid(0x31), Code: "STP-01", NodeID: uid(0x04)}
	f.reqs.reqs[uid(0x11)] = &types.Requirement{ID: uid(0x11), Code: "R-1", AnchorID: uidPtr(0x03)}
	f.reqs.reqs[uid(0x12)] = &types.Requirement{ID: uid(0x12), Code: "R-2", ProcessStepID: uidPtr(0x31)}
	f.reqs.reqs[uid(0x13)] = &types.Requirement{ID: uid(0x13), Code: "R-3"}

	cases := []struct {
		name  string
		reqID uuid.UUID
		want  *uuid.UUID
	}{
		{name: "mapped directly to the anchor", reqID: uid(0x11), want: uidPtr(0x03)},
		{name: "mapped via process step under the sub-process", reqID: uid(0x12), want: uidPtr(0x03)},
		{name: "no mapping at all", reqID: uid(0x13), want: nil},
		{name: "unknown requirement", reqID: uid(0x7f), want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.svc.ResolveAnchor(context.Background(), nil, AnchorRefs{RequirementID: &tc.reqID})
			if err != nil {
				t.Fatalf("ResolveAnchor: %v", err)
			}
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestResolveAnchorViaDevelopmentItem(t *testing.T) {
	f := newResolverFixture(t)
	f.reqs.reqs[uid(0x11)] = &types.Requirement{ID: uid(0x11), Code: "R-1", AnchorID: uidPtr(0x03)}
	f.items.items[uid(0x21)] = &types.DevelopmentItem{ID: uid(0x21), Code: "D-9", RequirementID: uidPtr(0x11)}
	f.items.items[uid(0x22)] = &types.DevelopmentItem{ID: uid(0x22), Code: "D-7"}

	itemID := uid(0x21)
	got, err := f.svc.ResolveAnchor(context.Background(), nil, AnchorRefs{DevelopmentItemID: &itemID})
	if err != nil {
		t.Fatalf("ResolveAnchor: %v", err)
	}
	if got == nil || *got != uid(0x03) {
		t.Fatalf("item with requirement chain: got %v, want %s", got, uid(0x03))
	}

	orphanID := uid(0x22)
	got, err = f.svc.ResolveAnchor(context.Background(), nil, AnchorRefs{DevelopmentItemID: &orphanID})
	if err != nil {
		t.Fatalf("ResolveAnchor: %v", err)
	}
	if got != nil {
		t.Fatalf("item without requirement resolved to %s, want nil", got)
	}
}

func TestResolveAnchorPriorityOrder(t *testing.T) {
	f := newResolverFixture(t)
	// A second anchor the requirement path would land on.
	f.nodes.nodes[uid(0x05)] = &types.ProcessNode{ID: uid(0x05), Code: "L3-099", Level: types.LevelProcess, ParentID: uidPtr(0x02)}
	f.reqs.reqs[uid(0x11)] = &types.Requirement{ID: uid(0x11), Code: "R-1", AnchorID: uidPtr(0x05)}

	nodeID := uid(0x04)
	reqID := uid(0x11)
	got, err := f.svc.ResolveAnchor(context.Background(), nil, AnchorRefs{NodeID: &nodeID, RequirementID: &reqID})
	if err != nil {
		t.Fatalf("ResolveAnchor: %v", err)
	}
	if got == nil || *got != uid(0x03) {
		t.Fatalf("node reference should win over requirement: got %v, want %s", got, uid(0x03))
	}
}

func TestResolveAnchorDeterministic(t *testing.T) {
	f := newResolverFixture(t)
	f.reqs.reqs[uid(0x11)] = &types.Requirement{ID: uid(0x11), Code: "R-1", AnchorID: uidPtr(0x03)}
	f.items.items[uid(0x21)] = &types.DevelopmentItem{ID: uid(0x21), Code: "D-9", RequirementID: uidPtr(0x11)}

	itemID := uid(0x21)
	refs := AnchorRefs{DevelopmentItemID: &itemID}
	first, err := f.svc.ResolveAnchor(context.Background(), nil, refs)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := f.svc.ResolveAnchor(context.Background(), nil, refs)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first == nil || second == nil || *first != *second {
		t.Fatalf("resolution not stable: first %v, second %v", first, second)
	}
}
