package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/types"
)

type suggestionFixture struct {
	nodes   *fakeNodeRepo
	reqs    *fakeReqRepo
	items   *fakeItemRepo
	cases   *fakeCaseRepo
	plans   *fakePlanRepo
	decls   *fakeDeclRepo
	entries *fakeEntryRepo
	svc     SuggestionService
}

// newSuggestionFixture seeds one traced slice of the graph:
//
//	scenario SCN-01 > anchor L3-042 < requirement R-1 < development item D-9
//	TC-A anchored at L3-042, TC-B on R-1, TC-C on D-9, TC-D on orphan D-7
func newSuggestionFixture(t *testing.T) *suggestionFixture {
	t.Helper()
	f := &suggestionFixture{
		nodes:   &fakeNodeRepo{nodes: map[uuid.UUID]*types.ProcessNode{}},
		reqs:    &fakeReqRepo{reqs: map[uuid.UUID]*types.Requirement{}},
		items:   &fakeItemRepo{items: map[uuid.UUID]*types.DevelopmentItem{}},
		cases:   &fakeCaseRepo{cases: map[uuid.UUID]*types.TestCase{}},
		plans:   &fakePlanRepo{plans: map[uuid.UUID]*types.TestPlan{}},
		decls:   &fakeDeclRepo{},
		entries: &fakeEntryRepo{},
	}
	f.svc = NewSuggestionService(nil, testLogger(), f.nodes, f.reqs, f.items, f.cases, f.plans, f.decls, f.entries)

	f.nodes.nodes[uid(0x02)] = &types.ProcessNode{ID: uid(0x02), Code: "SCN-01", Level: types.LevelScenario}
	f.nodes.nodes[uid(0x03)] = &types.ProcessNode{ID: uid(0x03), Code: "L3-042", Level: types.LevelProcess, ParentID: uidPtr(0x02)}
	f.reqs.reqs[uid(0x11)] = &types.Requirement{ID: uid(0x11), Code: "R-1", AnchorID: uidPtr(0x03)}
	f.items.items[uid(0x21)] = &types.DevelopmentItem{ID: uid(0x21), Code: "D-9", RequirementID: uidPtr(0x11)}
	f.items.items[uid(0x22)] = &types.DevelopmentItem{ID: uid(0x22), Code: "D-7"}

	f.cases.cases[uid(0x41)] = &types.TestCase{ID: uid(0x41), Code: "TC-A", AnchorID: uidPtr(0x03)}
	f.cases.cases[uid(0x42)] = &types.TestCase{ID: uid(0x42), Code: "TC-B", RequirementID: uidPtr(0x11)}
	f.cases.cases[uid(0x43)] = &types.TestCase{ID: uid(0x43), Code: "TC-C", DevelopmentItemID: uidPtr(0x21)}
	f.cases.cases[uid(0x44)] = &types.TestCase{ID: uid(0x44), Code: "TC-D", DevelopmentItemID: uidPtr(0x22)}

	f.plans.plans[uid(0x61)] = &types.TestPlan{ID: uid(0x61), ProjectID: uid(0x60), Name: "Cycle 1"}
	return f
}

func (f *suggestionFixture) declare(t *testing.T, sourceType types.ScopeSourceType, sourceID uuid.UUID, code string) *types.ScopeDeclaration {
	t.Helper()
	decl, err := f.decls.Create(context.Background(), nil, &types.ScopeDeclaration{
		PlanID:     uid(0x61),
		SourceType: sourceType,
		SourceID:   sourceID,
		SourceCode: code,
	})
	if err != nil {
		t.Fatalf("seed declaration: %v", err)
	}
	return decl
}

func codes(suggestions []Suggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, sg := range suggestions {
		out = append(out, sg.TestCaseCode)
	}
	return out
}

func TestSuggestWithoutDeclarations(t *testing.T) {
	f := newSuggestionFixture(t)

	result, err := f.svc.SuggestCandidates(context.Background(), nil, uid(0x61))
	if err != nil {
		t.Fatalf("SuggestCandidates: %v", err)
	}
	if len(result.Suggestions) != 0 {
		t.Fatalf("got %d suggestions, want none", len(result.Suggestions))
	}
	if result.Message == "" {
		t.Fatal("empty scope should come back with guidance, not silence")
	}
}

func TestSuggestUnknownPlan(t *testing.T) {
	f := newSuggestionFixture(t)

	_, err := f.svc.SuggestCandidates(context.Background(), nil, uid(0x7f))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSuggestPerSourceType(t *testing.T) {
	cases := []struct {
		name       string
		sourceType types.ScopeSourceType
		sourceID   uuid.UUID
		code       string
		want       []string
	}{
		{
			name:       "development item traces its own cases",
			sourceType: types.ScopeSourceDevelopmentItem,
			sourceID:   uid(0x21),
			code:       "D-9",
			want:       []string{"TC-C"},
		},
		{
			name:       "requirement expands through its development item",
			sourceType: types.ScopeSourceRequirement,
			sourceID:   uid(0x11),
			code:       "R-1",
			want:       []string{"TC-B", "TC-C"},
		},
		{
			name:       "process anchor suggests direct matches only",
			sourceType: types.ScopeSourceProcessAnchor,
			sourceID:   uid(0x03),
			code:       "L3-042",
			want:       []string{"TC-A"},
		},
		{
			name:       "scenario expands every anchor underneath",
			sourceType: types.ScopeSourceScenario,
			sourceID:   uid(0x02),
			code:       "SCN-01",
			want:       []string{"TC-B", "TC-C"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSuggestionFixture(t)
			f.declare(t, tc.sourceType, tc.sourceID, tc.code)

			result, err := f.svc.SuggestCandidates(context.Background(), nil, uid(0x61))
			if err != nil {
				t.Fatalf("SuggestCandidates: %v", err)
			}
			if got := codes(result.Suggestions); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("suggested %v, want %v", got, tc.want)
			}
			for _, sg := range result.Suggestions {
				if sg.Reason == "" {
					t.Fatalf("suggestion %s carries no reason", sg.TestCaseCode)
				}
			}
		})
	}
}

func TestSuggestDeduplicatesAcrossDeclarations(t *testing.T) {
	f := newSuggestionFixture(t)
	reqDecl := f.declare(t, types.ScopeSourceRequirement, uid(0x11), "R-1")
	f.declare(t, types.ScopeSourceDevelopmentItem, uid(0x21), "D-9")

	result, err := f.svc.SuggestCandidates(context.Background(), nil, uid(0x61))
	if err != nil {
		t.Fatalf("SuggestCandidates: %v", err)
	}

	// TC-C is reachable through both declarations but shows up once, with
	// the first declaration's reason.
	if got := codes(result.Suggestions); !reflect.DeepEqual(got, []string{"TC-B", "TC-C"}) {
		t.Fatalf("suggested %v, want [TC-B TC-C]", got)
	}
	for _, sg := range result.Suggestions {
		if sg.TestCaseCode == "TC-C" && sg.DeclarationID != reqDecl.ID {
			t.Fatalf("TC-C attributed to declaration %s, want the first match %s", sg.DeclarationID, reqDecl.ID)
		}
	}
}

func TestSuggestFlagsCasesAlreadyInPlan(t *testing.T) {
	f := newSuggestionFixture(t)
	f.declare(t, types.ScopeSourceRequirement, uid(0x11), "R-1")
	if _, err := f.entries.Create(context.Background(), nil, &types.PlanCaseEntry{PlanID: uid(0x61), TestCaseID: uid(0x43)}); err != nil {
		t.Fatalf("seed plan entry: %v", err)
	}

	result, err := f.svc.SuggestCandidates(context.Background(), nil, uid(0x61))
	if err != nil {
		t.Fatalf("SuggestCandidates: %v", err)
	}
	if result.Total != 2 || result.NewCount != 1 || result.AlreadyInPlanCount != 1 {
		t.Fatalf("counts total=%d new=%d existing=%d, want 2/1/1", result.Total, result.NewCount, result.AlreadyInPlanCount)
	}
	for _, sg := range result.Suggestions {
		if sg.TestCaseCode == "TC-C" && !sg.AlreadyInPlan {
			t.Fatal("TC-C is in the plan but not flagged")
		}
		if sg.TestCaseCode == "TC-B" && sg.AlreadyInPlan {
			t.Fatal("TC-B flagged as in plan but is not")
		}
	}
}

func TestSuggestIsIdempotent(t *testing.T) {
	f := newSuggestionFixture(t)
	f.declare(t, types.ScopeSourceScenario, uid(0x02), "SCN-01")
	f.declare(t, types.ScopeSourceProcessAnchor, uid(0x03), "L3-042")

	first, err := f.svc.SuggestCandidates(context.Background(), nil, uid(0x61))
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := f.svc.SuggestCandidates(context.Background(), nil, uid(0x61))
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results diverge between calls:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestSuggestAnnotatesMissingSources(t *testing.T) {
	f := newSuggestionFixture(t)
	gone := f.declare(t, types.ScopeSourceRequirement, uid(0x7e), "R-GONE")
	f.declare(t, types.ScopeSourceDevelopmentItem, uid(0x21), "D-9")

	result, err := f.svc.SuggestCandidates(context.Background(), nil, uid(0x61))
	if err != nil {
		t.Fatalf("a stale declaration must not abort the whole suggestion run: %v", err)
	}
	if len(result.Issues) != 1 || result.Issues[0].DeclarationID != gone.ID {
		t.Fatalf("issues = %+v, want one for the stale declaration", result.Issues)
	}
	if got := codes(result.Suggestions); !reflect.DeepEqual(got, []string{"TC-C"}) {
		t.Fatalf("healthy declarations still trace: got %v", got)
	}
}
