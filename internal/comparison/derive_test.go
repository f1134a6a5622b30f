package comparison

import (
	"reflect"
	"testing"
	"time"

	"github.com/evalboard/evalboard/internal/domain"
)

func TestDeriveRows_OrderAndIdentity(t *testing.T) {
	edges := []Edge{
		testEdge("ex-1", "c1", RunGroupNode{ExperimentID: "exp-1", Runs: []domain.Run{testRun("exp-1", "ex-1", 1, time.Second)}}),
		testEdge("ex-2", "c2", RunGroupNode{ExperimentID: "exp-1", Runs: []domain.Run{testRun("exp-1", "ex-2", 1, time.Second)}}),
	}

	rows := DeriveRows(edges)

	if got, want := rowIDs(rows), []string{"ex-1", "ex-2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected row ids %v, got %v", want, got)
	}
	if rows[0].Input != "input ex-1" || rows[0].ReferenceOutput != "reference ex-1" {
		t.Errorf("example fields not carried over: %+v", rows[0])
	}
}

func TestDeriveRows_Idempotent(t *testing.T) {
	edges := []Edge{
		testEdge("ex-1", "c1", RunGroupNode{ExperimentID: "exp-1", Runs: []domain.Run{
			testRun("exp-1", "ex-1", 1, time.Second),
			testRun("exp-1", "ex-1", 2, 3*time.Second),
		}}),
	}

	first := DeriveRows(edges)
	second := DeriveRows(edges)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated derivation differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDeriveRows_PagewiseEqualsConcatenated(t *testing.T) {
	pageA := []Edge{
		testEdge("ex-1", "c1", RunGroupNode{ExperimentID: "exp-1", Runs: []domain.Run{testRun("exp-1", "ex-1", 1, time.Second)}}),
		testEdge("ex-2", "c2", RunGroupNode{ExperimentID: "exp-1", Runs: []domain.Run{testRun("exp-1", "ex-2", 1, time.Second)}}),
	}
	pageB := []Edge{
		testEdge("ex-3", "c3", RunGroupNode{ExperimentID: "exp-1", Runs: []domain.Run{testRun("exp-1", "ex-3", 1, time.Second)}}),
	}

	pagewise := append(DeriveRows(pageA), DeriveRows(pageB)...)
	concatenated := DeriveRows(append(append([]Edge{}, pageA...), pageB...))

	if !reflect.DeepEqual(pagewise, concatenated) {
		t.Errorf("pagewise derivation differs from concatenated derivation")
	}
}

func TestDeriveRows_SkipsIncompleteEdges(t *testing.T) {
	edges := []Edge{
		testEdge("ex-1", "c1"),
		{Cursor: "c2"}, // no example data yet
		testEdge("ex-3", "c3"),
	}

	rows := DeriveRows(edges)

	if got, want := rowIDs(rows), []string{"ex-1", "ex-3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected row ids %v, got %v", want, got)
	}
}

func TestDeriveRows_EmptyRunGroupAbsent(t *testing.T) {
	edges := []Edge{
		testEdge("ex-1", "c1",
			RunGroupNode{ExperimentID: "exp-1", Runs: []domain.Run{testRun("exp-1", "ex-1", 1, time.Second)}},
			RunGroupNode{ExperimentID: "exp-2"},
		),
	}

	rows := DeriveRows(edges)

	if _, ok := rows[0].GroupFor("exp-1"); !ok {
		t.Error("expected exp-1 group to be present")
	}
	if _, ok := rows[0].GroupFor("exp-2"); ok {
		t.Error("expected empty exp-2 group to be absent, not present")
	}
}

func TestDeriveRows_Aggregates(t *testing.T) {
	run1 := testRun("exp-1", "ex-1", 1, time.Second)
	run1.CostUSD = 0.25
	run2 := testRun("exp-1", "ex-1", 2, 3*time.Second)
	run2.TokensTotal = 300
	run2.CostUSD = 0.75

	rows := DeriveRows([]Edge{
		testEdge("ex-1", "c1", RunGroupNode{ExperimentID: "exp-1", Runs: []domain.Run{run1, run2}}),
	})

	group, ok := rows[0].GroupFor("exp-1")
	if !ok {
		t.Fatal("expected exp-1 group")
	}
	if group.AvgLatencyMS != 2000 {
		t.Errorf("expected avg latency 2000ms, got %v", group.AvgLatencyMS)
	}
	if group.TokensTotal != 400 {
		t.Errorf("expected 400 tokens, got %d", group.TokensTotal)
	}
	if group.CostUSD != 1.0 {
		t.Errorf("expected cost 1.0, got %v", group.CostUSD)
	}
}

func TestRunGroup_RunByRepetition(t *testing.T) {
	// Repetition 2 is missing; 3 must still resolve by number.
	group := domain.RunGroup{Runs: []domain.Run{
		testRun("exp-1", "ex-1", 1, time.Second),
		testRun("exp-1", "ex-1", 3, time.Second),
	}}

	if run, ok := group.RunByRepetition(3); !ok || run.RepetitionNumber != 3 {
		t.Errorf("expected repetition 3, got %+v (found %v)", run, ok)
	}
	if _, ok := group.RunByRepetition(2); ok {
		t.Error("expected repetition 2 to be absent")
	}
}
