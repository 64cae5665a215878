package conformance

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRecordAndHistory(t *testing.T) {
	s := openTestStore(t)
	results := []Result{
		{Name: "a", Pass: true},
		{Name: "b", Pass: false, Detail: "T = string, want number"},
	}

	runID, err := s.RecordRun(results)
	if err != nil {
		t.Fatalf("record run: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].ID != runID || runs[0].Total != 2 || runs[0].Passed != 1 || runs[0].Failed != 1 {
		t.Errorf("run summary = %+v, want id=%s total=2 passed=1 failed=1", runs[0], runID)
	}
}

func TestStoreBaselineDiff(t *testing.T) {
	s := openTestStore(t)

	first := []Result{
		{Name: "a", Pass: true},
		{Name: "b", Pass: false},
	}
	diff, err := s.CompareBaseline(first)
	if err != nil {
		t.Fatalf("compare against empty baseline: %v", err)
	}
	if len(diff.New) != 2 || len(diff.Regressed) != 0 || len(diff.Fixed) != 0 {
		t.Errorf("diff = %+v, want everything new", diff)
	}

	if err := s.UpdateBaseline(first); err != nil {
		t.Fatalf("update baseline: %v", err)
	}

	second := []Result{
		{Name: "a", Pass: false}, // regression
		{Name: "b", Pass: true},  // fix
		{Name: "c", Pass: true},  // new
	}
	diff, err = s.CompareBaseline(second)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(diff.Regressed) != 1 || diff.Regressed[0] != "a" {
		t.Errorf("regressed = %v, want [a]", diff.Regressed)
	}
	if len(diff.Fixed) != 1 || diff.Fixed[0] != "b" {
		t.Errorf("fixed = %v, want [b]", diff.Fixed)
	}
	if len(diff.New) != 1 || diff.New[0] != "c" {
		t.Errorf("new = %v, want [c]", diff.New)
	}
}

func TestStoreUpdateBaselineReplaces(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpdateBaseline([]Result{{Name: "a", Pass: false}}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := s.UpdateBaseline([]Result{{Name: "a", Pass: true}}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	diff, err := s.CompareBaseline([]Result{{Name: "a", Pass: true}})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(diff.Regressed)+len(diff.Fixed)+len(diff.New) != 0 {
		t.Errorf("diff = %+v, want empty after matching baseline", diff)
	}
}
