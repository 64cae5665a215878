package conformance

import (
	"bytes"
	"testing"
)

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]byte("fixtures:\n  - testdata/*.txtar\ndatabase: results.db\n"))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if len(cfg.Fixtures) != 1 || cfg.Fixtures[0] != "testdata/*.txtar" {
		t.Errorf("fixtures = %v", cfg.Fixtures)
	}
	if cfg.Database != "results.db" {
		t.Errorf("database = %q, want results.db", cfg.Database)
	}
}

func TestParseConfigDefaultsDatabase(t *testing.T) {
	cfg, err := parseConfig([]byte("fixtures: [cases/*.txtar]\n"))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Database != "conformance.db" {
		t.Errorf("database = %q, want default", cfg.Database)
	}
}

func TestParseConfigRequiresFixtures(t *testing.T) {
	if _, err := parseConfig([]byte("database: x.db\n")); err == nil {
		t.Error("config without fixtures parsed")
	}
}

func TestReporterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	failed := r.Report([]Result{
		{Name: "good", Pass: true},
		{Name: "bad", Pass: false, Detail: "T = string, want number"},
	})
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	out := buf.String()
	for _, want := range []string{"ok   good", "FAIL bad", "T = string, want number", "2 cases, 1 failed"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if bytes.Contains([]byte(out), []byte("\x1b[")) {
		t.Error("non-terminal output contains color codes")
	}
}

func TestReporterBaselineDiff(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.ReportBaselineDiff(BaselineDiff{
		Regressed: []string{"a"},
		Fixed:     []string{"b"},
		New:       []string{"c"},
	})
	out := buf.String()
	for _, want := range []string{"regressed a", "fixed     b", "new       c"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
