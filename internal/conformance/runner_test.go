package conformance

import (
	"path/filepath"
	"strings"
	"testing"
)

func scenarioFromYAML(t *testing.T, body string) *Scenario {
	t.Helper()
	fixture := "-- case.yaml --\n" + body
	sc, err := ParseScenario("inline", []byte(fixture))
	if err != nil {
		t.Fatalf("parse scenario: %v", err)
	}
	return sc
}

func TestRunnerIdentityScenario(t *testing.T) {
	sc := scenarioFromYAML(t, `
name: identity
params:
  - name: T
steps:
  - source: "42"
    target: "T"
expect:
  T: number
`)
	res := NewRunner().Run(sc)
	if !res.Pass {
		t.Errorf("scenario failed: %s", res.Detail)
	}
}

func TestRunnerConstScenario(t *testing.T) {
	sc := scenarioFromYAML(t, `
name: const-literal
params:
  - name: T
    const: true
steps:
  - source: "42"
    target: "T"
expect:
  T: "42"
`)
	res := NewRunner().Run(sc)
	if !res.Pass {
		t.Errorf("scenario failed: %s", res.Detail)
	}
}

func TestRunnerBoundsViolationScenario(t *testing.T) {
	sc := scenarioFromYAML(t, `
name: bounds
params:
  - name: T
    constraint: string
steps:
  - source: number
    target: T
error: bounds-violation
`)
	res := NewRunner().Run(sc)
	if !res.Pass {
		t.Errorf("scenario failed: %s", res.Detail)
	}
}

func TestRunnerTwoRoundScenario(t *testing.T) {
	sc := scenarioFromYAML(t, `
name: two-round
params:
  - name: T
steps:
  - source: "1"
    target: T
  - fix: true
  - source: string
    target: T
    priority: return
expect:
  T: number
`)
	res := NewRunner().Run(sc)
	if !res.Pass {
		t.Errorf("scenario failed: %s", res.Detail)
	}
}

func TestRunnerTemplateScenario(t *testing.T) {
	sc := scenarioFromYAML(t, `
name: template-capture
params:
  - name: ID
    const: true
steps:
  - source: '"user_42"'
    target: '`+"`user_${infer ID}`"+`'
expect:
  ID: '"42"'
`)
	res := NewRunner().Run(sc)
	if !res.Pass {
		t.Errorf("scenario failed: %s", res.Detail)
	}
}

func TestRunnerOccursScenario(t *testing.T) {
	sc := scenarioFromYAML(t, `
name: recursive-context
params:
  - name: T
steps:
  - context: T[]
    param: T
error: occurs-check
`)
	res := NewRunner().Run(sc)
	if !res.Pass {
		t.Errorf("scenario failed: %s", res.Detail)
	}
}

func TestRunnerReportsMismatch(t *testing.T) {
	sc := scenarioFromYAML(t, `
name: mismatch
params:
  - name: T
steps:
  - source: string
    target: T
expect:
  T: number
`)
	res := NewRunner().Run(sc)
	if res.Pass {
		t.Fatal("scenario passed, want mismatch")
	}
	if !strings.Contains(res.Detail, "T = string, want number") {
		t.Errorf("detail = %q, want mismatch description", res.Detail)
	}
}

func TestShippedFixtures(t *testing.T) {
	results, err := NewRunner().RunGlobs([]string{"../../testdata/conformance/*.txtar"})
	if err != nil {
		t.Fatalf("run fixtures: %v", err)
	}
	for _, res := range results {
		if !res.Pass {
			t.Errorf("%s failed: %s", res.Name, res.Detail)
		}
	}
}

func TestScenarioValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", "params:\n  - name: T\nexpect:\n  T: string\n"},
		{"no params", "name: x\nexpect:\n  T: string\n"},
		{"no expectations", "name: x\nparams:\n  - name: T\n"},
		{"half step", "name: x\nparams:\n  - name: T\nsteps:\n  - source: string\nexpect:\n  T: string\n"},
		{"bad priority", "name: x\nparams:\n  - name: T\nsteps:\n  - source: string\n    target: T\n    priority: bogus\nexpect:\n  T: string\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScenario("inline", []byte("-- case.yaml --\n"+tt.body)); err == nil {
				t.Error("scenario parsed, want validation error")
			}
		})
	}
}

func TestWriteFixtureRoundTrip(t *testing.T) {
	sc := &Scenario{
		Name:   "written",
		Params: []ParamSpec{{Name: "T", Const: true}},
		Steps:  []StepSpec{{Source: `"a"`, Target: "T"}},
		Expect: map[string]string{"T": `"a"`},
	}
	path := filepath.Join(t.TempDir(), "written.txtar")
	if err := WriteFixture(path, sc); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loaded, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if loaded.Name != sc.Name || len(loaded.Steps) != 1 || loaded.Expect["T"] != `"a"` {
		t.Errorf("loaded = %+v, want %+v", loaded, sc)
	}
	if res := NewRunner().Run(loaded); !res.Pass {
		t.Errorf("round-tripped scenario failed: %s", res.Detail)
	}
}

func TestParseScenarioRequiresMember(t *testing.T) {
	if _, err := ParseScenario("inline", []byte("-- other.txt --\nnope\n")); err == nil {
		t.Error("fixture without case.yaml parsed")
	}
}
