package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const passingFixture = `-- case.yaml --
name: identity
params:
  - name: T
steps:
  - source: "42"
    target: T
expect:
  T: number
`

const failingFixture = `-- case.yaml --
name: wrong
params:
  - name: T
steps:
  - source: string
    target: T
expect:
  T: number
`

func writeSuite(t *testing.T, fixture string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "case.txtar"), []byte(fixture), 0644); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(dir, "conformance.yaml")
	config := "fixtures:\n  - " + filepath.Join(dir, "*.txtar") + "\ndatabase: " + filepath.Join(dir, "results.db") + "\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestRunConformancePassing(t *testing.T) {
	configPath := writeSuite(t, passingFixture)
	if code := Run([]string{"conformance", "run", "-config", configPath}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunConformanceFailing(t *testing.T) {
	configPath := writeSuite(t, failingFixture)
	if code := Run([]string{"conformance", "run", "-config", configPath}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunConformanceUpdateAndHistory(t *testing.T) {
	configPath := writeSuite(t, passingFixture)
	if code := Run([]string{"conformance", "update", "-config", configPath}); code != 0 {
		t.Errorf("update exit code = %d, want 0", code)
	}
	if code := Run([]string{"conformance", "history", "-config", configPath}); code != 0 {
		t.Errorf("history exit code = %d, want 0", code)
	}
}

func TestRunSolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.txtar")
	if err := os.WriteFile(path, []byte(passingFixture), 0644); err != nil {
		t.Fatal(err)
	}
	if code := Run([]string{"solve", path}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	if code := Run([]string{"frobnicate"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	if code := Run(nil); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
