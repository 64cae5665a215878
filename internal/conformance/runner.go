package conformance

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/tycho-lang/tycho/internal/config"
	"github.com/tycho-lang/tycho/internal/infer"
	"github.com/tycho-lang/tycho/internal/typeexpr"
	"github.com/tycho-lang/tycho/internal/types"
)

// Result is the outcome of one scenario.
type Result struct {
	Name   string
	Pass   bool
	Detail string // human-readable mismatch description, empty on pass
}

// Runner executes scenarios against fresh inference contexts.
type Runner struct {
	dump *spew.ConfigState
}

func NewRunner() *Runner {
	return &Runner{
		dump: &spew.ConfigState{Indent: "  ", SortKeys: true, DisableMethods: true},
	}
}

// RunGlobs loads every fixture matched by the globs and runs it.
func (r *Runner) RunGlobs(globs []string) ([]Result, error) {
	var paths []string
	for _, glob := range globs {
		matched, err := filepath.Glob(glob)
		if err != nil {
			return nil, fmt.Errorf("bad fixture glob %q: %w", glob, err)
		}
		for _, path := range matched {
			if filepath.Ext(path) == config.FixtureFileExt {
				paths = append(paths, path)
			}
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no fixtures matched")
	}

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		sc, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		results = append(results, r.Run(sc))
	}
	return results, nil
}

// Run executes one scenario and compares the outcome with its
// expectations.
func (r *Runner) Run(sc *Scenario) Result {
	got, err := r.Solve(sc)
	if err != nil {
		if pe, ok := err.(*scenarioError); ok {
			return Result{Name: sc.Name, Detail: pe.msg}
		}
		return r.solverOutcome(sc, nil, err)
	}
	return r.solverOutcome(sc, got, nil)
}

// scenarioError marks fixture problems (bad type expressions) as
// opposed to solver outcomes a scenario may expect.
type scenarioError struct {
	msg string
}

func (e *scenarioError) Error() string { return e.msg }

// Solve executes the scenario's steps and returns the formatted
// substitution, ignoring the scenario's expectations. Solver failures
// (conflicts, bound violations, occurs failures) come back as errors.
func (r *Runner) Solve(sc *Scenario) (map[string]string, error) {
	in := types.NewInterner()
	ctx := infer.NewContext(in)

	scope := make(map[string]types.TypeID, len(sc.Params))
	vars := make(map[string]infer.Var, len(sc.Params))
	for _, p := range sc.Params {
		v := ctx.FreshTypeParam(p.Name, p.Const)
		vars[p.Name] = v
		scope[p.Name] = in.NewTypeParameter(types.TypeParamInfo{Name: p.Name, IsConst: p.Const})
	}
	// Constraints parse after the full scope exists so parameters can
	// reference each other.
	for _, p := range sc.Params {
		if p.Constraint == "" {
			continue
		}
		bound, err := typeexpr.ParseWith(in, p.Constraint, scope)
		if err != nil {
			return nil, &scenarioError{msg: fmt.Sprintf("constraint of %s: %v", p.Name, err)}
		}
		ctx.AddUpperBound(vars[p.Name], bound)
	}

	for i, step := range sc.Steps {
		switch {
		case step.Fix:
			if err := ctx.FixCurrentVariables(); err != nil {
				return nil, err
			}
		case step.Context != "":
			contextType, err := typeexpr.ParseWith(in, step.Context, scope)
			if err != nil {
				return nil, &scenarioError{msg: fmt.Sprintf("step %d context: %v", i, err)}
			}
			if err := ctx.InferFromContext(vars[step.Param], contextType); err != nil {
				return nil, err
			}
		default:
			source, err := typeexpr.ParseWith(in, step.Source, scope)
			if err != nil {
				return nil, &scenarioError{msg: fmt.Sprintf("step %d source: %v", i, err)}
			}
			target, err := typeexpr.ParseWith(in, step.Target, scope)
			if err != nil {
				return nil, &scenarioError{msg: fmt.Sprintf("step %d target: %v", i, err)}
			}
			if err := ctx.InferFromTypes(source, target, stepPriorities[step.Priority]); err != nil {
				return nil, err
			}
		}
	}

	bindings, err := ctx.ResolveAllWithConstraints()
	if err != nil {
		return nil, err
	}
	if err := ctx.ValidateVariance(); err != nil {
		return nil, err
	}

	got := make(map[string]string, len(bindings))
	for _, b := range bindings {
		got[b.Name] = types.FormatType(in, b.Type)
	}
	return got, nil
}

// solverOutcome grades a finished solve (or a solver error) against
// the scenario's expectations.
func (r *Runner) solverOutcome(sc *Scenario, got map[string]string, err error) Result {
	if sc.Error != "" {
		if err == nil {
			return r.fail(sc, "expected %s error, solve succeeded with %s", sc.Error, r.dump.Sdump(got))
		}
		kind := errorKind(err)
		if kind != sc.Error {
			return r.fail(sc, "expected %s error, got %s: %v", sc.Error, kind, err)
		}
		return Result{Name: sc.Name, Pass: true}
	}

	if err != nil {
		return r.fail(sc, "solve failed: %v", err)
	}
	var mismatches []string
	for name, want := range sc.Expect {
		if got[name] != want {
			mismatches = append(mismatches, fmt.Sprintf("%s = %s, want %s", name, got[name], want))
		}
	}
	if len(mismatches) > 0 {
		sort.Strings(mismatches)
		return r.fail(sc, "%s\nresolved:\n%s", strings.Join(mismatches, "\n"), r.dump.Sdump(got))
	}
	return Result{Name: sc.Name, Pass: true}
}

func (r *Runner) fail(sc *Scenario, format string, args ...interface{}) Result {
	return Result{Name: sc.Name, Detail: fmt.Sprintf(format, args...)}
}

func errorKind(err error) string {
	var (
		conflict *infer.ConflictError
		unres    *infer.UnresolvedError
		occurs   *infer.OccursCheckError
		bounds   *infer.BoundsViolationError
		variance *infer.VarianceViolationError
	)
	switch {
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &unres):
		return "unresolved"
	case errors.As(err, &occurs):
		return "occurs-check"
	case errors.As(err, &bounds):
		return "bounds-violation"
	case errors.As(err, &variance):
		return "variance-violation"
	default:
		return "unknown"
	}
}
