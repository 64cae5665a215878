package conformance

import (
	"fmt"
	"os"

	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/tycho-lang/tycho/internal/config"
	"github.com/tycho-lang/tycho/internal/infer"
)

// Scenario is one recorded inference case.
type Scenario struct {
	// Name identifies the case in reports and in the results store.
	Name string `yaml:"name"`

	// Params declares the type parameters under inference.
	Params []ParamSpec `yaml:"params"`

	// Steps run in order against a fresh inference context.
	Steps []StepSpec `yaml:"steps"`

	// Expect maps parameter names to their expected formatted
	// resolutions. Mutually exclusive with Error.
	Expect map[string]string `yaml:"expect,omitempty"`

	// Error names the expected failure kind: conflict, unresolved,
	// occurs-check, bounds-violation.
	Error string `yaml:"error,omitempty"`
}

// ParamSpec declares one type parameter.
type ParamSpec struct {
	Name string `yaml:"name"`

	// Const preserves literal candidates, like a const type parameter.
	Const bool `yaml:"const,omitempty"`

	// Constraint is a type expression added as an upper bound.
	Constraint string `yaml:"constraint,omitempty"`
}

// StepSpec is one action against the context. Exactly one form is
// used per step.
type StepSpec struct {
	// Source/Target run structural inference from an argument type to
	// a parameter type.
	Source string `yaml:"source,omitempty"`
	Target string `yaml:"target,omitempty"`

	// Priority tags the observation; empty means the default direct
	// priority. One of: naked, mapped, contravariant-conditional,
	// return, low, circular.
	Priority string `yaml:"priority,omitempty"`

	// Context adds an expected type as an upper bound on one
	// parameter.
	Context string `yaml:"context,omitempty"`
	Param   string `yaml:"param,omitempty"`

	// Fix commits round-one variables before contextual steps.
	Fix bool `yaml:"fix,omitempty"`
}

var stepPriorities = map[string]infer.Priority{
	"":                          infer.PriorityNakedTypeVariable,
	"naked":                     infer.PriorityNakedTypeVariable,
	"homomorphic-mapped":        infer.PriorityHomomorphicMappedType,
	"partial-mapped":            infer.PriorityPartialHomomorphicMappedType,
	"mapped":                    infer.PriorityMappedType,
	"contravariant-conditional": infer.PriorityContravariantConditional,
	"return":                    infer.PriorityReturnType,
	"low":                       infer.PriorityLowPriority,
	"circular":                  infer.PriorityCircular,
}

// LoadScenario reads a txtar fixture file and decodes its case.yaml
// member.
func LoadScenario(path string) (*Scenario, error) {
	archive, err := txtar.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return scenarioFromArchive(path, archive)
}

// ParseScenario decodes a fixture from raw txtar bytes.
func ParseScenario(name string, data []byte) (*Scenario, error) {
	return scenarioFromArchive(name, txtar.Parse(data))
}

func scenarioFromArchive(path string, archive *txtar.Archive) (*Scenario, error) {
	for _, file := range archive.Files {
		if file.Name != config.ScenarioFileName {
			continue
		}
		var sc Scenario
		if err := yaml.Unmarshal(file.Data, &sc); err != nil {
			return nil, fmt.Errorf("decode %s in %s: %w", config.ScenarioFileName, path, err)
		}
		if err := sc.validate(); err != nil {
			return nil, fmt.Errorf("fixture %s: %w", path, err)
		}
		return &sc, nil
	}
	return nil, fmt.Errorf("fixture %s has no %s member", path, config.ScenarioFileName)
}

func (sc *Scenario) validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(sc.Params) == 0 {
		return fmt.Errorf("scenario %s declares no type parameters", sc.Name)
	}
	if len(sc.Expect) == 0 && sc.Error == "" {
		return fmt.Errorf("scenario %s has neither expectations nor an expected error", sc.Name)
	}
	for i, step := range sc.Steps {
		forms := 0
		if step.Source != "" || step.Target != "" {
			if step.Source == "" || step.Target == "" {
				return fmt.Errorf("scenario %s step %d needs both source and target", sc.Name, i)
			}
			forms++
		}
		if step.Context != "" {
			if step.Param == "" {
				return fmt.Errorf("scenario %s step %d context needs a param", sc.Name, i)
			}
			forms++
		}
		if step.Fix {
			forms++
		}
		if forms != 1 {
			return fmt.Errorf("scenario %s step %d must be exactly one of infer/context/fix", sc.Name, i)
		}
		if _, ok := stepPriorities[step.Priority]; !ok {
			return fmt.Errorf("scenario %s step %d has unknown priority %q", sc.Name, i, step.Priority)
		}
	}
	return nil
}

// WriteFixture renders a scenario back into txtar form, used by tests
// and fixture generators.
func WriteFixture(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	archive := &txtar.Archive{
		Files: []txtar.File{{Name: config.ScenarioFileName, Data: data}},
	}
	return os.WriteFile(path, txtar.Format(archive), 0o644)
}
