// Package cli implements the tycho command line interface.
package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/tycho-lang/tycho/internal/conformance"
)

const usage = `Usage:
  tycho conformance run     [-config path]  run the conformance suite
  tycho conformance update  [-config path]  run the suite and rewrite the baseline
  tycho conformance history [-config path]  list recent runs
  tycho solve <fixture>                     solve one fixture and print the substitution
`

// Run executes one CLI invocation and returns the process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	switch args[0] {
	case "conformance":
		return runConformance(args[1:])
	case "solve":
		return runSolve(args[1:])
	case "help", "-help", "--help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		fmt.Fprint(os.Stderr, usage)
		return 1
	}
}

func runConformance(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}
	sub := args[0]
	configPath := "conformance.yaml"
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "-config", "--config":
			if i+1 >= len(rest) {
				fmt.Fprintln(os.Stderr, "-config requires a path")
				return 1
			}
			i++
			configPath = rest[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", rest[i])
			return 1
		}
	}

	cfg, err := conformance.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	store, err := conformance.OpenStore(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	defer store.Close()

	switch sub {
	case "run":
		return runSuite(cfg, store, false)
	case "update":
		return runSuite(cfg, store, true)
	case "history":
		return printHistory(store)
	default:
		fmt.Fprintf(os.Stderr, "unknown conformance subcommand: %s\n", sub)
		return 1
	}
}

func runSuite(cfg *conformance.Config, store *conformance.Store, update bool) int {
	results, err := conformance.NewRunner().RunGlobs(cfg.Fixtures)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	reporter := conformance.NewReporter(os.Stdout)
	failed := reporter.Report(results)

	diff, err := store.CompareBaseline(results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	reporter.ReportBaselineDiff(diff)

	if _, err := store.RecordRun(results); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	if update {
		if err := store.UpdateBaseline(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 1
		}
		fmt.Println("baseline updated")
	}

	if failed > 0 {
		return 1
	}
	return 0
}

func printHistory(store *conformance.Store) int {
	runs, err := store.RecentRuns(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return 0
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %d cases, %d failed\n", r.CreatedAt, r.ID, r.Total, r.Failed)
	}
	return 0
}

func runSolve(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tycho solve <fixture>")
		return 1
	}

	sc, err := conformance.LoadScenario(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	got, err := conformance.NewRunner().Solve(sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	names := make([]string, 0, len(got))
	for name := range got {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s = %s\n", name, got[name])
	}
	return 0
}
