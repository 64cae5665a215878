package conformance

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorBold  = "\x1b[1m"
)

// Reporter prints run results, colorized when the destination is a
// terminal.
type Reporter struct {
	w     io.Writer
	color bool
}

func NewReporter(w io.Writer) *Reporter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{w: w, color: color}
}

func (r *Reporter) paint(color, s string) string {
	if !r.color {
		return s
	}
	return color + s + colorReset
}

// Report prints one line per case plus a summary, and returns the
// number of failures.
func (r *Reporter) Report(results []Result) int {
	failed := 0
	for _, res := range results {
		if res.Pass {
			fmt.Fprintf(r.w, "%s %s\n", r.paint(colorGreen, "ok  "), res.Name)
			continue
		}
		failed++
		fmt.Fprintf(r.w, "%s %s\n", r.paint(colorRed, "FAIL"), res.Name)
		for _, line := range splitLines(res.Detail) {
			fmt.Fprintf(r.w, "     %s\n", line)
		}
	}
	summary := fmt.Sprintf("%d cases, %d failed", len(results), failed)
	if failed == 0 {
		fmt.Fprintln(r.w, r.paint(colorGreen, summary))
	} else {
		fmt.Fprintln(r.w, r.paint(colorBold+colorRed, summary))
	}
	return failed
}

// ReportBaselineDiff prints regressions and fixes relative to the
// stored baseline.
func (r *Reporter) ReportBaselineDiff(diff BaselineDiff) {
	for _, name := range diff.Regressed {
		fmt.Fprintf(r.w, "%s %s (passed in baseline)\n", r.paint(colorRed, "regressed"), name)
	}
	for _, name := range diff.Fixed {
		fmt.Fprintf(r.w, "%s %s (failed in baseline)\n", r.paint(colorGreen, "fixed    "), name)
	}
	for _, name := range diff.New {
		fmt.Fprintf(r.w, "%s %s\n", r.paint(colorBold, "new      "), name)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
