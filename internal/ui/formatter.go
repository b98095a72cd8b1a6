package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"iat/internal/compare"
	"iat/internal/domain"
	"iat/internal/storage"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

const (
	labelWidth = 31
	valueWidth = 27
)

// cell pads s to width display columns, truncating with an ellipsis.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func (f *Formatter) row(label string, value string, paint func(format string, a ...interface{}) string) {
	fmt.Fprintf(f.out, "│ %s │ %s │\n", cell(label, labelWidth), paint("%s", cell(value, valueWidth)))
}

func (f *Formatter) rule(left, mid, right string) {
	fmt.Fprintln(f.out, left+strings.Repeat("─", labelWidth+2)+mid+strings.Repeat("─", valueWidth+2)+right)
}

// PrintSummary prints run statistics followed by the failed and skipped
// cases. results may be nil when only the stored output is available.
func (f *Formatter) PrintSummary(output *domain.ResultsOutput, results []domain.CaseResult) {
	meta := output.Meta

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, color.CyanString("╔═══════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(f.out, color.CyanString("║                    Case Execution Statistics                  ║"))
	fmt.Fprintln(f.out, color.CyanString("╚═══════════════════════════════════════════════════════════════╝"))
	fmt.Fprintln(f.out)

	rows := []struct {
		label string
		value string
		paint func(string, ...interface{}) string
	}{
		{"Total Cases", fmt.Sprint(meta.TotalCases), color.WhiteString},
		{"Passed", fmt.Sprint(meta.PassedCases), color.GreenString},
		{"Failed", fmt.Sprint(meta.FailedCases), color.RedString},
		{"Skipped", fmt.Sprint(meta.SkippedCases), color.YellowString},
		{"Recreated KGO", fmt.Sprint(meta.RecreatedCases), color.CyanString},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.WhiteString},
		{"Workers", fmt.Sprint(meta.Workers), color.WhiteString},
		{"Timestamp", meta.Timestamp, color.WhiteString},
	}
	f.rule("┌", "┬", "┐")
	for i, r := range rows {
		f.row(r.label, r.value, r.paint)
		if i < len(rows)-1 {
			f.rule("├", "┼", "┤")
		}
	}
	f.rule("└", "┴", "┘")

	fmt.Fprintln(f.out)
	for _, r := range results {
		if r.Status == domain.StatusSkipped {
			fmt.Fprintln(f.out, color.YellowString("- skipped %s: %s", r.CaseID, r.SkipReason))
		}
	}
	switch {
	case meta.FailedCases > 0:
		fmt.Fprintln(f.out, color.RedString("✗ %d case(s) failed", meta.FailedCases))
		fmt.Fprintln(f.out)
		f.printFailedTree(output.Details)
	case meta.TotalCases > 0 && meta.SkippedCases == meta.TotalCases:
		fmt.Fprintln(f.out, color.YellowString("- All cases skipped"))
	default:
		fmt.Fprintln(f.out, color.GreenString("✓ All cases passed!"))
	}
}

// groupByCommand splits case IDs of the form command/name into a sorted
// map of command to names.
func groupByCommand(ids []string) ([]string, map[string][]string) {
	groups := make(map[string][]string)
	for _, id := range ids {
		command, name, ok := strings.Cut(id, "/")
		if !ok {
			command, name = id, ""
		}
		groups[command] = append(groups[command], name)
	}
	commands := make([]string, 0, len(groups))
	for c := range groups {
		commands = append(commands, c)
		sort.Strings(groups[c])
	}
	sort.Strings(commands)
	return commands, groups
}

// printFailedTree prints failed cases grouped by command with the failing
// stage and error under each.
func (f *Formatter) printFailedTree(failures []domain.CaseResult) {
	byID := make(map[string]domain.CaseResult, len(failures))
	ids := make([]string, 0, len(failures))
	for _, r := range failures {
		byID[r.CaseID] = r
		ids = append(ids, r.CaseID)
	}

	commands, groups := groupByCommand(ids)
	for _, command := range commands {
		fmt.Fprintln(f.out, color.CyanString(command))
		names := groups[command]
		for i, name := range names {
			branch, stem := "├── ", "│   "
			if i == len(names)-1 {
				branch, stem = "└── ", "    "
			}
			r := byID[command+"/"+name]
			fmt.Fprintf(f.out, "%s%s %s\n", branch, color.YellowString(name), color.RedString("[%s]", r.Stage))
			if r.Error != "" {
				fmt.Fprintf(f.out, "%s%s\n", stem, r.Error)
			}
			for _, d := range r.Differences {
				fmt.Fprintf(f.out, "%s  %s\n", stem, formatDifference(d))
			}
		}
	}
}

func formatDifference(d domain.Difference) string {
	parts := []string{string(d.Kind)}
	if d.Variable != "" {
		parts = append(parts, d.Variable)
	}
	if d.Attribute != "" {
		parts = append(parts, d.Attribute)
	}
	if d.Detail != "" {
		parts = append(parts, d.Detail)
	}
	return strings.Join(parts, " : ")
}

// PrintCaseList prints the cases grouped by command. Cases whose ID is in
// failed (from the last run) are marked with [F].
func (f *Formatter) PrintCaseList(cases []domain.Case, failed map[string]struct{}) {
	fmt.Fprintln(f.out, color.GreenString("Found %d case(s):", len(cases)))
	fmt.Fprintln(f.out)

	sources := make(map[string]string, len(cases))
	ids := make([]string, 0, len(cases))
	for _, c := range cases {
		ids = append(ids, c.ID())
		sources[c.ID()] = c.Source
	}

	commands, groups := groupByCommand(ids)
	for _, command := range commands {
		fmt.Fprintln(f.out, color.CyanString(command))
		names := groups[command]
		for i, name := range names {
			branch := "├── "
			if i == len(names)-1 {
				branch = "└── "
			}
			id := command + "/" + name
			marker := ""
			if _, ok := failed[id]; ok {
				marker = " " + color.RedString("[F]")
			}
			source := ""
			if s := sources[id]; s != "" {
				source = " " + color.HiBlackString("(%s)", s)
			}
			fmt.Fprintf(f.out, "%s%s%s%s\n", branch, color.YellowString(name), marker, source)
		}
	}
}

// PrintHistory prints recorded runs as a table, newest first.
func (f *Formatter) PrintHistory(runs []storage.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(f.out, color.YellowString("No recorded runs"))
		return
	}
	widths := []int{6, 25, 7, 7, 7, 8, 10, 10}
	header := []string{"Run", "Timestamp", "Total", "Passed", "Failed", "Skipped", "Recreated", "Duration"}
	f.tableRow(widths, header, color.CyanString)
	for _, r := range runs {
		m := r.Meta
		paint := color.GreenString
		if m.FailedCases > 0 {
			paint = color.RedString
		}
		f.tableRow(widths, []string{
			fmt.Sprint(r.ID), m.Timestamp, fmt.Sprint(m.TotalCases), fmt.Sprint(m.PassedCases),
			fmt.Sprint(m.FailedCases), fmt.Sprint(m.SkippedCases), fmt.Sprint(m.RecreatedCases), m.Duration,
		}, paint)
	}
}

// PrintRunResults prints the case outcomes of one recorded run.
func (f *Formatter) PrintRunResults(runID int64, records []storage.CaseRecord) {
	fmt.Fprintln(f.out, color.CyanString("Run %d: %d case(s)", runID, len(records)))
	widths := []int{50, 10, 10, 10}
	f.tableRow(widths, []string{"Case", "Status", "Stage", "Duration"}, color.CyanString)
	for _, r := range records {
		paint := color.GreenString
		switch r.Status {
		case domain.StatusFailed:
			paint = color.RedString
		case domain.StatusSkipped:
			paint = color.YellowString
		}
		f.tableRow(widths, []string{r.CaseID, string(r.Status), string(r.Stage), r.Duration.String()}, paint)
	}
}

func (f *Formatter) tableRow(widths []int, cols []string, paint func(string, ...interface{}) string) {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = cell(c, widths[i])
	}
	fmt.Fprintln(f.out, paint("%s", strings.TrimRight(strings.Join(cells, "  "), " ")))
}

// PrintComparison prints the verdict of a single comparison.
func (f *Formatter) PrintComparison(name string, report compare.Report) {
	if report.Output != "" {
		fmt.Fprintln(f.out, strings.TrimRight(report.Output, "\n"))
	}
	for _, d := range report.Differences {
		fmt.Fprintln(f.out, color.RedString("  %s", formatDifference(d)))
	}
	if report.Equal {
		fmt.Fprintln(f.out, color.GreenString("✓ files are equal (%s)", name))
		return
	}
	fmt.Fprintln(f.out, color.RedString("✗ files differ (%s): %d difference(s)", name, len(report.Differences)))
}
