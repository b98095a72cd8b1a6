package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"iat/internal/domain"
	"iat/internal/storage"
)

// maxOutputLines caps the tool output shown for one failure.
const maxOutputLines = 200

// FailureViewer displays failed cases in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
}

var _ Viewer = (*FailureViewer)(nil)

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// View displays failed cases in an interactive TUI
func (fv *FailureViewer) View(results *domain.ResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No case failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	updateListItem := func(index int) {
		if index < 0 || index >= list.GetItemCount() {
			return
		}
		list.SetItemText(index, listItemText(results.Details[index], index), "")
	}

	for i, failure := range results.Details {
		list.AddItem(listItemText(failure, i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	var saveErr error
	updateHeader := func() {
		text := fmt.Sprintf(" Case Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
			len(results.Details), countUnresolved(results.Details))
		if saveErr != nil {
			text += fmt.Sprintf("| [red]save failed: %s[white] ", tview.Escape(saveErr.Error()))
		}
		headerView.SetText(text)
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			failure := results.Details[index]
			statsView.SetText(formatFailureStats(failure))
			detailsView.SetText(formatFailureDetails(failure)).ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(results.Details) {
					results.Details[index].Resolved = !results.Details[index].Resolved
					saveErr = fv.storage.SaveOutput(results)
					updateListItem(index)
					updateHeader()
					updateDetails()
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return saveErr
}

func countUnresolved(failures []domain.CaseResult) int {
	count := 0
	for _, f := range failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

// listItemText is the list label for a failure, greyed out once resolved.
func listItemText(failure domain.CaseResult, index int) string {
	name := tview.Escape(failure.CaseID)
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

// formatFailureStats formats the header line for a failure
func formatFailureStats(failure domain.CaseResult) string {
	return fmt.Sprintf("[cyan]case:[white] [yellow]%s[white]  [cyan]stage:[white] [red]%s[white]  [cyan]exit:[white] %d  [cyan]took:[white] %s\n",
		tview.Escape(failure.CaseID), failure.Stage, failure.ExitCode, failure.Duration)
}

// formatFailureDetails formats a failure for display using tview color tags.
// Tool output is escaped so brackets in it are not read as tags.
func formatFailureDetails(failure domain.CaseResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(failure.Error))

	if len(failure.Command) > 0 {
		fmt.Fprintf(&b, "[yellow]Command:[white]\n%s\n\n", tview.Escape(strings.Join(failure.Command, " ")))
	}
	if failure.OutputPath != "" {
		fmt.Fprintf(&b, "[cyan]Output: %s[white]\n", tview.Escape(failure.OutputPath))
	}
	if failure.KGOPath != "" {
		fmt.Fprintf(&b, "[cyan]KGO:    %s[white]\n", tview.Escape(failure.KGOPath))
	}
	b.WriteString("\n")

	if len(failure.Differences) > 0 {
		b.WriteString("[yellow]Differences:[white]\n")
		for _, d := range failure.Differences {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(formatDifference(d)))
		}
		b.WriteString("\n")
	}

	if failure.CompareOutput != "" {
		fmt.Fprintf(&b, "[yellow]Comparator Output:[white]\n%s\n\n", tview.Escape(failure.CompareOutput))
	}

	if failure.Output != "" {
		b.WriteString("[yellow]Improver Output:[white]\n")
		lines := strings.Split(strings.TrimRight(failure.Output, "\n"), "\n")
		for i, line := range lines {
			if i == maxOutputLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(lines)-maxOutputLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
	}

	return b.String()
}
