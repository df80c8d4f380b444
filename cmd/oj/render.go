package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/programme-lv/ojtool/compare"
	"github.com/programme-lv/ojtool/execeng"
	"github.com/programme-lv/ojtool/judge"
	"github.com/programme-lv/ojtool/srvcerror"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func verdictStyle(v compare.Verdict) lipgloss.Style {
	switch v {
	case compare.Accepted:
		return passStyle
	case compare.PresentationError:
		return warnStyle
	}
	return failStyle
}

func printSummary(problem *judge.Problem, summary *execeng.RunSummary) {
	for _, r := range summary.Results {
		label := fmt.Sprintf("case %d", r.CaseIndex)
		if tc := problem.Cases[r.CaseIndex]; tc.Label != "" {
			label = tc.Label
		}
		if r.Skipped {
			fmt.Printf("%-12s %s\n", label, dimStyle.Render("skipped"))
			continue
		}
		line := fmt.Sprintf("%-12s %s  %s", label,
			verdictStyle(r.Verdict).Render(r.Verdict.Display()),
			dimStyle.Render(r.Elapsed.Round(time.Millisecond).String()))
		if r.MemKiB > 0 {
			line += dimStyle.Render(fmt.Sprintf("  %d KiB", r.MemKiB))
		}
		fmt.Println(line)
		if r.Verdict == compare.RuntimeError && len(r.Stderr) > 0 {
			fmt.Println(dimStyle.Render(indent(string(r.Stderr))))
		}
	}
	overall := summary.Verdict()
	fmt.Printf("overall: %s\n", verdictStyle(overall).Render(overall.Display()))
}

func renderStatus(status judge.SubmissionStatus) string {
	if status == judge.StatusAccepted {
		return passStyle.Render(string(status))
	}
	return failStyle.Render(string(status))
}

// renderError prefixes coded errors with their category so the user
// knows which corrective action applies.
func renderError(err error) string {
	var se *srvcerror.Error
	if errors.As(err, &se) {
		return failStyle.Render("["+se.ErrorCode()+"]") + " " + se.Error()
	}
	if errors.Is(err, execeng.ErrRunCancelled) {
		return warnStyle.Render("cancelled") + " " + err.Error()
	}
	return err.Error()
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = "    " + lines[i]
	}
	return strings.Join(lines, "\n")
}
