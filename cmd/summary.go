package cmd

import (
	"fmt"
	"strings"

	"procdiff/core/reconcile"
	"procdiff/core/scrub"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(18)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))
)

// renderSummary formats the counts of a comparison for the terminal.
func renderSummary(s reconcile.Summary, location string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("COMPARISON SUMMARY"))
	b.WriteString("\n")

	rows := []struct {
		label string
		value int
	}{
		{"Previous records", s.Previous},
		{"Current records", s.Current},
		{"Unchanged", s.Unchanged},
		{"New", s.New},
		{"Modified", s.Modified},
		{"Termed", s.Termed},
		{"Scrubbed", s.Scrubbed},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %d\n", labelStyle.Render(r.label), r.value)
	}
	if s.DroppedZeroDiff > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d duplicate key matches had no changes and were not reported", s.DroppedZeroDiff)))
		b.WriteString("\n")
	}
	if location != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Report"), location)
	}
	return b.String()
}

// renderRules lists a rule set in evaluation order.
func renderRules(rs *scrub.RuleSet) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("SCRUB RULES (%d)", rs.Len())))
	b.WriteString("\n")

	for i, r := range rs.Rules() {
		fmt.Fprintf(&b, "%3d. %s\n     %s\n", i+1, r.Description, labelStyle.UnsetWidth().Render(r.String()))
	}
	if rs.Dropped() > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d rules without conditions were ignored", rs.Dropped())))
		b.WriteString("\n")
	}
	return b.String()
}
