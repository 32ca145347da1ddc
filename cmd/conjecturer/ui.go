// Package main - terminal rendering for analysis results.
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"conjecturer/internal/conjecture"
	"conjecturer/internal/formula"
	"conjecturer/internal/sequence"
	"conjecturer/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	seqStyle    = lipgloss.NewStyle().Faint(true)
	ruleStyle   = lipgloss.NewStyle().Faint(true)

	verifiedStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failedStyle       = lipgloss.NewStyle().Faint(true)
	inconclusiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	familyNames = [...]string{"polynomial", "recurrence", "exponential", "rational"}
)

// renderResults renders the fixed-order tester results for one sequence.
func renderResults(id string, seq sequence.Sequence, results []conjecture.Result) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("── %s ", id)))
	b.WriteString(ruleStyle.Render(strings.Repeat("─", 40)))
	b.WriteString("\n")
	b.WriteString(seqStyle.Render(fmt.Sprintf("   %d terms: %s", seq.Len(), seq.String())))
	b.WriteString("\n")

	for i, res := range results {
		name := fmt.Sprintf("%-12s", familyNames[i])
		switch res.Status {
		case conjecture.Verified:
			b.WriteString(fmt.Sprintf("   %s %s  %s\n", name,
				verifiedStyle.Render("VERIFIED"), formula.Render(res.Formula)))
		case conjecture.Inconclusive:
			b.WriteString(fmt.Sprintf("   %s %s  (%s)\n", name,
				inconclusiveStyle.Render("inconclusive"), res.Description))
		default:
			b.WriteString(fmt.Sprintf("   %s %s\n", name, failedStyle.Render("failed")))
		}
	}
	return b.String()
}

// renderFindings renders the stored findings list.
func renderFindings(findings []store.Finding) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recorded findings"))
	b.WriteString("\n")
	for _, f := range findings {
		b.WriteString(fmt.Sprintf("%s  %-20s %s\n",
			f.CreatedAt.Format("2006-01-02 15:04"), f.Kind, f.SequenceID))
		b.WriteString(seqStyle.Render("    " + f.Formula))
		b.WriteString("\n")
	}
	return b.String()
}
