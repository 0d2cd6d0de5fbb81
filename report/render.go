package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oxhq/covscan/providers"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	techStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	grandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Text renders the plain (unstyled) report: the form persisted as
// summary.txt, stored in run history, and diffed between runs.
func (s *Summary) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Coverage summary for %s\n", s.Root)
	fmt.Fprintf(&b, "Scanned at %s\n\n", s.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%-8s %9s %12s %12s %9s\n", "TECH", "PROJECTS", "COVERED", "TOTAL", "PERCENT")

	for _, tech := range s.Technologies() {
		t := s.Tech(tech)
		fmt.Fprintf(&b, "%-8s %9d %12d %12d %8.2f%%%s\n",
			tech, t.Projects, t.Covered, t.Total, t.Percent(), estimateTag(t))
	}

	grand := s.Grand()
	fmt.Fprintf(&b, "%-8s %9d %12d %12d %8.2f%%%s\n",
		"TOTAL", grand.Projects, grand.Covered, grand.Total, grand.Percent(), estimateTag(grand))

	if skipped := s.skippedResults(); len(skipped) > 0 {
		fmt.Fprintf(&b, "\nNot counted (%d):\n", len(skipped))
		for _, res := range skipped {
			fmt.Fprintf(&b, "  %-8s %s: %s\n", res.Project.Tech, res.Project.Name, res.Reason)
		}
	}
	return b.String()
}

// Render produces the styled terminal report. Line structure matches
// Text() so both forms read the same.
func (s *Summary) Render() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Coverage summary for %s", s.Root)))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Scanned at %s\n\n", s.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%-8s %9s %12s %12s %9s\n", "TECH", "PROJECTS", "COVERED", "TOTAL", "PERCENT")

	for _, tech := range s.Technologies() {
		t := s.Tech(tech)
		line := fmt.Sprintf("%-8s %9d %12d %12d %8.2f%%%s",
			tech, t.Projects, t.Covered, t.Total, t.Percent(), estimateTag(t))
		b.WriteString(techStyle.Render(line))
		b.WriteByte('\n')
	}

	grand := s.Grand()
	b.WriteString(grandStyle.Render(fmt.Sprintf("%-8s %9d %12d %12d %8.2f%%%s",
		"TOTAL", grand.Projects, grand.Covered, grand.Total, grand.Percent(), estimateTag(grand))))
	b.WriteByte('\n')

	if skipped := s.skippedResults(); len(skipped) > 0 {
		b.WriteByte('\n')
		b.WriteString(skippedStyle.Render(fmt.Sprintf("Not counted (%d):", len(skipped))))
		b.WriteByte('\n')
		for _, res := range skipped {
			b.WriteString(skippedStyle.Render(fmt.Sprintf("  %-8s %s: %s",
				res.Project.Tech, res.Project.Name, res.Reason)))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (s *Summary) skippedResults() []providers.Result {
	var skipped []providers.Result
	for _, res := range s.results {
		if res.Status != providers.StatusOK {
			skipped = append(skipped, res)
		}
	}
	return skipped
}

func estimateTag(t Tally) string {
	if t.Estimated {
		return " (estimated)"
	}
	return ""
}
