package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
)

func TestTextRendersTalliesAndTotal(t *testing.T) {
	s := NewSummary("/ws", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.Add(okResult(core.TechDotnet, "api", 80, 100))
	s.Add(providers.OK(
		core.Project{Tech: core.TechSQL, Name: "db"},
		providers.Coverage{Covered: 6, Total: 10, Estimated: true},
	))

	text := s.Text()
	assert.Contains(t, text, "Coverage summary for /ws")
	assert.Contains(t, text, "80.00%")
	assert.Contains(t, text, "60.00% (estimated)")

	// Grand total line: 86/110.
	assert.Contains(t, text, "78.18%")
	assert.Contains(t, text, "TOTAL")
}

func TestTextZeroTotalRendersAsZeroPercent(t *testing.T) {
	s := NewSummary("/ws", time.Now())
	s.Add(providers.Skipped(core.Project{Tech: core.TechRust, Name: "svc"}, "cargo not installed"))

	text := s.Text()
	assert.Contains(t, text, "0.00%")
}

func TestTextEnumeratesSkippedSeparately(t *testing.T) {
	s := NewSummary("/ws", time.Now())
	s.Add(okResult(core.TechGo, "svc", 5, 10))
	s.Add(providers.Skipped(core.Project{Tech: core.TechDotnet, Name: "legacy"}, "dotnet CLI not installed"))

	text := s.Text()
	require.Contains(t, text, "Not counted (1):")
	assert.Contains(t, text, "legacy: dotnet CLI not installed")

	// The skipped project must not inflate any project count.
	assert.NotContains(t, strings.Split(text, "Not counted")[0], "legacy")
}

func TestRenderMirrorsTextStructure(t *testing.T) {
	s := NewSummary("/ws", time.Now())
	s.Add(okResult(core.TechNode, "ui", 3, 4))

	rendered := s.Render()
	assert.Contains(t, rendered, "node")
	assert.Contains(t, rendered, "75.00%")
	assert.Contains(t, rendered, "TOTAL")
}
