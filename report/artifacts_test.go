package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
)

func TestStoreLayout(t *testing.T) {
	base := t.TempDir()
	start := time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)

	store, err := NewStore(base, start)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "20260301-123045"), store.Dir())
}

func TestCopyReportsNamespacesByTechAndProject(t *testing.T) {
	src := t.TempDir()
	reportA := filepath.Join(src, "coverage.cobertura.xml")
	require.NoError(t, os.WriteFile(reportA, []byte("<coverage/>"), 0o644))

	store, err := NewStore(t.TempDir(), time.Now())
	require.NoError(t, err)

	res := providers.OK(
		core.Project{Tech: core.TechDotnet, Name: "repoA"},
		providers.Coverage{Covered: 1, Total: 2},
		reportA,
	)
	require.NoError(t, store.CopyReports(res))

	copied := filepath.Join(store.Dir(), "dotnet", "repoA", "coverage.cobertura.xml")
	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "<coverage/>", string(data))
}

func TestCopyReportsDisambiguatesCollidingNames(t *testing.T) {
	src := t.TempDir()
	first := filepath.Join(src, "a", "cobertura.xml")
	second := filepath.Join(src, "b", "cobertura.xml")
	require.NoError(t, os.MkdirAll(filepath.Dir(first), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(second), 0o755))
	require.NoError(t, os.WriteFile(first, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o644))

	store, err := NewStore(t.TempDir(), time.Now())
	require.NoError(t, err)

	res := providers.OK(
		core.Project{Tech: core.TechRust, Name: "svc"},
		providers.Coverage{Covered: 1, Total: 2},
		first, second,
	)
	require.NoError(t, store.CopyReports(res))

	dir := filepath.Join(store.Dir(), "rust", "svc")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCopyReportsNoopWithoutArtifacts(t *testing.T) {
	store, err := NewStore(t.TempDir(), time.Now())
	require.NoError(t, err)

	res := providers.Skipped(core.Project{Tech: core.TechGo, Name: "svc"}, "skipped")
	assert.NoError(t, store.CopyReports(res))
}

func TestWriteSummary(t *testing.T) {
	store, err := NewStore(t.TempDir(), time.Now())
	require.NoError(t, err)

	require.NoError(t, store.WriteSummary("summary body\n"))
	data, err := os.ReadFile(filepath.Join(store.Dir(), "summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, "summary body\n", string(data))
}
