package rust

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
	"github.com/oxhq/covscan/providers/base"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAcceptWorkspaceHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     bool
	}{
		{
			name:     "plain package",
			manifest: "[package]\nname = \"svc\"\nversion = \"0.1.0\"\n",
			want:     true,
		},
		{
			name:     "workspace aggregator",
			manifest: "[workspace]\nmembers = [\"api\", \"worker\"]\n",
			want:     true,
		},
		{
			name:     "aggregator that is also a package",
			manifest: "[package]\nname = \"root\"\n\n[workspace]\nmembers = [\"crates/*\"]\n",
			want:     true,
		},
		{
			name:     "workspace member via field inheritance",
			manifest: "[package]\nname = \"api\"\nversion.workspace = true\nedition.workspace = true\n",
			want:     false,
		},
		{
			name:     "workspace member via inline table",
			manifest: "[package]\nname = \"api\"\nversion = { workspace = true }\n",
			want:     false,
		},
		{
			name:     "malformed toml with workspace table",
			manifest: "[workspace\nmembers = [\"api\"]\n",
			want:     true,
		},
		{
			name:     "malformed toml without membership",
			manifest: "[package\nname = \"svc\"\n",
			want:     true,
		},
	}

	p := New(base.New(t.TempDir(), 0, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.manifest)
			assert.Equal(t, tt.want, p.Accept(path))
		})
	}
}

func TestAcceptUnreadableManifest(t *testing.T) {
	p := New(base.New(t.TempDir(), 0, nil))
	assert.False(t, p.Accept(filepath.Join(t.TempDir(), "Cargo.toml")))
}

func TestMeasureSkippedWithoutCargo(t *testing.T) {
	b := base.New(t.TempDir(), 0, nil)
	b.LookPath = func(string) (string, error) { return "", errors.New("not found") }
	p := New(b)

	res := p.Measure(context.Background(), core.Project{Tech: core.TechRust, Name: "svc"})
	assert.Equal(t, providers.StatusSkipped, res.Status)
}

func TestMeasureParsesTarpaulinReport(t *testing.T) {
	projectDir := t.TempDir()

	b := base.New(t.TempDir(), 0, nil)
	b.LookPath = func(string) (string, error) { return "/usr/bin/fake", nil }
	b.Exec = func(ctx context.Context, inv core.Invocation) (string, error) {
		// Stand-in for tarpaulin: drop a cobertura report in the
		// project directory.
		report := `<coverage lines-covered="30" lines-valid="40"></coverage>`
		return "", os.WriteFile(filepath.Join(inv.Dir, "cobertura.xml"), []byte(report), 0o644)
	}
	p := New(b)

	res := p.Measure(context.Background(), core.Project{
		Tech: core.TechRust,
		Name: "svc",
		Dir:  projectDir,
	})
	require.Equal(t, providers.StatusOK, res.Status)
	assert.Equal(t, int64(30), res.Coverage.Covered)
	assert.Equal(t, int64(40), res.Coverage.Total)
	require.Len(t, res.Reports, 1)
}

func TestMeasureNoDataWithoutReport(t *testing.T) {
	b := base.New(t.TempDir(), 0, nil)
	b.LookPath = func(string) (string, error) { return "/usr/bin/fake", nil }
	b.Exec = func(context.Context, core.Invocation) (string, error) { return "", nil }
	p := New(b)

	res := p.Measure(context.Background(), core.Project{
		Tech: core.TechRust,
		Name: "svc",
		Dir:  t.TempDir(),
	})
	assert.Equal(t, providers.StatusNoData, res.Status)
}
