package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkerMatch(t *testing.T) {
	ws := t.TempDir()
	keep := writeFile(t, filepath.Join(ws, "svc", "package.json"), "{}")
	nested := writeFile(t, filepath.Join(ws, "svc", "ui", "package.json"), "{}")
	writeFile(t, filepath.Join(ws, "svc", "node_modules", "dep", "package.json"), "{}")
	writeFile(t, filepath.Join(ws, ".git", "package.json"), "{}")
	writeFile(t, filepath.Join(ws, "svc", "README.md"), "# x")

	w := NewWalker(ws, DefaultSkipDirs)
	hits, err := w.Match("**/package.json")
	require.NoError(t, err)

	assert.Equal(t, []string{keep, nested}, hits)
}

func TestWalkerMatchRootLevelMarker(t *testing.T) {
	ws := t.TempDir()
	marker := writeFile(t, filepath.Join(ws, "go.mod"), "module x\n")

	w := NewWalker(ws, DefaultSkipDirs)
	hits, err := w.Match("**/go.mod")
	require.NoError(t, err)
	assert.Equal(t, []string{marker}, hits)
}

func TestWalkerExtraSkips(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, "generated", "go.mod"), "module gen\n")
	keep := writeFile(t, filepath.Join(ws, "svc", "go.mod"), "module svc\n")

	w := NewWalker(ws, append([]string{"generated"}, DefaultSkipDirs...))
	hits, err := w.Match("**/go.mod")
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, hits)
}

func TestReportSkipDirsKeepOutputVisible(t *testing.T) {
	// Report searches must see build output (coverage/, target/) while
	// still pruning dependency caches.
	ws := t.TempDir()
	report := writeFile(t, filepath.Join(ws, "coverage", "lcov.info"), "LF:1\nLH:1\n")
	writeFile(t, filepath.Join(ws, "node_modules", "dep", "coverage", "lcov.info"), "LF:1\nLH:0\n")

	w := NewWalker(ws, ReportSkipDirs)
	hits, err := w.Match("**/lcov.info")
	require.NoError(t, err)
	assert.Equal(t, []string{report}, hits)
}
