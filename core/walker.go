package core

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultSkipDirs are directory names never descended into during marker
// discovery: version-control metadata, dependency caches and compiled
// output, none of which can contain a countable project of this workspace.
var DefaultSkipDirs = []string{
	".git",
	".hg",
	".idea",
	".vscode",
	"bin",
	"coverage",
	"dist",
	"node_modules",
	"obj",
	"target",
	"vendor",
}

// ReportSkipDirs are directory names excluded from report-artifact
// searches inside a project. Output directories stay visible here because
// coverage tools write their reports into them.
var ReportSkipDirs = []string{".git", "node_modules", "vendor"}

// Walker enumerates files under a root directory matching doublestar
// patterns, pruning a fixed set of directory names.
type Walker struct {
	root string
	skip map[string]struct{}
}

// NewWalker creates a walker over root that prunes the given directory
// names at every depth.
func NewWalker(root string, skipDirs []string) *Walker {
	skip := make(map[string]struct{}, len(skipDirs))
	for _, name := range skipDirs {
		skip[name] = struct{}{}
	}
	return &Walker{root: root, skip: skip}
}

// Match returns the absolute paths of all files under the walker's root
// whose root-relative path matches pattern. filepath.WalkDir visits
// entries in lexical order, so the result is order-stable across runs.
// Unreadable directories are skipped rather than failing the walk.
func (w *Walker) Match(pattern string) ([]string, error) {
	var hits []string
	walkErr := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != w.root {
				if _, prune := w.skip[d.Name()]; prune {
					return fs.SkipDir
				}
			}
			return nil
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return nil
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			hits = append(hits, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return hits, nil
}
