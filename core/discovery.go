package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Engine walks a workspace and produces, per technology, a deduplicated
// and order-stable sequence of logical projects. State (resolver cache,
// emitted-root sets) is scoped to the Engine instance; construct one per
// run and discard it with the run.
type Engine struct {
	root     string
	walker   *Walker
	resolver *Resolver
	logf     func(format string, args ...any)
}

// NewEngine creates a discovery engine rooted at the workspace directory.
// extraSkips extends DefaultSkipDirs with workspace-specific output
// directories. logf receives discovery diagnostics; nil silences them.
func NewEngine(root string, extraSkips []string, logf func(string, ...any)) *Engine {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	skip := append(append([]string{}, DefaultSkipDirs...), extraSkips...)
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Engine{
		root:     abs,
		walker:   NewWalker(abs, skip),
		resolver: NewResolver(),
		logf:     logf,
	}
}

// Root returns the absolute workspace root the engine scans.
func (e *Engine) Root() string { return e.root }

// Discover enumerates marker files for one technology and collapses them
// into logical projects:
//
//  1. markers under pruned directories are never seen (walker skip list)
//  2. markers inside a submodule checkout are dropped
//  3. markers rejected by the technology's Accept gate are dropped
//  4. markers with no resolvable repository root are dropped silently;
//     a tree with no .git anywhere yields no projects
//  5. at most one project is emitted per repository root; the first
//     marker in traversal order wins and names the project
func (e *Engine) Discover(spec TechSpec) ([]Project, error) {
	markers, err := e.walker.Match(spec.MarkerGlob())
	if err != nil {
		return nil, fmt.Errorf("discovering %s markers: %w", spec.Technology(), err)
	}

	seen := make(map[string]struct{})
	var projects []Project
	for _, marker := range markers {
		if IsSubmodule(marker, e.root) {
			e.logf("discovery: %s: inside a submodule, skipping", marker)
			continue
		}
		if !spec.Accept(marker) {
			e.logf("discovery: %s: rejected by %s gate", marker, spec.Technology())
			continue
		}
		repoRoot, ok := e.resolver.FindRepoRoot(marker)
		if !ok {
			continue
		}
		if _, dup := seen[repoRoot]; dup {
			e.logf("discovery: %s: repository %s already counted", marker, repoRoot)
			continue
		}
		seen[repoRoot] = struct{}{}
		projects = append(projects, Project{
			Tech:       spec.Technology(),
			RepoRoot:   repoRoot,
			MarkerPath: marker,
			Dir:        filepath.Dir(marker),
			Name:       e.projectName(repoRoot),
		})
	}
	return projects, nil
}

// projectName derives a collision-free artifact name from the repository
// root's position inside the workspace.
func (e *Engine) projectName(repoRoot string) string {
	rel, err := filepath.Rel(e.root, repoRoot)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Base(repoRoot)
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}
