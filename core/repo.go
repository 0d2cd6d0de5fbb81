package core

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// maxAncestorHops bounds upward walks so filesystem cycles or symlink
	// loops cannot hang resolution.
	maxAncestorHops = 64

	resolverCacheSize = 4096
)

// gitEntry is the repository-metadata name git places at a checkout root.
// A directory marks an ordinary repository; a regular file marks a
// submodule mount point.
const gitEntry = ".git"

// Resolver maps paths to their owning repository root. Lookups are
// memoized by exact input path for the lifetime of one discovery run;
// construct a fresh Resolver per run.
type Resolver struct {
	cache   *lru.Cache[string, string]
	maxHops int
}

// NewResolver creates a resolver with an empty per-run cache.
func NewResolver() *Resolver {
	cache, _ := lru.New[string, string](resolverCacheSize)
	return &Resolver{cache: cache, maxHops: maxAncestorHops}
}

// FindRepoRoot returns the nearest ancestor-or-self directory of path that
// is a git checkout root (metadata directory or submodule pointer file).
// The second return is false when no boundary exists within the hop limit.
func (r *Resolver) FindRepoRoot(path string) (string, bool) {
	if root, ok := r.cache.Get(path); ok {
		return root, root != ""
	}
	root := r.resolve(path)
	r.cache.Add(path, root)
	return root, root != ""
}

func (r *Resolver) resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	dir := abs
	for hops := 0; hops < r.maxHops; hops++ {
		if _, err := os.Lstat(filepath.Join(dir, gitEntry)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || dir == "." {
			return ""
		}
		dir = parent
	}
	return ""
}

// IsSubmodule reports whether path is owned by a nested repository
// checkout. It walks strictly upward from path's containing directory
// toward workspaceRoot (exclusive of the root itself) and returns true on
// the first level whose .git entry is a regular file rather than a
// directory, git's signal for a submodule mount point.
//
// Known limitations, kept deliberately: a stray .git file produces a false
// positive (file content is never verified), and a path that cannot be
// resolved returns false.
func IsSubmodule(path, workspaceRoot string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rootAbs, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return false
	}

	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for hops := 0; hops < maxAncestorHops; hops++ {
		if dir == rootAbs {
			return false
		}
		if info, err := os.Lstat(filepath.Join(dir, gitEntry)); err == nil && info.Mode().IsRegular() {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
	return false
}
