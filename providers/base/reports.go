package base

import (
	"github.com/oxhq/covscan/core"
)

// FindReports locates report artifacts under a project directory with a
// recursive doublestar search. Dependency caches are pruned, since a vendored
// package's own lcov.info is not this project's coverage, but build
// output directories stay visible, since that is exactly where coverage
// tools write. Results come back in lexical walk order.
func FindReports(projectDir, pattern string) ([]string, error) {
	return core.NewWalker(projectDir, core.ReportSkipDirs).Match(pattern)
}
