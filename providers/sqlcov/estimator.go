// Package sqlcov estimates coverage for database projects, the one
// ecosystem with no native instrumentation. The estimate is static: a
// routine definition file counts as covered when one of its routine names
// appears in the project's test corpus. The figures are directional, never
// exact, and every result is flagged as estimated.
package sqlcov

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
)

const (
	markerGlob = "**/schema.sql"

	// Directory conventions inside a database project.
	routinesDir = "routines"
	testsDir    = "tests"

	// DefaultAssertionsPerRoutine is the assumed average number of
	// assertion calls exercising one routine, used by the fallback
	// estimate when name matching finds nothing. The constant has no
	// empirical derivation; it is configurable for exactly that reason.
	DefaultAssertionsPerRoutine = 4
)

var (
	// routineDeclRe matches CREATE [OR REPLACE] FUNCTION|PROCEDURE and
	// captures the declared name, schema-qualified or bare.
	routineDeclRe = regexp.MustCompile(`(?i)\bCREATE\s+(?:OR\s+REPLACE\s+)?(?:FUNCTION|PROCEDURE)\s+("?[A-Za-z_][\w$]*"?(?:\."?[A-Za-z_][\w$]*"?)?)`)

	// assertionRe spots pgTAP-style and generic assertion callables in
	// test files.
	assertionRe = regexp.MustCompile(`(?i)\b(ok|is|isnt|throws_ok|lives_ok|results_eq|assert\w*)\s*\(`)
)

// routineFile is one routine-definition file and the facts the estimate
// needs from it.
type routineFile struct {
	path     string
	lines    int64
	names    []string // qualified and bare forms of every declared routine
	routines int      // declaration count
}

// Estimator is the SQL coverage provider. It satisfies the same contract
// as the tool-backed adapters but never shells out.
type Estimator struct {
	// AssertionsPerRoutine overrides DefaultAssertionsPerRoutine when > 0.
	AssertionsPerRoutine int

	// Logf receives estimator diagnostics. Nil silences them.
	Logf func(format string, args ...any)
}

// New creates the estimator with the given assertion-density constant;
// pass 0 for the default.
func New(assertionsPerRoutine int, logf func(string, ...any)) *Estimator {
	if assertionsPerRoutine <= 0 {
		assertionsPerRoutine = DefaultAssertionsPerRoutine
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Estimator{AssertionsPerRoutine: assertionsPerRoutine, Logf: logf}
}

func (e *Estimator) Technology() core.Tech { return core.TechSQL }
func (e *Estimator) MarkerGlob() string    { return markerGlob }
func (e *Estimator) Tool() string          { return "" }

func (e *Estimator) Accept(markerPath string) bool { return true }

// Measure estimates line coverage for one database project.
func (e *Estimator) Measure(ctx context.Context, project core.Project) providers.Result {
	files := e.collectRoutineFiles(project.Dir)
	if len(files) == 0 {
		// Nothing to measure; the project must not drag a denominator in.
		return providers.NoData(project, "no routine definitions found")
	}

	var totalLines int64
	routineCount := 0
	for _, f := range files {
		totalLines += f.lines
		routineCount += f.routines
	}

	corpus := e.collectTestCorpus(project.Dir)

	var coveredLines int64
	for _, f := range files {
		if fileCovered(f, corpus) {
			coveredLines += f.lines
		}
	}

	if coveredLines == 0 && corpus != "" {
		if fallback, ok := e.assertionFallback(corpus, totalLines, routineCount); ok {
			coveredLines = fallback
			e.Logf("sql: %s: no routine name matched; using assertion-density estimate", project.Name)
		}
	}

	// The whole estimator is heuristic, so every result is labeled as an
	// estimate, not just the assertion-density fallback.
	return providers.OK(project, providers.Coverage{
		Covered:   coveredLines,
		Total:     totalLines,
		Estimated: true,
	})
}

// collectRoutineFiles gathers .sql files under <dir>/routines that declare
// at least one function or procedure, in lexical order.
func (e *Estimator) collectRoutineFiles(projectDir string) []routineFile {
	root := filepath.Join(projectDir, routinesDir)
	paths, err := sqlFilesUnder(root)
	if err != nil {
		return nil
	}

	var files []routineFile
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			e.Logf("sql: %s: %v", path, err)
			continue
		}
		decls := routineDeclRe.FindAllStringSubmatch(string(data), -1)
		if len(decls) == 0 {
			continue
		}
		f := routineFile{
			path:     path,
			lines:    countLines(data),
			routines: len(decls),
		}
		for _, m := range decls {
			f.names = append(f.names, routineNameForms(m[1])...)
		}
		files = append(files, f)
	}
	return files
}

// collectTestCorpus concatenates the designated test files: everything
// under <dir>/tests plus any file in the project tree whose name contains
// "test" or "spec".
func (e *Estimator) collectTestCorpus(projectDir string) string {
	seen := make(map[string]struct{})
	var parts []string

	appendFile := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		data, err := os.ReadFile(path)
		if err != nil {
			e.Logf("sql: %s: %v", path, err)
			return
		}
		parts = append(parts, string(data))
	}

	if paths, err := sqlFilesUnder(filepath.Join(projectDir, testsDir)); err == nil {
		for _, path := range paths {
			appendFile(path)
		}
	}

	_ = filepath.WalkDir(projectDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.Contains(name, "test") || strings.Contains(name, "spec") {
			appendFile(path)
		}
		return nil
	})

	return strings.Join(parts, "\n")
}

// assertionFallback estimates covered lines from assertion density when
// direct name matching found nothing:
//
//	estimatedRoutines = clamp(assertions / assertionsPerRoutine, 1, routineCount)
//	coveredLines      = clamp(estimatedRoutines * avgRoutineLines, 0, totalLines)
func (e *Estimator) assertionFallback(corpus string, totalLines int64, routineCount int) (int64, bool) {
	assertions := len(assertionRe.FindAllString(corpus, -1))
	if assertions == 0 || routineCount == 0 {
		return 0, false
	}
	estimated := assertions / e.AssertionsPerRoutine
	if estimated < 1 {
		estimated = 1
	}
	if estimated > routineCount {
		estimated = routineCount
	}
	covered := int64(float64(estimated) * float64(totalLines) / float64(routineCount))
	if covered > totalLines {
		covered = totalLines
	}
	return covered, true
}

// fileCovered reports whether any of the file's routine names appears as a
// whole word in the test corpus.
func fileCovered(f routineFile, corpus string) bool {
	if corpus == "" {
		return false
	}
	for _, name := range f.names {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(corpus) {
			return true
		}
	}
	return false
}

// routineNameForms expands one declared name into its qualified and bare
// forms, with identifier quoting stripped.
func routineNameForms(raw string) []string {
	clean := strings.ReplaceAll(raw, `"`, "")
	forms := []string{clean}
	if i := strings.LastIndex(clean, "."); i >= 0 && i+1 < len(clean) {
		forms = append(forms, clean[i+1:])
	}
	return forms
}

func sqlFilesUnder(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, err
	}
	var paths []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".sql") {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

func countLines(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	var n int64 = 1
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	if data[len(data)-1] == '\n' {
		n--
	}
	return n
}
