package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/oxhq/covscan/providers"
)

const summaryFileName = "summary.txt"

// Store lays one run's artifacts out under a timestamped results
// directory: raw report copies namespaced by technology and project name,
// plus the rendered summary.
type Store struct {
	dir string
}

// NewStore creates the results directory for a run starting at startedAt.
// This is a structural operation: its failure is fatal to the whole run,
// unlike anything that happens per project.
func NewStore(baseDir string, startedAt time.Time) (*Store, error) {
	dir := filepath.Join(baseDir, startedAt.Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the run's results directory.
func (s *Store) Dir() string { return s.dir }

// CopyReports preserves the raw report artifacts of one result under
// <dir>/<tech>/<project>/. Collisions between same-named reports from a
// multi-module project are disambiguated with an index prefix.
func (s *Store) CopyReports(res providers.Result) error {
	if len(res.Reports) == 0 {
		return nil
	}
	target := filepath.Join(s.dir, string(res.Project.Tech), res.Project.Name)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	for i, report := range res.Reports {
		name := filepath.Base(report)
		if i > 0 {
			name = fmt.Sprintf("%d-%s", i, name)
		}
		if err := copyFile(report, filepath.Join(target, name)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary persists the rendered summary. Like NewStore, failure here
// is structural and fails the run.
func (s *Store) WriteSummary(text string) error {
	path := filepath.Join(s.dir, summaryFileName)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copying report: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copying report: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying report: %w", err)
	}
	return out.Close()
}
