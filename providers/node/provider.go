// Package node measures npm projects via their test script and the lcov
// tracefile jest/istanbul-style runners leave under coverage/.
package node

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
	"github.com/oxhq/covscan/providers/base"
)

const (
	tool          = "npm"
	markerGlob    = "**/package.json"
	reportPattern = "**/lcov.info"

	pnpmWorkspaceFile = "pnpm-workspace.yaml"

	// npm init's placeholder test script; its presence means "no tests".
	npmTestPlaceholder = "no test specified"
)

// packageManifest is the slice of package.json the discovery gates need.
type packageManifest struct {
	Name       string            `json:"name"`
	Scripts    map[string]string `json:"scripts"`
	Workspaces json.RawMessage   `json:"workspaces"`
}

// Provider is the Node/web coverage adapter.
type Provider struct {
	base.Base
}

// New creates the Node provider.
func New(b base.Base) *Provider {
	return &Provider{Base: b}
}

func (p *Provider) Technology() core.Tech { return core.TechNode }
func (p *Provider) MarkerGlob() string    { return markerGlob }
func (p *Provider) Tool() string          { return tool }

// Accept applies the two textual gates package.json makes cheap:
//
//   - the manifest must declare a runnable test script; a lockfile-only
//     or placeholder package has nothing to measure;
//   - a manifest that is a member of an enclosing workspace is excluded
//     unless it is itself the aggregator, since the aggregator's test run
//     captures its coverage.
func (p *Provider) Accept(markerPath string) bool {
	manifest, ok := p.readManifest(markerPath)
	if !ok {
		return false
	}
	if !hasRunnableTestScript(manifest) {
		return false
	}
	if isAggregator(manifest) {
		return true
	}
	return !p.insideWorkspace(filepath.Dir(markerPath))
}

func (p *Provider) readManifest(path string) (packageManifest, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		p.Logf("node: %s: %v", path, err)
		return packageManifest{}, false
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		p.Logf("node: %s: %v", path, err)
		return packageManifest{}, false
	}
	return manifest, true
}

func hasRunnableTestScript(m packageManifest) bool {
	script, ok := m.Scripts["test"]
	if !ok {
		return false
	}
	script = strings.TrimSpace(script)
	return script != "" && !strings.Contains(script, npmTestPlaceholder)
}

func isAggregator(m packageManifest) bool {
	return len(m.Workspaces) > 0 && string(m.Workspaces) != "null"
}

// insideWorkspace walks the parent chain from dir up to (exclusive of) the
// workspace root, looking for a workspace-config marker: either a
// pnpm-workspace.yaml or a package.json that declares workspaces. The walk
// is structurally the submodule check with a positive result.
func (p *Provider) insideWorkspace(dir string) bool {
	rootAbs, err := filepath.Abs(p.WorkspaceRoot)
	if err != nil {
		return false
	}
	cur, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	if cur == rootAbs {
		// A package at the scan root has no chain to walk; configs
		// above the root are outside the scanned tree.
		return false
	}
	cur = filepath.Dir(cur) // strictly above the candidate's own directory

	for cur != rootAbs {
		if p.hasWorkspaceConfig(cur) {
			return true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return false
		}
		cur = parent
	}
	return false
}

func (p *Provider) hasWorkspaceConfig(dir string) bool {
	if data, err := os.ReadFile(filepath.Join(dir, pnpmWorkspaceFile)); err == nil {
		var doc struct {
			Packages []string `yaml:"packages"`
		}
		if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Packages) > 0 {
			return true
		}
		// Present but unparseable still marks intent.
		return true
	}

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return false
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return false
	}
	return isAggregator(manifest)
}

// Measure runs the project's test script with coverage collection and sums
// every lcov tracefile it leaves behind.
func (p *Provider) Measure(ctx context.Context, project core.Project) providers.Result {
	if !p.ToolPresent(tool) {
		return providers.Skipped(project, "npm not installed")
	}

	out, failed, err := p.RunTool(ctx, project.Dir, tool, "test", "--", "--coverage")
	if err != nil {
		return providers.Skipped(project, err.Error())
	}
	if failed {
		p.Logf("node: %s: tests exited non-zero, extracting partial coverage\n%s", project.Name, base.Tail(out))
	}

	reports, err := base.FindReports(project.Dir, reportPattern)
	if err != nil || len(reports) == 0 {
		return providers.NoData(project, "no lcov tracefile produced")
	}

	var covered, total int64
	for _, report := range reports {
		data, err := os.ReadFile(report)
		if err != nil {
			p.Logf("node: %s: %v", project.Name, err)
			continue
		}
		c, t, err := base.ParseLCOV(data)
		if err != nil {
			p.Logf("node: %s: %s: %v", project.Name, report, err)
			continue
		}
		covered += c
		total += t
	}
	if total == 0 {
		return providers.NoData(project, "lcov tracefiles carry no line records", reports...)
	}
	return providers.OK(project, providers.Coverage{Covered: covered, Total: total}, reports...)
}
