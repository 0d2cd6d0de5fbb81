// Package rust measures Cargo projects with cargo-tarpaulin's cobertura
// output and applies the workspace aggregator/member heuristic to decide
// which manifests are countable units.
package rust

import (
	"context"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
	"github.com/oxhq/covscan/providers/base"
)

const (
	tool          = "cargo"
	markerGlob    = "**/Cargo.toml"
	reportPattern = "**/cobertura.xml"
)

// cargoManifest is the slice of Cargo.toml the workspace heuristic needs.
// Pointer fields distinguish an absent table from an empty one.
type cargoManifest struct {
	Workspace *struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

var (
	// workspaceMemberRe spots manifests that inherit fields from an
	// enclosing workspace, e.g. `version.workspace = true` or
	// `edition = { workspace = true }`.
	workspaceMemberRe = regexp.MustCompile(`(?m)(^\s*\w[\w-]*\.workspace\s*=\s*true|\bworkspace\s*=\s*true)`)

	// workspaceTableRe is the textual fallback for aggregator detection
	// when the TOML does not parse.
	workspaceTableRe = regexp.MustCompile(`(?m)^\s*\[workspace(\.|])`)
)

// Provider is the Rust coverage adapter.
type Provider struct {
	base.Base
}

// New creates the Rust provider.
func New(b base.Base) *Provider {
	return &Provider{Base: b}
}

func (p *Provider) Technology() core.Tech { return core.TechRust }
func (p *Provider) MarkerGlob() string    { return markerGlob }
func (p *Provider) Tool() string          { return tool }

// Accept counts a manifest when it is a workspace aggregator or when it
// does not declare membership in one. A member without the aggregator
// table is excluded: its coverage arrives through the aggregator's run.
func (p *Provider) Accept(markerPath string) bool {
	data, err := os.ReadFile(markerPath)
	if err != nil {
		p.Logf("rust: %s: %v", markerPath, err)
		return false
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		// Malformed TOML: fall back to the same heuristic on raw text.
		if workspaceTableRe.Match(data) {
			return true
		}
		return !workspaceMemberRe.Match(data)
	}
	if manifest.Workspace != nil {
		return true
	}
	return !workspaceMemberRe.Match(data)
}

// Measure runs cargo tarpaulin in the project directory and sums every
// cobertura artifact it produces.
func (p *Provider) Measure(ctx context.Context, project core.Project) providers.Result {
	if !p.ToolPresent(tool) {
		return providers.Skipped(project, "cargo not installed")
	}
	if !p.ToolPresent("cargo-tarpaulin") {
		return providers.Skipped(project, "cargo-tarpaulin not installed")
	}

	out, failed, err := p.RunTool(ctx, project.Dir, tool,
		"tarpaulin", "--out", "Xml", "--skip-clean",
	)
	if err != nil {
		return providers.Skipped(project, err.Error())
	}
	if failed {
		p.Logf("rust: %s: tarpaulin exited non-zero, extracting partial coverage\n%s", project.Name, base.Tail(out))
	}

	reports, err := base.FindReports(project.Dir, reportPattern)
	if err != nil || len(reports) == 0 {
		return providers.NoData(project, "no cobertura report produced")
	}

	var covered, total int64
	for _, report := range reports {
		data, err := os.ReadFile(report)
		if err != nil {
			p.Logf("rust: %s: %v", project.Name, err)
			continue
		}
		c, t, err := base.ParseCobertura(data)
		if err != nil {
			p.Logf("rust: %s: %s: %v", project.Name, report, err)
			continue
		}
		covered += c
		total += t
	}
	if total == 0 {
		return providers.NoData(project, "cobertura reports carry no line totals", reports...)
	}
	return providers.OK(project, providers.Coverage{Covered: covered, Total: total}, reports...)
}
