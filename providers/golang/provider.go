// Package golang measures Go modules with `go test -coverprofile` and the
// text coverprofile format.
package golang

import (
	"context"
	"path/filepath"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
	"github.com/oxhq/covscan/providers/base"
)

const (
	tool       = "go"
	markerGlob = "**/go.mod"

	// profileName is written into the module root by the adapter itself,
	// so the report location is fixed rather than searched.
	profileName = "coverage.out"
)

// Provider is the Go coverage adapter.
type Provider struct {
	base.Base
}

// New creates the Go provider.
func New(b base.Base) *Provider {
	return &Provider{Base: b}
}

func (p *Provider) Technology() core.Tech { return core.TechGo }
func (p *Provider) MarkerGlob() string    { return markerGlob }
func (p *Provider) Tool() string          { return tool }

// Accept admits every go.mod; modules without tests produce an empty
// profile and fall out as no-data at measurement time.
func (p *Provider) Accept(markerPath string) bool { return true }

// Measure runs the module's tests with statement coverage and parses the
// resulting profile. Covered/total units are statements, not lines.
func (p *Provider) Measure(ctx context.Context, project core.Project) providers.Result {
	if !p.ToolPresent(tool) {
		return providers.Skipped(project, "go toolchain not installed")
	}

	out, failed, err := p.RunTool(ctx, project.Dir, tool,
		"test", "./...", "-coverprofile="+profileName, "-covermode=atomic",
	)
	if err != nil {
		return providers.Skipped(project, err.Error())
	}
	if failed {
		p.Logf("go: %s: tests exited non-zero, extracting partial coverage\n%s", project.Name, base.Tail(out))
	}

	profile := filepath.Join(project.Dir, profileName)
	covered, total, err := base.ParseGoProfile(profile)
	if err != nil {
		return providers.NoData(project, err.Error())
	}
	return providers.OK(project, providers.Coverage{Covered: covered, Total: total}, profile)
}
