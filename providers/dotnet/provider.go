// Package dotnet measures .NET projects with `dotnet test` and coverlet's
// cobertura output.
package dotnet

import (
	"context"
	"os"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
	"github.com/oxhq/covscan/providers/base"
)

const (
	tool          = "dotnet"
	markerGlob    = "**/*.csproj"
	reportPattern = "**/coverage.cobertura.xml"
)

// Provider is the .NET coverage adapter.
type Provider struct {
	base.Base
}

// New creates the .NET provider.
func New(b base.Base) *Provider {
	return &Provider{Base: b}
}

func (p *Provider) Technology() core.Tech { return core.TechDotnet }
func (p *Provider) MarkerGlob() string    { return markerGlob }
func (p *Provider) Tool() string          { return tool }

// Accept admits every csproj: the manifest format gives no cheap textual
// signal for test capability, so lockfile-only packages are weeded out
// here at measurement time by the absence of a report.
func (p *Provider) Accept(markerPath string) bool { return true }

// Measure runs dotnet test with coverlet collection in the project
// directory and sums every cobertura artifact it leaves behind.
func (p *Provider) Measure(ctx context.Context, project core.Project) providers.Result {
	if !p.ToolPresent(tool) {
		return providers.Skipped(project, "dotnet CLI not installed")
	}

	out, failed, err := p.RunTool(ctx, project.Dir, tool,
		"test",
		"/p:CollectCoverage=true",
		"/p:CoverletOutputFormat=cobertura",
	)
	if err != nil {
		return providers.Skipped(project, err.Error())
	}
	if failed {
		p.Logf("dotnet: %s: tests exited non-zero, extracting partial coverage\n%s", project.Name, base.Tail(out))
	}

	reports, err := base.FindReports(project.Dir, reportPattern)
	if err != nil || len(reports) == 0 {
		return providers.NoData(project, "no cobertura report produced")
	}

	var covered, total int64
	for _, report := range reports {
		data, err := os.ReadFile(report)
		if err != nil {
			p.Logf("dotnet: %s: %v", project.Name, err)
			continue
		}
		c, t, err := base.ParseCobertura(data)
		if err != nil {
			p.Logf("dotnet: %s: %s: %v", project.Name, report, err)
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
