package providers

import (
	"context"
	"sort"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers/catalog"
)

// Status classifies the outcome of measuring one logical project.
type Status string

const (
	// StatusOK means a report was produced and parsed; Coverage is valid.
	StatusOK Status = "ok"

	// StatusSkipped means the project was not measured at all, typically
	// because its external tool is unavailable.
	StatusSkipped Status = "skipped"

	// StatusNoData means the tool ran but no usable report exists. The
	// project is excluded from percentage denominators rather than being
	// coerced to 0%.
	StatusNoData Status = "no-data"
)

// Coverage is the pair every adapter reduces a coverage report to.
type Coverage struct {
	Covered int64
	Total   int64

	// Estimated marks a heuristic (non-instrumented) figure, such as the
	// SQL estimator's output.
	Estimated bool
}

// Result of measuring one logical project. Measuring never fails the run:
// every failure mode degrades to a Skipped or NoData result with a reason.
type Result struct {
	Project  core.Project
	Status   Status
	Coverage Coverage
	Reason   string

	// Reports holds the raw report artifacts the adapter located, for
	// preservation under the results directory.
	Reports []string
}

// OK builds a successful result.
func OK(p core.Project, cov Coverage, reports ...string) Result {
	return Result{Project: p, Status: StatusOK, Coverage: cov, Reports: reports}
}

// Skipped builds a skipped result with a human-readable reason.
func Skipped(p core.Project, reason string) Result {
	return Result{Project: p, Status: StatusSkipped, Reason: reason}
}

// NoData builds a no-data result with a human-readable reason.
func NoData(p core.Project, reason string, reports ...string) Result {
	return Result{Project: p, Status: StatusNoData, Reason: reason, Reports: reports}
}

// Provider is a per-technology coverage adapter. It carries both the
// discovery contract (markers, textual gates) and the measurement logic.
type Provider interface {
	core.TechSpec

	// Tool names the external executable the adapter shells out to.
	// Empty for heuristic providers that run nothing.
	Tool() string

	// Measure runs the technology's coverage tooling for one logical
	// project and reduces the report to a Result. Implementations honor
	// ctx cancellation by killing the in-flight tool invocation.
	Measure(ctx context.Context, project core.Project) Result
}

// Registry manages all providers for one run.
type Registry struct {
	providers map[core.Tech]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[core.Tech]Provider)}
}

// Register adds a provider and records it in the technology catalog.
func (r *Registry) Register(p Provider) {
	r.providers[p.Technology()] = p
	catalog.Register(catalog.TechnologyInfo{
		ID:         p.Technology(),
		MarkerGlob: p.MarkerGlob(),
		Tool:       p.Tool(),
	})
}

// Get retrieves a provider by technology.
func (r *Registry) Get(tech core.Tech) (Provider, bool) {
	p, ok := r.providers[tech]
	return p, ok
}

// List returns all providers sorted by technology, giving scans a stable
// execution order.
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Technology() < result[j].Technology()
	})
	return result
}

// Technologies returns the registered technology identifiers, sorted.
func (r *Registry) Technologies() []core.Tech {
	techs := make([]core.Tech, 0, len(r.providers))
	for tech := range r.providers {
		techs = append(techs, tech)
	}
	sort.Slice(techs, func(i, j int) bool { return techs[i] < techs[j] })
	return techs
}
