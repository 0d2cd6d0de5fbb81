package report

import (
	"math"
	"sort"
	"time"

	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/providers"
)

// Tally accumulates coverage for one technology. Mutation is append-only:
// results add, nothing subtracts, so folding results in any order yields
// identical totals.
type Tally struct {
	Projects  int
	Skipped   int
	Covered   int64
	Total     int64
	Estimated bool
}

// Percent is covered/total as a percentage rounded to two decimals, with
// 0 for an empty denominator.
func (t Tally) Percent() float64 {
	if t.Total == 0 {
		return 0
	}
	return math.Round(float64(t.Covered)/float64(t.Total)*10000) / 100
}

// Summary holds one run's accumulated results. Construct one per run and
// discard it after report generation; nothing here is process-global.
type Summary struct {
	Root      string
	StartedAt time.Time

	byTech  map[core.Tech]*Tally
	results []providers.Result
}

// NewSummary creates an empty summary for a scan of root.
func NewSummary(root string, startedAt time.Time) *Summary {
	return &Summary{
		Root:      root,
		StartedAt: startedAt,
		byTech:    make(map[core.Tech]*Tally),
	}
}

// Add folds one project result into the tallies. Only OK results
// contribute to the covered/total sums; Skipped and NoData results are
// counted but never enter a denominator, so an untested ecosystem can
// never masquerade as 0%.
func (s *Summary) Add(res providers.Result) {
	s.results = append(s.results, res)

	t, ok := s.byTech[res.Project.Tech]
	if !ok {
		t = &Tally{}
		s.byTech[res.Project.Tech] = t
	}

	if res.Status != providers.StatusOK {
		t.Skipped++
		return
	}
	t.Projects++
	t.Covered += res.Coverage.Covered
	t.Total += res.Coverage.Total
	if res.Coverage.Estimated {
		t.Estimated = true
	}
}

// Tech returns the tally for one technology; the zero Tally when the
// technology produced no results.
func (s *Summary) Tech(tech core.Tech) Tally {
	if t, ok := s.byTech[tech]; ok {
		return *t
	}
	return Tally{}
}

// Technologies returns the technologies with results, sorted.
func (s *Summary) Technologies() []core.Tech {
	techs := make([]core.Tech, 0, len(s.byTech))
	for tech := range s.byTech {
		techs = append(techs, tech)
	}
	sort.Slice(techs, func(i, j int) bool { return techs[i] < techs[j] })
	return techs
}

// Grand sums all technologies into one tally.
func (s *Summary) Grand() Tally {
	var grand Tally
	for _, t := range s.byTech {
		grand.Projects += t.Projects
		grand.Skipped += t.Skipped
		grand.Covered += t.Covered
		grand.Total += t.Total
		if t.Estimated {
			grand.Estimated = true
		}
	}
	return grand
}

// Results returns every folded result in insertion order.
func (s *Summary) Results() []providers.Result {
	return s.results
}
