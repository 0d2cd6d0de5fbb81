package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/oxhq/covscan/core"
)

// TechnologyInfo captures metadata about a registered coverage provider.
type TechnologyInfo struct {
	ID         core.Tech
	MarkerGlob string
	Tool       string
}

var (
	mu     sync.RWMutex
	byTech = make(map[core.Tech]TechnologyInfo)
)

// Register stores technology metadata for lookups. Subsequent
// registrations for the same technology overwrite prior data to keep the
// catalog in sync with the latest provider definition.
func Register(info TechnologyInfo) {
	if info.ID == "" {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	byTech[info.ID] = info
}

// Lookup returns the info registered for a technology.
func Lookup(tech core.Tech) (TechnologyInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()
	info, ok := byTech[tech]
	return info, ok
}

// LookupByName resolves a technology by its string name, case-insensitive.
func LookupByName(name string) (TechnologyInfo, bool) {
	return Lookup(core.Tech(strings.ToLower(strings.TrimSpace(name))))
}

// Technologies returns all registered infos sorted by technology ID.
func Technologies() []TechnologyInfo {
	mu.RLock()
	defer mu.RUnlock()

	infos := make([]TechnologyInfo, 0, len(byTech))
	for _, info := range byTech {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	return infos
}
