package main

import (
	"github.com/oxhq/covscan/core"
	"github.com/oxhq/covscan/internal/config"
	"github.com/oxhq/covscan/providers"
	"github.com/oxhq/covscan/providers/base"
	"github.com/oxhq/covscan/providers/catalog"
	"github.com/oxhq/covscan/providers/dotnet"
	"github.com/oxhq/covscan/providers/golang"
	"github.com/oxhq/covscan/providers/node"
	"github.com/oxhq/covscan/providers/rust"
	"github.com/oxhq/covscan/providers/sqlcov"
)

// buildRegistry wires every built-in coverage provider for one run.
func buildRegistry(cfg *config.Config, workspaceRoot string, logf func(string, ...any)) *providers.Registry {
	b := base.New(workspaceRoot, cfg.InvocationTimeout, logf)

	registry := providers.NewRegistry()
	registry.Register(dotnet.New(b))
	registry.Register(rust.New(b))
	registry.Register(node.New(b))
	registry.Register(golang.New(b))
	registry.Register(sqlcov.New(cfg.AssertionsPerRoutine, logf))
	return registry
}

// onlySet turns the --only list into a membership set; nil means all.
// Names are validated against the technology catalog so a typo warns
// instead of silently scanning nothing.
func onlySet(only []string, warnf func(string, ...any)) map[core.Tech]struct{} {
	if len(only) == 0 {
		return nil
	}
	set := make(map[core.Tech]struct{}, len(only))
	for _, name := range only {
		info, ok := catalog.LookupByName(name)
		if !ok {
			if warnf != nil {
				warnf("unknown technology %q in --only, ignoring", name)
			}
			continue
		}
		set[info.ID] = struct{}{}
	}
	return set
}
