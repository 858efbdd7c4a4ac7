package addon

import (
	"slices"

	"github.com/openshift-ai/oai-manager/internal/config"
)

// Graph is the explicit dependency graph between add-ons. The install-time
// preconditions and the uninstall cascade both read it, which keeps the
// ordering rules inspectable and testable without a live remote service.
type Graph struct {
	// requires maps an add-on to the add-ons it needs installed first.
	requires map[string][]string
}

// DefaultGraph returns the stock graph: the GPU add-on requires the
// data-science platform.
func DefaultGraph() *Graph {
	return &Graph{
		requires: map[string][]string{
			config.GPUAddonID: {config.RHODSAddonID},
		},
	}
}

// DependsOn returns the direct requirements of an add-on.
func (g *Graph) DependsOn(id string) []string {
	return slices.Clone(g.requires[id])
}

// Dependents returns the add-ons that directly require id.
func (g *Graph) Dependents(id string) []string {
	var out []string
	for dependent, reqs := range g.requires {
		if slices.Contains(reqs, id) {
			out = append(out, dependent)
		}
	}
	slices.Sort(out)
	return out
}

// InstalledDependents filters Dependents down to the given installed set.
func (g *Graph) InstalledDependents(id string, installed []string) []string {
	var out []string
	for _, dep := range g.Dependents(id) {
		if slices.Contains(installed, dep) {
			out = append(out, dep)
		}
	}
	return out
}

// UninstallOrder sorts the installed add-ons so that every add-on appears
// before anything it requires: the order in which a cascade (or a forced
// cluster deletion) must remove them.
func (g *Graph) UninstallOrder(installed []string) []string {
	remaining := slices.Clone(installed)
	slices.Sort(remaining)

	var order []string
	for len(remaining) > 0 {
		progressed := false
		for i, id := range remaining {
			if len(g.InstalledDependents(id, remaining)) > 0 {
				continue
			}
			order = append(order, id)
			remaining = slices.Delete(remaining, i, i+1)
			progressed = true
			break
		}
		if !progressed {
			// Dependency cycle; append the rest as-is rather than spin.
			order = append(order, remaining...)
			break
		}
	}
	return order
}

// CascadeOrder returns the installed dependents of id, transitively, in the
// order they must be uninstalled before id itself.
func (g *Graph) CascadeOrder(id string, installed []string) []string {
	affected := map[string]bool{}
	var walk func(string)
	walk = func(cur string) {
		for _, dep := range g.InstalledDependents(cur, installed) {
			if !affected[dep] {
				affected[dep] = true
				walk(dep)
			}
		}
	}
	walk(id)

	var subset []string
	for dep := range affected {
		subset = append(subset, dep)
	}
	return g.UninstallOrder(subset)
}
