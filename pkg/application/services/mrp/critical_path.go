package mrp

import (
	"sort"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// CriticalPath is the chain of items with the longest cumulative lead time below an item
type CriticalPath struct {
	Item entities.ItemCode `json:"item"`
	// Path runs from Item down to the component that ends the chain
	Path               []entities.ItemCode `json:"path"`
	CumulativeLeadTime int                 `json:"cumulative_lead_time"`
}

// AnalyzeCriticalPaths returns the critical path of every top-level item, longest first.
// Every edge counts regardless of effectivity. The graph must be acyclic.
func AnalyzeCriticalPaths(items []entities.Item, graph DependencyGraph) []CriticalPath {
	leadTimes := make(map[entities.ItemCode]int, len(items))
	for _, item := range items {
		leadTimes[item.Code] = item.LeadTime
	}

	memo := make(map[entities.ItemCode]CriticalPath, len(graph))
	var analyze func(code entities.ItemCode) CriticalPath
	analyze = func(code entities.ItemCode) CriticalPath {
		if path, ok := memo[code]; ok {
			return path
		}

		var longest CriticalPath
		for _, edge := range graph.Components(code) {
			// Components are sorted by child, so ties keep the lowest code
			if below := analyze(edge.Child); below.CumulativeLeadTime > longest.CumulativeLeadTime || longest.Path == nil {
				longest = below
			}
		}

		path := CriticalPath{
			Item:               code,
			Path:               append([]entities.ItemCode{code}, longest.Path...),
			CumulativeLeadTime: leadTimes[code] + longest.CumulativeLeadTime,
		}
		memo[code] = path
		return path
	}

	roots := graph.Roots()
	paths := make([]CriticalPath, 0, len(roots))
	for _, root := range roots {
		paths = append(paths, analyze(root))
	}
	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].CumulativeLeadTime != paths[j].CumulativeLeadTime {
			return paths[i].CumulativeLeadTime > paths[j].CumulativeLeadTime
		}
		return paths[i].Item < paths[j].Item
	})
	return paths
}
