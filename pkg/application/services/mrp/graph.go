package mrp

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// DependencyNode represents an item in the BOM graph
type DependencyNode struct {
	Code entities.ItemCode
	// Components are the edges to this item's immediate children
	Components []entities.BOMEdge
	// WhereUsed are the edges from this item's immediate parents
	WhereUsed []entities.BOMEdge
}

// DependencyGraph maps item codes to their dependency information.
// It is a general DAG: an item may be a component of several parents.
type DependencyGraph map[entities.ItemCode]*DependencyNode

// BuildDependencyGraph indexes the BOM in both directions.
// Edge lists are sorted by the item on the other end, then by effectivity start.
func BuildDependencyGraph(items []entities.Item, edges []entities.BOMEdge) DependencyGraph {
	graph := make(DependencyGraph, len(items))
	node := func(code entities.ItemCode) *DependencyNode {
		n, ok := graph[code]
		if !ok {
			n = &DependencyNode{Code: code}
			graph[code] = n
		}
		return n
	}

	for _, item := range items {
		node(item.Code)
	}
	for _, edge := range edges {
		node(edge.Parent).Components = append(node(edge.Parent).Components, edge)
		node(edge.Child).WhereUsed = append(node(edge.Child).WhereUsed, edge)
	}

	for _, n := range graph {
		sort.SliceStable(n.Components, func(i, j int) bool {
			a, b := n.Components[i], n.Components[j]
			if a.Child != b.Child {
				return a.Child < b.Child
			}
			return a.EffectiveFrom < b.EffectiveFrom
		})
		sort.SliceStable(n.WhereUsed, func(i, j int) bool {
			a, b := n.WhereUsed[i], n.WhereUsed[j]
			if a.Parent != b.Parent {
				return a.Parent < b.Parent
			}
			return a.EffectiveFrom < b.EffectiveFrom
		})
	}

	return graph
}

// Components returns the edges to the immediate children of code
func (g DependencyGraph) Components(code entities.ItemCode) []entities.BOMEdge {
	if n, ok := g[code]; ok {
		return n.Components
	}
	return nil
}

// WhereUsed returns the edges from the immediate parents of code
func (g DependencyGraph) WhereUsed(code entities.ItemCode) []entities.BOMEdge {
	if n, ok := g[code]; ok {
		return n.WhereUsed
	}
	return nil
}

// Roots returns the items that are no other item's component, sorted
func (g DependencyGraph) Roots() []entities.ItemCode {
	var roots []entities.ItemCode
	for code, n := range g {
		if len(n.WhereUsed) == 0 {
			roots = append(roots, code)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}

var maxQuantity = decimal.NewFromInt(int64(entities.MaxQuantity))

// extend converts a parent quantity into the component quantity it consumes.
// ok is false when that quantity exceeds entities.MaxQuantity.
func extend(parentQty entities.Quantity, edge entities.BOMEdge) (qty entities.Quantity, ok bool) {
	extended := edge.QtyPer.Mul(decimal.NewFromInt(int64(parentQty))).Ceil()
	if extended.GreaterThan(maxQuantity) {
		return 0, false
	}
	return entities.Quantity(extended.IntPart()), true
}
