// Package llc computes low-level codes, the deepest level at which an item appears
// in any bill of materials, and the processing order they imply.
package llc

import (
	"sort"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services/bom_validator"
)

// Resolution is the fixed processing order of a planning run
type Resolution struct {
	Codes map[entities.ItemCode]int
	// Order is ascending by low-level code, ties broken by item code
	Order []entities.ItemCode
	// Tiers groups Order by low-level code; Tiers[n] holds every item with code n
	Tiers [][]entities.ItemCode
}

// Resolve computes low-level codes for every item in items and every item named by an
// edge. It fails with *entities.CycleError before relaxing anything if the BOM has a cycle.
func Resolve(items []entities.Item, edges []entities.BOMEdge) (*Resolution, error) {
	if cycles := bom_validator.DetectCycles(bom_validator.BuildAdjacencyMap(edges)); len(cycles) > 0 {
		return nil, &entities.CycleError{Path: cycles[0]}
	}

	codes := make(map[entities.ItemCode]int, len(items))
	for _, item := range items {
		codes[item.Code] = 0
	}
	for _, edge := range edges {
		for _, code := range []entities.ItemCode{edge.Parent, edge.Child} {
			if _, ok := codes[code]; !ok {
				codes[code] = 0
			}
		}
	}

	// code[child] = max(code[child], code[parent]+1) until nothing moves.
	// An acyclic graph settles within len(codes) passes.
	for pass := 0; pass <= len(codes); pass++ {
		changed := false
		for _, edge := range edges {
			if next := codes[edge.Parent] + 1; next > codes[edge.Child] {
				codes[edge.Child] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	order := make([]entities.ItemCode, 0, len(codes))
	for code := range codes {
		order = append(order, code)
	}
	sort.Slice(order, func(i, j int) bool {
		ci, cj := codes[order[i]], codes[order[j]]
		if ci != cj {
			return ci < cj
		}
		return order[i] < order[j]
	})

	var tiers [][]entities.ItemCode
	for _, code := range order {
		level := codes[code]
		for len(tiers) <= level {
			tiers = append(tiers, nil)
		}
		tiers[level] = append(tiers[level], code)
	}

	return &Resolution{Codes: codes, Order: order, Tiers: tiers}, nil
}

// Level returns the low-level code of an item, or -1 if the item is unknown
func (r *Resolution) Level(code entities.ItemCode) int {
	level, ok := r.Codes[code]
	if !ok {
		return -1
	}
	return level
}
