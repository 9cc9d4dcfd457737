package bom_validator

import (
	"fmt"
	"sort"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]entities.ItemCode
	DuplicateEdges []entities.BOMEdge
	OrphanedItems  []entities.ItemCode
	Errors         []string
}

// Err converts the result into the error a planning run must fail with.
// Cycles take precedence over every other problem.
func (r *ValidationResult) Err() error {
	if r.HasCycles {
		return &entities.CycleError{Path: r.CyclePaths[0]}
	}
	if len(r.Errors) > 0 {
		return &entities.ValidationError{Problems: r.Errors}
	}
	return nil
}

// ValidateBOM performs structural validation on a set of BOM edges
func ValidateBOM(edges []entities.BOMEdge) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:     make([][]entities.ItemCode, 0),
		DuplicateEdges: make([]entities.BOMEdge, 0),
		Errors:         make([]string, 0),
	}

	adjacencyMap := BuildAdjacencyMap(edges)

	cycles := DetectCycles(adjacencyMap)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles

	result.DuplicateEdges = detectDuplicateEdges(edges)

	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
	}

	if len(result.DuplicateEdges) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("found %d duplicate BOM edges", len(result.DuplicateEdges)))
	}

	return result
}

// ValidateBOMItemConsistency checks that every item referenced by the BOM exists in the
// item master and reports items that appear in no BOM edge at all
func ValidateBOMItemConsistency(edges []entities.BOMEdge, items []entities.Item) *ValidationResult {
	result := &ValidationResult{
		OrphanedItems: make([]entities.ItemCode, 0),
		Errors:        make([]string, 0),
	}

	known := make(map[entities.ItemCode]bool, len(items))
	for _, item := range items {
		known[item.Code] = true
	}

	referenced := make(map[entities.ItemCode]bool)
	missing := make(map[entities.ItemCode]bool)
	for _, edge := range edges {
		for _, code := range []entities.ItemCode{edge.Parent, edge.Child} {
			referenced[code] = true
			if !known[code] && !missing[code] {
				missing[code] = true
				result.Errors = append(result.Errors, fmt.Sprintf("BOM references unknown item %s", code))
			}
		}
	}

	// Standalone items are legal (purchased parts with independent demand)
	for _, item := range items {
		if !referenced[item.Code] {
			result.OrphanedItems = append(result.OrphanedItems, item.Code)
		}
	}
	sort.Slice(result.OrphanedItems, func(i, j int) bool { return result.OrphanedItems[i] < result.OrphanedItems[j] })

	return result
}

// BuildAdjacencyMap creates a map of parent -> distinct children, children sorted
func BuildAdjacencyMap(edges []entities.BOMEdge) map[entities.ItemCode][]entities.ItemCode {
	adjacencyMap := make(map[entities.ItemCode][]entities.ItemCode)

	for _, edge := range edges {
		children := adjacencyMap[edge.Parent]

		// Avoid duplicate children in adjacency list
		found := false
		for _, child := range children {
			if child == edge.Child {
				found = true
				break
			}
		}

		if !found {
			adjacencyMap[edge.Parent] = append(children, edge.Child)
		}
	}

	for parent := range adjacencyMap {
		children := adjacencyMap[parent]
		sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	}

	return adjacencyMap
}

// DetectCycles uses DFS with a recursion stack to find cycles in the BOM structure.
// Parents are visited in item code order so the reported paths are deterministic.
func DetectCycles(adjacencyMap map[entities.ItemCode][]entities.ItemCode) [][]entities.ItemCode {
	visited := make(map[entities.ItemCode]bool)
	recursionStack := make(map[entities.ItemCode]bool)
	cycles := make([][]entities.ItemCode, 0)

	parents := make([]entities.ItemCode, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		parents = append(parents, parent)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })

	for _, parent := range parents {
		if !visited[parent] {
			dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

func dfsDetectCycle(
	current entities.ItemCode,
	adjacencyMap map[entities.ItemCode][]entities.ItemCode,
	visited map[entities.ItemCode]bool,
	recursionStack map[entities.ItemCode]bool,
	path []entities.ItemCode,
	cycles *[][]entities.ItemCode,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
			continue
		}
		if !recursionStack[child] {
			continue
		}

		// Found a cycle - extract the cycle path
		for i, code := range path {
			if code == child {
				cycle := make([]entities.ItemCode, 0, len(path)-i+1)
				cycle = append(cycle, path[i:]...)
				cycle = append(cycle, child)
				*cycles = append(*cycles, cycle)
				break
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateEdges finds edges repeating the same parent, child and effectivity window
func detectDuplicateEdges(edges []entities.BOMEdge) []entities.BOMEdge {
	seen := make(map[string]entities.BOMEdge)
	duplicates := make([]entities.BOMEdge, 0)

	for _, edge := range edges {
		to := "open"
		if edge.EffectiveTo != nil {
			to = fmt.Sprintf("%d", *edge.EffectiveTo)
		}
		key := fmt.Sprintf("%s|%s|%d|%s", edge.Parent, edge.Child, edge.EffectiveFrom, to)

		if existing, exists := seen[key]; exists {
			duplicates = append(duplicates, edge, existing)
		} else {
			seen[key] = edge
		}
	}

	return duplicates
}
