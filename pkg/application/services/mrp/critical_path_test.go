package mrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	mrptesting "github.com/vsinha/mrpplan/pkg/infrastructure/testing"
)

func TestAnalyzeCriticalPaths_Saturn(t *testing.T) {
	req := mrptesting.BuildSaturnScenario()
	paths := AnalyzeCriticalPaths(req.Items, BuildDependencyGraph(req.Items, req.BOM))

	require.Len(t, paths, 1)
	assert.Equal(t, entities.ItemCode("SATURN_V"), paths[0].Item)
	// 2 + 1 + 1 + 1 through the turbopump beats 2 + 1 + 1 straight to the valve
	assert.Equal(t, 5, paths[0].CumulativeLeadTime)
	assert.Equal(t, []entities.ItemCode{"SATURN_V", "F1_ENGINE", "TURBOPUMP", "VALVE"}, paths[0].Path)
}

func TestAnalyzeCriticalPaths_OrderAndTies(t *testing.T) {
	items := []entities.Item{
		{Code: "A", LeadTime: 1},
		{Code: "B", LeadTime: 3},
		{Code: "C1", LeadTime: 2},
		{Code: "C2", LeadTime: 2},
		{Code: "LOOSE", LeadTime: 1},
	}
	edges := []entities.BOMEdge{
		mrptesting.Edge("A", "C2", "1"),
		mrptesting.Edge("A", "C1", "1"),
		mrptesting.Edge("B", "C1", "1"),
	}

	paths := AnalyzeCriticalPaths(items, BuildDependencyGraph(items, edges))
	require.Len(t, paths, 3)

	assert.Equal(t, CriticalPath{Item: "B", Path: []entities.ItemCode{"B", "C1"}, CumulativeLeadTime: 5}, paths[0])
	assert.Equal(t, CriticalPath{Item: "A", Path: []entities.ItemCode{"A", "C1"}, CumulativeLeadTime: 3}, paths[1])
	assert.Equal(t, CriticalPath{Item: "LOOSE", Path: []entities.ItemCode{"LOOSE"}, CumulativeLeadTime: 1}, paths[2])
}
