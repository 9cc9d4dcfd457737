package mrp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	mrptesting "github.com/vsinha/mrpplan/pkg/infrastructure/testing"
)

func TestDependencyGraph_BothDirections(t *testing.T) {
	req := mrptesting.BuildSaturnScenario()
	graph := BuildDependencyGraph(req.Items, req.BOM)

	components := graph.Components("F1_ENGINE")
	if assert.Len(t, components, 2) {
		assert.Equal(t, entities.ItemCode("TURBOPUMP"), components[0].Child)
		assert.Equal(t, entities.ItemCode("VALVE"), components[1].Child)
	}

	whereUsed := graph.WhereUsed("VALVE")
	if assert.Len(t, whereUsed, 2) {
		assert.Equal(t, entities.ItemCode("F1_ENGINE"), whereUsed[0].Parent)
		assert.Equal(t, entities.ItemCode("TURBOPUMP"), whereUsed[1].Parent)
	}

	assert.Empty(t, graph.WhereUsed("SATURN_V"))
	assert.Nil(t, graph.Components("UNKNOWN"))
	assert.Equal(t, []entities.ItemCode{"SATURN_V"}, graph.Roots())
}

func TestExtend(t *testing.T) {
	qty, ok := extend(3, mrptesting.Edge("P", "C", "2.5"))
	assert.True(t, ok)
	assert.Equal(t, entities.Quantity(8), qty)

	_, ok = extend(entities.MaxQuantity, mrptesting.Edge("P", "C", "2"))
	assert.False(t, ok)

	_, ok = extend(1<<62, mrptesting.Edge("P", "C", "1000"))
	assert.False(t, ok)
}
