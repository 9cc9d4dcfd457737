package dto

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

func sampleRequest() PlanningRunRequest {
	return PlanningRunRequest{
		Horizon: entities.Horizon{Buckets: 6, Unit: entities.Week},
		Items: []entities.Item{
			{Code: "P", LeadTime: 1},
			{Code: "C", LeadTime: 2, OnHand: 40},
		},
		BOM: []entities.BOMEdge{
			{Parent: "P", Child: "C", QtyPer: decimal.NewFromInt(2)},
		},
		Demand: []entities.DemandEntry{
			{Item: "P", Bucket: 4, Quantity: 10, SourceRef: "SO-2"},
			{Item: "P", Bucket: 2, Quantity: 5, SourceRef: "SO-1"},
		},
	}
}

func TestDigest_StableUnderReordering(t *testing.T) {
	req := sampleRequest()
	first, err := Digest(req)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	shuffled := sampleRequest()
	shuffled.Items[0], shuffled.Items[1] = shuffled.Items[1], shuffled.Items[0]
	shuffled.Demand[0], shuffled.Demand[1] = shuffled.Demand[1], shuffled.Demand[0]
	second, err := Digest(shuffled)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDigest_ChangesWithContent(t *testing.T) {
	base, err := Digest(sampleRequest())
	require.NoError(t, err)

	changed := sampleRequest()
	changed.Demand[0].Quantity = 11
	other, err := Digest(changed)
	require.NoError(t, err)

	assert.NotEqual(t, base, other)
}

func TestDigest_DoesNotMutateRequest(t *testing.T) {
	req := sampleRequest()
	_, err := Digest(req)
	require.NoError(t, err)
	assert.Equal(t, entities.ItemCode("P"), req.Items[0].Code)
	assert.Equal(t, "SO-2", req.Demand[0].SourceRef)
}

func TestToRun_DefaultsUnitAndCopies(t *testing.T) {
	to := 3
	req := sampleRequest()
	req.Horizon.Unit = ""
	req.BOM[0].EffectiveTo = &to

	run := req.ToRun()
	assert.Equal(t, entities.Week, run.Horizon.Unit)

	*req.BOM[0].EffectiveTo = 9
	req.Items[0].LeadTime = 7
	assert.Equal(t, 3, *run.BOM[0].EffectiveTo)
	assert.Equal(t, 1, run.Items[0].LeadTime)
}
