package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	mrptesting "github.com/vsinha/mrpplan/pkg/infrastructure/testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadItems(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, ItemsFile, strings.Join([]string{
		strings.Join(itemsHeader, ","),
		"F1_ENGINE,F-1 Engine,semi_finished,EA,3,false,minimum_qty,,,10,,2,4,1",
		"BOLT,Bolt,raw,EA,0,true,fixed_lot,100,,,,,,",
		"SHEET,Sheet,raw,M2,2,,poq,,3,,5,,,",
	}, "\n"))

	items, err := NewLoader().LoadItems(path)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, entities.Item{
		Code: "F1_ENGINE", Description: "F-1 Engine", Type: entities.SemiFinished, UnitOfMeasure: "EA",
		LeadTime: 3, LotSizing: entities.MinimumQty, MinOrderQty: 10, SafetyStock: 2, OnHand: 4, Allocated: 1,
	}, items[0])
	assert.True(t, items[1].AllowZeroLeadTime)
	assert.Equal(t, entities.FixedLot, items[1].LotSizing)
	assert.Equal(t, entities.Quantity(100), items[1].LotSize)
	assert.Equal(t, entities.PeriodOrderQuantity, items[2].LotSizing)
	assert.Equal(t, 3, items[2].PeriodsOfSupply)
	assert.Equal(t, entities.Quantity(5), items[2].RoundingMultiple)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty file", "", "must have a header row"},
		{"wrong header", "part_number,description\nA,B", "header mismatch"},
		{"short row", strings.Join(itemsHeader, ",") + "\nA,B", "row 2: expected 14 columns"},
		{"bad lead time", strings.Join(itemsHeader, ",") + "\nA,,,,x,,,,,,,,,", "invalid lead_time"},
		{"unknown policy", strings.Join(itemsHeader, ",") + "\nA,,,,1,,magic,,,,,,,", "unknown lot sizing policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, t.TempDir(), ItemsFile, tt.content)
			_, err := NewLoader().LoadItems(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoader_LoadBOM(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), BOMFile,
		"parent_code,child_code,qty_per,effective_from,effective_to\n"+
			"P,C,2.5,,\n"+
			"P,D,1,2,5\n")

	edges, err := NewLoader().LoadBOM(path)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.Equal(t, "2.5", edges[0].QtyPer.String())
	assert.Nil(t, edges[0].EffectiveTo)
	assert.Equal(t, 2, edges[1].EffectiveFrom)
	require.NotNil(t, edges[1].EffectiveTo)
	assert.Equal(t, 5, *edges[1].EffectiveTo)

	bad := writeTestFile(t, t.TempDir(), BOMFile, "parent_code,child_code,qty_per,effective_from,effective_to\nP,C,two,,\n")
	_, err = NewLoader().LoadBOM(bad)
	assert.ErrorContains(t, err, "invalid qty_per")
}

func TestLoader_LoadDirWithoutSupply(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, ItemsFile, strings.Join(itemsHeader, ",")+"\nA,,,,1,,,,,,,,,\n")
	writeTestFile(t, dir, BOMFile, strings.Join(bomHeader, ",")+"\n")
	writeTestFile(t, dir, DemandFile, strings.Join(demandHeader, ",")+"\nA,2,5,SO-1\n")

	req, err := NewLoader().LoadDir(dir, entities.Horizon{Buckets: 4, Unit: entities.Week})
	require.NoError(t, err)
	assert.Len(t, req.Items, 1)
	assert.Empty(t, req.BOM)
	assert.Equal(t, []entities.DemandEntry{{Item: "A", Bucket: 2, Quantity: 5, SourceRef: "SO-1"}}, req.Demand)
	assert.Empty(t, req.Supply)
}

func TestWriter_RoundTripsScenario(t *testing.T) {
	req := mrptesting.BuildSaturnScenario()
	to := 6
	req.BOM[0].EffectiveTo = &to
	dir := t.TempDir()

	require.NoError(t, NewWriter().WriteDir(dir, req))
	loaded, err := NewLoader().LoadDir(dir, req.Horizon)
	require.NoError(t, err)

	assert.Equal(t, req.Items, loaded.Items)
	assert.Equal(t, req.Demand, loaded.Demand)
	assert.Equal(t, req.Supply, loaded.Supply)
	require.Len(t, loaded.BOM, len(req.BOM))
	for i := range req.BOM {
		assert.Equal(t, req.BOM[i].Parent, loaded.BOM[i].Parent)
		assert.True(t, req.BOM[i].QtyPer.Equal(loaded.BOM[i].QtyPer))
		assert.Equal(t, req.BOM[i].EffectiveTo, loaded.BOM[i].EffectiveTo)
	}
}
