package testing

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/memory"
)

// Edge builds an always-effective BOM edge; qtyPer is parsed as a decimal
func Edge(parent, child entities.ItemCode, qtyPer string) entities.BOMEdge {
	return entities.BOMEdge{Parent: parent, Child: child, QtyPer: decimal.RequireFromString(qtyPer)}
}

// BuildSaturnScenario builds a four-level launch vehicle scenario over eight weeks.
// VALVE is shared by F1_ENGINE and TURBOPUMP, so its low-level code is 3.
func BuildSaturnScenario() dto.PlanningRunRequest {
	return dto.PlanningRunRequest{
		Horizon: entities.Horizon{Buckets: 8, Unit: entities.Week},
		Items: []entities.Item{
			{
				Code:          "SATURN_V",
				Description:   "Saturn V Launch Vehicle",
				Type:          entities.Finished,
				UnitOfMeasure: "EA",
				LeadTime:      2,
				LotSizing:     entities.LotForLot,
			},
			{
				Code:          "F1_ENGINE",
				Description:   "F-1 Engine Assembly",
				Type:          entities.SemiFinished,
				UnitOfMeasure: "EA",
				LeadTime:      1,
				LotSizing:     entities.MinimumQty,
				MinOrderQty:   10,
				SafetyStock:   2,
				OnHand:        4,
			},
			{
				Code:          "TURBOPUMP",
				Description:   "F-1 Turbopump Assembly",
				Type:          entities.SemiFinished,
				UnitOfMeasure: "EA",
				LeadTime:      1,
				LotSizing:     entities.FixedLot,
				LotSize:       12,
			},
			{
				Code:             "VALVE",
				Description:      "Propellant Valve",
				Type:             entities.RawMaterial,
				UnitOfMeasure:    "EA",
				LeadTime:         1,
				LotSizing:        entities.LotForLot,
				RoundingMultiple: 5,
			},
		},
		BOM: []entities.BOMEdge{
			Edge("SATURN_V", "F1_ENGINE", "5"),
			Edge("F1_ENGINE", "TURBOPUMP", "1"),
			Edge("F1_ENGINE", "VALVE", "4"),
			Edge("TURBOPUMP", "VALVE", "2"),
		},
		Demand: []entities.DemandEntry{
			{Item: "SATURN_V", Bucket: 5, Quantity: 1, SourceRef: "SO-1"},
			{Item: "SATURN_V", Bucket: 7, Quantity: 1, SourceRef: "SO-2"},
		},
		Supply: []entities.SupplyEntry{
			{Item: "VALVE", Bucket: 1, Quantity: 20, SourceRef: "PO-1"},
		},
	}
}

// BuildRepositories loads a request into in-memory collaborators
func BuildRepositories(req dto.PlanningRunRequest) (*memory.ItemRepository, *memory.BOMRepository, *memory.DemandRepository, *memory.SupplyRepository) {
	repos := memory.NewRepositories(req)
	return repos.Items, repos.BOM, repos.Demand, repos.Supply
}
