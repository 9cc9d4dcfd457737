package memory

import (
	"github.com/vsinha/mrpplan/pkg/application/dto"
)

// Repositories bundles the in-memory collaborators of one scenario
type Repositories struct {
	Items  *ItemRepository
	BOM    *BOMRepository
	Demand *DemandRepository
	Supply *SupplyRepository
}

// NewRepositories loads every part of a request into fresh repositories
func NewRepositories(req dto.PlanningRunRequest) *Repositories {
	repos := &Repositories{
		Items:  NewItemRepository(len(req.Items)),
		BOM:    NewBOMRepository(len(req.BOM)),
		Demand: NewDemandRepository(),
		Supply: NewSupplyRepository(),
	}
	repos.Items.LoadItems(req.Items)
	repos.BOM.LoadEdges(req.BOM)
	repos.Demand.LoadDemands(req.Demand)
	repos.Supply.LoadReceipts(req.Supply)
	return repos
}
