package repositories

import (
	"context"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// DemandRepository provides independent demand for a planning horizon
type DemandRepository interface {
	GetDemand(ctx context.Context, horizon entities.Horizon) ([]entities.DemandEntry, error)
}

// SupplyRepository provides scheduled receipts from open orders for a planning horizon
type SupplyRepository interface {
	GetScheduledReceipts(ctx context.Context, horizon entities.Horizon) ([]entities.SupplyEntry, error)
}
