package repositories

import (
	"context"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// BOMRepository provides read-only access to Bill of Materials data
type BOMRepository interface {
	// GetComponents returns the edges whose parent is the given item
	GetComponents(ctx context.Context, parent entities.ItemCode) ([]entities.BOMEdge, error)
	// GetAllEdges returns the full BOM snapshot
	GetAllEdges(ctx context.Context) ([]entities.BOMEdge, error)
}
