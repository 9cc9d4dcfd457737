package repositories

import (
	"context"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// ItemRepository provides read-only access to item master data
type ItemRepository interface {
	GetItem(ctx context.Context, code entities.ItemCode) (*entities.Item, error)
	GetAllItems(ctx context.Context) ([]entities.Item, error)
}
