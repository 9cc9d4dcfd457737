package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
)

// ItemRepository provides in-memory item storage
type ItemRepository struct {
	mu       sync.RWMutex
	items    []entities.Item
	itemsMap map[entities.ItemCode]int
}

// NewItemRepository creates a new in-memory item repository
func NewItemRepository(expectedItems int) *ItemRepository {
	return &ItemRepository{
		items:    make([]entities.Item, 0, expectedItems),
		itemsMap: make(map[entities.ItemCode]int, expectedItems),
	}
}

// Verify interface compliance
var _ repositories.ItemRepository = (*ItemRepository)(nil)

// LoadItems loads items into the repository
func (r *ItemRepository) LoadItems(items []entities.Item) {
	for _, item := range items {
		r.SaveItem(item)
	}
}

// SaveItem adds or replaces an item
func (r *ItemRepository) SaveItem(item entities.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.itemsMap[item.Code]; exists {
		r.items[index] = item
		return
	}
	r.itemsMap[item.Code] = len(r.items)
	r.items = append(r.items, item)
}

// GetItem returns item master data for an item code
func (r *ItemRepository) GetItem(ctx context.Context, code entities.ItemCode) (*entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.itemsMap[code]
	if !exists {
		return nil, fmt.Errorf("item not found: %s", code)
	}
	item := r.items[index]
	return &item, nil
}

// GetAllItems returns a copy of every item in load order
func (r *ItemRepository) GetAllItems(ctx context.Context) ([]entities.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]entities.Item(nil), r.items...), nil
}
