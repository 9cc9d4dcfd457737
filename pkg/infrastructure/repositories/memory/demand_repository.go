package memory

import (
	"context"
	"sync"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
)

// DemandRepository provides in-memory independent demand storage
type DemandRepository struct {
	mu      sync.RWMutex
	demands []entities.DemandEntry
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadDemands loads demand entries into the repository
func (r *DemandRepository) LoadDemands(demands []entities.DemandEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.demands = append(r.demands, demands...)
}

// GetDemand returns the demand entries that fall before the end of the horizon.
// Entries with negative buckets are kept so validation can reject them.
func (r *DemandRepository) GetDemand(ctx context.Context, horizon entities.Horizon) ([]entities.DemandEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var demands []entities.DemandEntry
	for _, d := range r.demands {
		if d.Bucket < horizon.Buckets {
			demands = append(demands, d)
		}
	}
	return demands, nil
}

// SupplyRepository provides in-memory scheduled receipt storage
type SupplyRepository struct {
	mu       sync.RWMutex
	receipts []entities.SupplyEntry
}

// NewSupplyRepository creates a new in-memory supply repository
func NewSupplyRepository() *SupplyRepository {
	return &SupplyRepository{}
}

// Verify interface compliance
var _ repositories.SupplyRepository = (*SupplyRepository)(nil)

// LoadReceipts loads scheduled receipts into the repository
func (r *SupplyRepository) LoadReceipts(receipts []entities.SupplyEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, receipts...)
}

// GetScheduledReceipts returns the receipts that fall before the end of the horizon
func (r *SupplyRepository) GetScheduledReceipts(ctx context.Context, horizon entities.Horizon) ([]entities.SupplyEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var receipts []entities.SupplyEntry
	for _, s := range r.receipts {
		if s.Bucket < horizon.Buckets {
			receipts = append(receipts, s)
		}
	}
	return receipts, nil
}
