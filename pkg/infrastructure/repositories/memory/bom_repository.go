package memory

import (
	"context"
	"sync"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
)

// BOMRepository provides in-memory BOM storage indexed by parent
type BOMRepository struct {
	mu         sync.RWMutex
	edges      []entities.BOMEdge
	bomIndexes map[entities.ItemCode][]int
}

// NewBOMRepository creates a BOM repository
func NewBOMRepository(expectedEdges int) *BOMRepository {
	return &BOMRepository{
		edges:      make([]entities.BOMEdge, 0, expectedEdges),
		bomIndexes: make(map[entities.ItemCode][]int),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadEdges loads BOM edges into the repository
func (r *BOMRepository) LoadEdges(edges []entities.BOMEdge) {
	for _, edge := range edges {
		r.AddEdge(edge)
	}
}

// AddEdge adds a single BOM edge
func (r *BOMRepository) AddEdge(edge entities.BOMEdge) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bomIndexes[edge.Parent] = append(r.bomIndexes[edge.Parent], len(r.edges))
	r.edges = append(r.edges, edge)
}

// GetComponents returns the edges whose parent is the given item
func (r *BOMRepository) GetComponents(ctx context.Context, parent entities.ItemCode) ([]entities.BOMEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes := r.bomIndexes[parent]
	edges := make([]entities.BOMEdge, 0, len(indexes))
	for _, i := range indexes {
		edges = append(edges, r.edges[i])
	}
	return edges, nil
}

// GetAllEdges returns a copy of the full BOM
func (r *BOMRepository) GetAllEdges(ctx context.Context) ([]entities.BOMEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]entities.BOMEdge(nil), r.edges...), nil
}
