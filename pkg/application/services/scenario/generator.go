// Package scenario generates random but reproducible multi-level planning runs.
package scenario

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Config holds configuration for scenario generation
type Config struct {
	Items    int // Total number of items to generate
	MaxDepth int // Maximum depth of BOM tree
	Demands  int // Number of top-level demand lines
	Supplies int // Number of scheduled receipts
	Buckets  int // Horizon length
	Unit     entities.BucketUnit
	// Inventory is the on-hand multiplier against one complete assembly (0.5 = half coverage)
	Inventory float64
	Seed      int64 // Random seed for reproducible generation; 0 picks one from the clock
}

// Validate checks the generator configuration
func (c Config) Validate() error {
	switch {
	case c.Items <= 0:
		return fmt.Errorf("items must be positive, got %d", c.Items)
	case c.MaxDepth <= 0:
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	case c.Buckets <= 0:
		return fmt.Errorf("buckets must be positive, got %d", c.Buckets)
	case c.Demands < 0 || c.Supplies < 0:
		return fmt.Errorf("demand and supply counts cannot be negative")
	case c.Inventory < 0:
		return fmt.Errorf("inventory multiplier cannot be negative, got %.2f", c.Inventory)
	}
	return nil
}

// node represents an item in the generated BOM
type node struct {
	code     entities.ItemCode
	level    int
	children []*node
	parents  []*node
	qtyPer   []int64
	isRoot   bool
}

// Generator builds scenarios from a seeded source
type Generator struct {
	config Config
	rand   *rand.Rand
}

// NewGenerator creates a new generator
func NewGenerator(config Config) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Unit == "" {
		config.Unit = entities.Week
	}

	return &Generator{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// Generate builds a complete planning request. The same seed yields the same request.
func (g *Generator) Generate() (dto.PlanningRunRequest, error) {
	if err := g.config.Validate(); err != nil {
		return dto.PlanningRunRequest{}, err
	}

	nodes := g.generateBOMTree()

	req := dto.PlanningRunRequest{
		Horizon: entities.Horizon{Buckets: g.config.Buckets, Unit: g.config.Unit},
	}

	counts := partCounts(nodes)
	for _, n := range nodes {
		req.Items = append(req.Items, g.generateItem(n, counts[n.code]))
		for i, child := range n.children {
			edge, err := entities.NewBOMEdge(n.code, child.code, decimal.NewFromInt(n.qtyPer[i]))
			if err != nil {
				return dto.PlanningRunRequest{}, fmt.Errorf("generated BOM edge: %w", err)
			}
			req.BOM = append(req.BOM, *edge)
		}
	}

	var roots []*node
	for _, n := range nodes {
		if n.isRoot {
			roots = append(roots, n)
		}
	}
	for i := 0; i < g.config.Demands; i++ {
		root := roots[g.rand.Intn(len(roots))]
		req.Demand = append(req.Demand, entities.DemandEntry{
			Item:      root.code,
			Bucket:    g.rand.Intn(g.config.Buckets),
			Quantity:  entities.Quantity(1 + g.rand.Intn(5)),
			SourceRef: fmt.Sprintf("SO-%04d", i+1),
		})
	}
	for i := 0; i < g.config.Supplies; i++ {
		n := nodes[g.rand.Intn(len(nodes))]
		req.Supply = append(req.Supply, entities.SupplyEntry{
			Item:      n.code,
			Bucket:    g.rand.Intn(g.config.Buckets),
			Quantity:  entities.Quantity(1 + g.rand.Intn(20)),
			SourceRef: fmt.Sprintf("PO-%04d", i+1),
		})
	}

	return req, nil
}

// generateBOMTree creates a layered DAG with shared components.
// Nodes are returned in creation order so generation is reproducible.
func (g *Generator) generateBOMTree() []*node {
	var nodes []*node

	numRoots := max(1, g.config.Items/50+g.rand.Intn(3))
	numRoots = min(numRoots, g.config.Items)
	var roots []*node
	for i := 0; i < numRoots; i++ {
		n := &node{code: entities.ItemCode(fmt.Sprintf("ASSY-%03d", i+1)), isRoot: true}
		nodes = append(nodes, n)
		roots = append(roots, n)
	}

	currentLevel := roots
	level := 0
	for level < g.config.MaxDepth && len(nodes) < g.config.Items {
		level++
		var nextLevel []*node

		for _, parent := range currentLevel {
			numChildren := 2 + g.rand.Intn(4)
			for c := 0; c < numChildren && len(nodes) < g.config.Items; c++ {
				var child *node
				// 20% chance to reuse an existing part from this level or lower
				if level > 1 && g.rand.Float64() < 0.2 {
					if candidates := shareable(nodes, level, parent); len(candidates) > 0 {
						child = candidates[g.rand.Intn(len(candidates))]
					}
				}
				if child == nil {
					child = &node{code: entities.ItemCode(fmt.Sprintf("PART-L%d-%04d", level, len(nodes))), level: level}
					nodes = append(nodes, child)
					nextLevel = append(nextLevel, child)
				}
				if linked(parent, child) {
					continue
				}

				qty := 1 + g.rand.Intn(4)
				if level > 2 {
					qty += g.rand.Intn(4)
				}
				parent.children = append(parent.children, child)
				parent.qtyPer = append(parent.qtyPer, int64(qty))
				child.parents = append(child.parents, parent)
			}
		}

		if len(nextLevel) == 0 {
			break
		}
		currentLevel = nextLevel
	}

	return nodes
}

func linked(parent, child *node) bool {
	for _, c := range parent.children {
		if c == child {
			return true
		}
	}
	return false
}

// shareable finds existing parts that can be reused without creating a cycle
func shareable(nodes []*node, level int, parent *node) []*node {
	var candidates []*node
	for _, n := range nodes {
		if n.level >= level-1 && len(n.parents) < 3 && n != parent && !isAncestor(n, parent, make(map[*node]bool)) {
			candidates = append(candidates, n)
		}
	}
	return candidates
}

// isAncestor reports whether candidate is above n in the BOM
func isAncestor(candidate, n *node, visited map[*node]bool) bool {
	if visited[n] {
		return false
	}
	visited[n] = true
	for _, p := range n.parents {
		if p == candidate || isAncestor(candidate, p, visited) {
			return true
		}
	}
	return false
}

func (g *Generator) generateItem(n *node, perAssembly int64) entities.Item {
	item := entities.Item{
		Code:          n.code,
		UnitOfMeasure: "EA",
		OnHand:        entities.Quantity(float64(perAssembly) * g.config.Inventory),
	}

	switch {
	case n.isRoot:
		item.Type = entities.Finished
		item.Description = fmt.Sprintf("%s Complete Assembly", n.code)
	case len(n.children) > 0:
		item.Type = entities.SemiFinished
		item.Description = fmt.Sprintf("%s Subassembly", n.code)
	default:
		item.Type = entities.RawMaterial
		item.Description = fmt.Sprintf("%s Component", n.code)
	}

	// Deeper levels are purchased parts with shorter lead times
	switch {
	case n.isRoot:
		item.LeadTime = 2 + g.rand.Intn(2)
	case n.level <= 2:
		item.LeadTime = 1 + g.rand.Intn(3)
	default:
		item.LeadTime = 1 + g.rand.Intn(2)
	}

	if n.isRoot || n.level <= 1 {
		item.LotSizing = entities.LotForLot
		return item
	}

	roll := g.rand.Float64()
	switch {
	case roll < 0.5:
		item.LotSizing = entities.LotForLot
		item.SafetyStock = entities.Quantity(g.rand.Intn(3))
	case roll < 0.7:
		item.LotSizing = entities.FixedLot
		item.LotSize = entities.Quantity(10 + g.rand.Intn(40))
	case roll < 0.85:
		item.LotSizing = entities.PeriodOrderQuantity
		item.PeriodsOfSupply = 2 + g.rand.Intn(3)
	default:
		item.LotSizing = entities.MinimumQty
		item.MinOrderQty = entities.Quantity(5 + g.rand.Intn(15))
		item.RoundingMultiple = 5
	}

	return item
}

// partCounts calculates how many of each part one unit of every root consumes
func partCounts(nodes []*node) map[entities.ItemCode]int64 {
	counts := make(map[entities.ItemCode]int64)
	var explode func(n *node, qty int64)
	explode = func(n *node, qty int64) {
		counts[n.code] += qty
		for i, child := range n.children {
			explode(child, qty*n.qtyPer[i])
		}
	}
	for _, n := range nodes {
		if n.isRoot {
			explode(n, 1)
		}
	}
	return counts
}
