package mrp

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services/bom_validator"
	"github.com/vsinha/mrpplan/pkg/domain/services/llc"
)

// EngineConfig holds configuration for the netting engine
type EngineConfig struct {
	// Workers bounds how many items of one low-level code are netted at once.
	// Values <= 1 net strictly sequentially.
	Workers int
	// MaxBuckets caps the horizon of a run below entities.MaxHorizonBuckets; 0 keeps that ceiling
	MaxBuckets int
}

// Engine runs gross-to-net netting over a planning snapshot.
// It performs no I/O and keeps no state between runs.
type Engine struct {
	config EngineConfig
}

// NewEngine creates a sequential engine
func NewEngine() *Engine {
	return NewEngineWithConfig(EngineConfig{Workers: 1})
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(config EngineConfig) *Engine {
	return &Engine{config: config}
}

// Run validates the snapshot and nets every item tier by tier.
// Fatal errors (*entities.ValidationError, *entities.CycleError, cancellation)
// return no result at all.
func (e *Engine) Run(ctx context.Context, run entities.PlanningRun) (*dto.PlanningRunResult, error) {
	if limit := e.config.MaxBuckets; limit > 0 && run.Horizon.Buckets > limit {
		return nil, &entities.ValidationError{Problems: []string{
			fmt.Sprintf("horizon of %d buckets exceeds the configured maximum of %d", run.Horizon.Buckets, limit),
		}}
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	if err := bom_validator.ValidateBOM(run.BOM).Err(); err != nil {
		return nil, err
	}

	resolution, err := llc.Resolve(run.Items, run.BOM)
	if err != nil {
		return nil, err
	}

	p := newPlanner(run, BuildDependencyGraph(run.Items, run.BOM), resolution.Codes)

	// A tier starts only after every lower tier is complete
	for level, tier := range resolution.Tiers {
		if err := e.netTier(ctx, p, tier); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("planning run cancelled at low-level code %d: %w", level, ctxErr)
			}
			return nil, err
		}
	}

	return p.assemble(), nil
}

func (e *Engine) netTier(ctx context.Context, p *planner, tier []entities.ItemCode) error {
	if e.config.Workers <= 1 || len(tier) == 1 {
		return p.netInOrder(ctx, tier)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for _, code := range tier {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return p.netItem(code)
		})
	}
	return g.Wait()
}

// netInOrder nets items in exactly the given order, ignoring low-level codes
func (p *planner) netInOrder(ctx context.Context, order []entities.ItemCode) error {
	for _, code := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.netItem(code); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) assemble() *dto.PlanningRunResult {
	plans := make([]dto.ItemPlan, 0, len(p.slots))
	var conditions []entities.Condition
	for _, slot := range p.slots {
		if slot == nil {
			continue
		}
		plans = append(plans, slot.plan)
		conditions = append(conditions, slot.conditions...)
	}
	return Assemble(p.horizon, plans, conditions)
}
