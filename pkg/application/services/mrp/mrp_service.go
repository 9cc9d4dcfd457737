package mrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/repositories"
)

// ErrRunExists is returned by SaveRun when a run with the same input digest is already stored
var ErrRunExists = errors.New("planning run with this input digest already stored")

// RunStore persists completed planning runs keyed by their input digest
type RunStore interface {
	// FindByDigest returns nil, nil when no run with that digest exists
	FindByDigest(ctx context.Context, digest string) (*dto.PlanningRunResult, error)
	SaveRun(ctx context.Context, result *dto.PlanningRunResult) error
}

// MRPService runs planning requests through the engine, stamps run identity
// and optionally persists results
type MRPService struct {
	engine *Engine
	store  RunStore
	logger *zap.Logger
}

// NewMRPService creates a service. store may be nil.
func NewMRPService(engine *Engine, store RunStore, logger *zap.Logger) *MRPService {
	return &MRPService{
		engine: engine,
		store:  store,
		logger: logger.Named("mrp"),
	}
}

// Plan runs a request. Identical requests already in the store return the stored run.
func (s *MRPService) Plan(ctx context.Context, req dto.PlanningRunRequest) (*dto.PlanningRunResult, error) {
	digest, err := dto.Digest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to digest planning request: %w", err)
	}
	logger := s.logger.With(zap.String("input_digest", digest))

	if s.store != nil {
		existing, err := s.store.FindByDigest(ctx, digest)
		if err != nil {
			return nil, fmt.Errorf("failed to look up planning run: %w", err)
		}
		if existing != nil {
			logger.Info("Reusing stored planning run", zap.String("run_id", existing.RunID))
			return existing, nil
		}
	}

	logger.Debug("Starting planning run",
		zap.Int("items", len(req.Items)),
		zap.Int("bom_edges", len(req.BOM)),
		zap.Int("buckets", req.Horizon.Buckets))

	start := time.Now()
	result, err := s.engine.Run(ctx, req.ToRun())
	if err != nil {
		logger.Warn("Planning run rejected", zap.Error(err))
		return nil, err
	}

	result.RunID = uuid.NewString()
	result.InputDigest = digest

	for _, cond := range append(append([]entities.Condition(nil), result.PastDue...), result.Failures...) {
		logger.Warn("Item flagged",
			zap.String("run_id", result.RunID),
			zap.String("item", string(cond.Item)),
			zap.String("kind", string(cond.Kind)),
			zap.Ints("buckets", cond.Buckets))
	}

	logger.Info("Planning run completed",
		zap.String("run_id", result.RunID),
		zap.Int("items", result.Summary.Items),
		zap.Int("planned_orders", result.Summary.PlannedOrders),
		zap.Int("past_due_items", result.Summary.PastDueItems),
		zap.Int("failed_items", result.Summary.FailedItems),
		zap.Duration("elapsed", time.Since(start)))

	if s.store != nil {
		if err := s.store.SaveRun(ctx, result); err != nil {
			if errors.Is(err, ErrRunExists) {
				return s.storedRun(ctx, logger, digest)
			}
			return nil, fmt.Errorf("failed to save planning run %s: %w", result.RunID, err)
		}
	}

	return result, nil
}

// storedRun returns the run another request stored for digest first
func (s *MRPService) storedRun(ctx context.Context, logger *zap.Logger, digest string) (*dto.PlanningRunResult, error) {
	existing, err := s.store.FindByDigest(ctx, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to look up planning run: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("planning run for digest %s reported stored but not found", digest)
	}
	logger.Info("Reusing planning run stored concurrently", zap.String("run_id", existing.RunID))
	return existing, nil
}

// PlanFromRepositories materializes every input from the collaborators before planning
func (s *MRPService) PlanFromRepositories(
	ctx context.Context,
	horizon entities.Horizon,
	itemRepo repositories.ItemRepository,
	bomRepo repositories.BOMRepository,
	demandRepo repositories.DemandRepository,
	supplyRepo repositories.SupplyRepository,
) (*dto.PlanningRunResult, error) {
	items, err := itemRepo.GetAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	edges, err := bomRepo.GetAllEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch BOM: %w", err)
	}
	demand, err := demandRepo.GetDemand(ctx, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch demand: %w", err)
	}
	supply, err := supplyRepo.GetScheduledReceipts(ctx, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled receipts: %w", err)
	}

	return s.Plan(ctx, dto.PlanningRunRequest{
		Horizon: horizon,
		Items:   items,
		BOM:     edges,
		Demand:  demand,
		Supply:  supply,
	})
}
