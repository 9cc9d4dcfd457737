package mrp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	mrptesting "github.com/vsinha/mrpplan/pkg/infrastructure/testing"
)

type fakeRunStore struct {
	byDigest map[string]*dto.PlanningRunResult
	saves    int
	saveErr  error
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{byDigest: make(map[string]*dto.PlanningRunResult)}
}

func (f *fakeRunStore) FindByDigest(ctx context.Context, digest string) (*dto.PlanningRunResult, error) {
	return f.byDigest[digest], nil
}

func (f *fakeRunStore) SaveRun(ctx context.Context, result *dto.PlanningRunResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.byDigest[result.InputDigest] = result
	return nil
}

func TestMRPService_PlanStampsIdentity(t *testing.T) {
	service := NewMRPService(NewEngine(), nil, zap.NewNop())
	req := mrptesting.BuildSaturnScenario()

	result, err := service.Plan(context.Background(), req)
	require.NoError(t, err)

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)

	digest, err := dto.Digest(req)
	require.NoError(t, err)
	assert.Equal(t, digest, result.InputDigest)

	again, err := service.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, result.RunID, again.RunID)
	assert.Equal(t, result.InputDigest, again.InputDigest)
	assert.Equal(t, result.Items, again.Items)
}

func TestMRPService_ReusesStoredRun(t *testing.T) {
	store := newFakeRunStore()
	service := NewMRPService(NewEngine(), store, zap.NewNop())
	req := mrptesting.BuildSaturnScenario()

	first, err := service.Plan(context.Background(), req)
	require.NoError(t, err)
	second, err := service.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, first.RunID, second.RunID)
}

func TestMRPService_SaveFailure(t *testing.T) {
	store := newFakeRunStore()
	store.saveErr = errors.New("disk full")
	service := NewMRPService(NewEngine(), store, zap.NewNop())

	result, err := service.Plan(context.Background(), mrptesting.BuildSaturnScenario())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "disk full")
}

// lateRunStore misses the first lookup, then finds that another caller saved the run
type lateRunStore struct {
	winner  *dto.PlanningRunResult
	lookups int
}

func (l *lateRunStore) FindByDigest(ctx context.Context, digest string) (*dto.PlanningRunResult, error) {
	l.lookups++
	if l.lookups == 1 {
		return nil, nil
	}
	return l.winner, nil
}

func (l *lateRunStore) SaveRun(ctx context.Context, result *dto.PlanningRunResult) error {
	return fmt.Errorf("%w: %s", ErrRunExists, result.InputDigest)
}

func TestMRPService_ConcurrentSaveReturnsStoredRun(t *testing.T) {
	req := mrptesting.BuildSaturnScenario()
	winner, err := NewMRPService(NewEngine(), nil, zap.NewNop()).Plan(context.Background(), req)
	require.NoError(t, err)

	store := &lateRunStore{winner: winner}
	result, err := NewMRPService(NewEngine(), store, zap.NewNop()).Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, winner.RunID, result.RunID)
	assert.Equal(t, 2, store.lookups)
}

func TestMRPService_RejectedRunIsNotSaved(t *testing.T) {
	store := newFakeRunStore()
	service := NewMRPService(NewEngine(), store, zap.NewNop())

	req := mrptesting.BuildSaturnScenario()
	req.BOM = append(req.BOM, mrptesting.Edge("VALVE", "SATURN_V", "1"))

	_, err := service.Plan(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrCycleDetected))
	assert.Zero(t, store.saves)
}

func TestMRPService_PlanFromRepositories(t *testing.T) {
	req := mrptesting.BuildSaturnScenario()
	itemRepo, bomRepo, demandRepo, supplyRepo := mrptesting.BuildRepositories(req)
	service := NewMRPService(NewEngine(), nil, zap.NewNop())

	fromRepos, err := service.PlanFromRepositories(context.Background(), req.Horizon, itemRepo, bomRepo, demandRepo, supplyRepo)
	require.NoError(t, err)

	direct, err := service.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, direct.InputDigest, fromRepos.InputDigest)
	assert.Equal(t, direct.Items, fromRepos.Items)
}
