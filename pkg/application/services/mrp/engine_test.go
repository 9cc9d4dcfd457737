package mrp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/application/services/scenario"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services/llc"
	mrptesting "github.com/vsinha/mrpplan/pkg/infrastructure/testing"
)

func week(buckets int) entities.Horizon {
	return entities.Horizon{Buckets: buckets, Unit: entities.Week}
}

func runEngine(t *testing.T, req dto.PlanningRunRequest) *dto.PlanningRunResult {
	t.Helper()
	result, err := NewEngine().Run(context.Background(), req.ToRun())
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func planOf(t *testing.T, result *dto.PlanningRunResult, code entities.ItemCode) *dto.ItemPlan {
	t.Helper()
	plan, ok := result.Item(code)
	require.True(t, ok, "no plan for %s", code)
	return plan
}

func column(rows []entities.PlanningLedgerRow, get func(entities.PlanningLedgerRow) entities.Quantity) []entities.Quantity {
	values := make([]entities.Quantity, len(rows))
	for i, row := range rows {
		values[i] = get(row)
	}
	return values
}

func receipts(rows []entities.PlanningLedgerRow) []entities.Quantity {
	return column(rows, func(r entities.PlanningLedgerRow) entities.Quantity { return r.PlannedOrderReceipt })
}

func releases(rows []entities.PlanningLedgerRow) []entities.Quantity {
	return column(rows, func(r entities.PlanningLedgerRow) entities.Quantity { return r.PlannedOrderRelease })
}

func gross(rows []entities.PlanningLedgerRow) []entities.Quantity {
	return column(rows, func(r entities.PlanningLedgerRow) entities.Quantity { return r.GrossRequirement })
}

// assertLedgerInvariants checks the balance, no under-ordering and fixed lot rules on every row
func assertLedgerInvariants(t *testing.T, req dto.PlanningRunRequest, result *dto.PlanningRunResult) {
	t.Helper()
	items := make(map[entities.ItemCode]entities.Item, len(req.Items))
	for _, item := range req.Items {
		items[item.Code] = item
	}

	require.Len(t, result.Items, len(req.Items))
	for _, plan := range result.Items {
		item := items[plan.Item]
		require.Len(t, plan.Rows, req.Horizon.Buckets, "item %s", plan.Item)

		previous := item.OnHand - item.Allocated
		for b, row := range plan.Rows {
			assert.Equal(t, b, row.Bucket)
			assert.Equal(t, previous, row.BeginningOnHand, "item %s bucket %d beginning balance", plan.Item, b)
			assert.Equal(t, previous+row.ScheduledReceipt+row.PlannedOrderReceipt-row.GrossRequirement, row.ProjectedOnHand,
				"item %s bucket %d balance", plan.Item, b)
			assert.Equal(t, row.IndependentDemand+row.DependentDemand, row.GrossRequirement)
			if row.NetRequirement > 0 {
				assert.GreaterOrEqual(t, row.PlannedOrderReceipt, row.NetRequirement, "item %s bucket %d under-ordered", plan.Item, b)
			}
			if item.LotSizing == entities.FixedLot && item.RoundingMultiple == 0 && row.PlannedOrderReceipt > 0 {
				assert.Zero(t, row.PlannedOrderReceipt%item.LotSize, "item %s bucket %d not a lot multiple", plan.Item, b)
			}
			previous = row.ProjectedOnHand
		}
	}
}

func TestEngine_SingleLevelLotForLot(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(6),
		Items:   []entities.Item{{Code: "X", LeadTime: 2, OnHand: 50}},
		Demand:  []entities.DemandEntry{{Item: "X", Bucket: 4, Quantity: 80}},
	})

	x := planOf(t, result, "X")
	assert.Equal(t, entities.Quantity(30), x.Rows[4].NetRequirement)
	assert.Equal(t, []entities.Quantity{0, 0, 0, 0, 30, 0}, receipts(x.Rows))
	assert.Equal(t, []entities.Quantity{0, 0, 30, 0, 0, 0}, releases(x.Rows))
	assert.Equal(t, entities.Quantity(50), x.Rows[3].ProjectedOnHand)
	assert.Equal(t, entities.Quantity(0), x.Rows[4].ProjectedOnHand)

	require.Len(t, x.PlannedOrders, 1)
	assert.Equal(t, entities.PlannedOrder{Item: "X", Quantity: 30, ReceiptBucket: 4, ReleaseBucket: 2}, x.PlannedOrders[0])
	assert.Empty(t, result.PastDue)
	assert.Empty(t, result.Failures)
}

func TestEngine_SafetyStockMaintained(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(4),
		Items:   []entities.Item{{Code: "Y", LeadTime: 1, SafetyStock: 20, OnHand: 25}},
		Demand:  []entities.DemandEntry{{Item: "Y", Bucket: 1, Quantity: 10}},
	})

	y := planOf(t, result, "Y")
	assert.Equal(t, entities.Quantity(25), y.Rows[1].BeginningOnHand)
	assert.Equal(t, entities.Quantity(5), y.Rows[1].NetRequirement)
	assert.Equal(t, entities.Quantity(5), y.Rows[1].PlannedOrderReceipt)
	assert.Equal(t, entities.Quantity(20), y.Rows[1].ProjectedOnHand)
	assert.Equal(t, entities.Quantity(5), y.Rows[0].PlannedOrderRelease)
	assert.Zero(t, y.Rows[0].NetRequirement)
}

func TestEngine_PastDueRelease(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(4),
		Items:   []entities.Item{{Code: "Z", LeadTime: 6}},
		Demand:  []entities.DemandEntry{{Item: "Z", Bucket: 1, Quantity: 10}},
	})

	z := planOf(t, result, "Z")
	assert.Equal(t, entities.Quantity(10), z.Rows[1].NetRequirement)
	assert.Equal(t, entities.Quantity(10), z.Rows[1].PlannedOrderReceipt)
	assert.Equal(t, []entities.Quantity{0, 0, 0, 0}, releases(z.Rows))

	// The order is kept, not silently dropped
	require.Len(t, z.PlannedOrders, 1)
	order := z.PlannedOrders[0]
	assert.Equal(t, -5, order.ReleaseBucket)
	assert.True(t, order.PastDue)

	require.Len(t, result.PastDue, 1)
	assert.Equal(t, entities.ItemCode("Z"), result.PastDue[0].Item)
	assert.Equal(t, entities.PastDuePlannedOrder, result.PastDue[0].Kind)
	assert.Equal(t, []int{-5}, result.PastDue[0].Buckets)
	assert.Contains(t, result.PastDue[0].Reason, "bucket -5")

	// Without the late order nothing covers buckets 1..3
	require.Len(t, result.Failures, 1)
	assert.Equal(t, entities.PlanningFailure, result.Failures[0].Kind)
	assert.Equal(t, []int{1, 2, 3}, result.Failures[0].Buckets)
	assert.Equal(t, 1, result.Summary.PastDueItems)
	assert.Equal(t, 1, result.Summary.FailedItems)
}

func twoLevelRequest() dto.PlanningRunRequest {
	return dto.PlanningRunRequest{
		Horizon: week(6),
		Items: []entities.Item{
			{Code: "P", LeadTime: 1},
			{Code: "C", LeadTime: 1, OnHand: 500},
		},
		BOM:    []entities.BOMEdge{mrptesting.Edge("P", "C", "2")},
		Demand: []entities.DemandEntry{{Item: "P", Bucket: 4, Quantity: 100, SourceRef: "SO-100"}},
	}
}

func TestEngine_DependentDemandFromParentRelease(t *testing.T) {
	req := twoLevelRequest()
	result := runEngine(t, req)

	p := planOf(t, result, "P")
	assert.Equal(t, entities.Quantity(100), p.Rows[3].PlannedOrderRelease)

	c := planOf(t, result, "C")
	assert.Equal(t, entities.Quantity(200), c.Rows[3].DependentDemand)
	assert.Equal(t, entities.Quantity(200), c.Rows[3].GrossRequirement)
	assert.Equal(t, []entities.DemandPeg{{Bucket: 3, Quantity: 200, Source: "P", Dependent: true}}, c.Pegging)
	assert.Equal(t, 0, p.LowLevelCode)
	assert.Equal(t, 1, c.LowLevelCode)

	// Identical inputs give identical output
	for i := 0; i < 3; i++ {
		assert.Equal(t, result, runEngine(t, req))
	}
}

func TestEngine_LowLevelCodeOrderingMatters(t *testing.T) {
	req := twoLevelRequest()
	baseline := planOf(t, runEngine(t, req), "C").Rows[3].GrossRequirement
	require.Equal(t, entities.Quantity(200), baseline)

	run := req.ToRun()
	resolution, err := llc.Resolve(run.Items, run.BOM)
	require.NoError(t, err)

	reversed := make([]entities.ItemCode, len(resolution.Order))
	for i, code := range resolution.Order {
		reversed[len(reversed)-1-i] = code
	}
	require.Equal(t, []entities.ItemCode{"C", "P"}, reversed)

	p := newPlanner(run, BuildDependencyGraph(run.Items, run.BOM), resolution.Codes)
	require.NoError(t, p.netInOrder(context.Background(), reversed))

	wrong := p.plan("C").plan.Rows[3].GrossRequirement
	assert.NotEqual(t, baseline, wrong)
	assert.Zero(t, wrong)
}

func TestEngine_CycleRejected(t *testing.T) {
	result, err := NewEngine().Run(context.Background(), dto.PlanningRunRequest{
		Horizon: week(4),
		Items:   []entities.Item{{Code: "A", LeadTime: 1}, {Code: "B", LeadTime: 1}},
		BOM:     []entities.BOMEdge{mrptesting.Edge("A", "B", "1"), mrptesting.Edge("B", "A", "1")},
		Demand:  []entities.DemandEntry{{Item: "A", Bucket: 2, Quantity: 5}},
	}.ToRun())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, entities.ErrCycleDetected))

	var cycleErr *entities.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []entities.ItemCode{"A", "B", "A"}, cycleErr.Path)
}

func TestEngine_InvalidInputRejected(t *testing.T) {
	valid := func() dto.PlanningRunRequest { return twoLevelRequest() }

	tests := []struct {
		name    string
		mutate  func(*dto.PlanningRunRequest)
		problem string
	}{
		{
			name:    "negative demand",
			mutate:  func(r *dto.PlanningRunRequest) { r.Demand[0].Quantity = -1 },
			problem: "quantity cannot be negative",
		},
		{
			name:    "edge to missing item",
			mutate:  func(r *dto.PlanningRunRequest) { r.BOM = append(r.BOM, mrptesting.Edge("P", "GHOST", "1")) },
			problem: "child item not found",
		},
		{
			name:    "zero lead time not allowed",
			mutate:  func(r *dto.PlanningRunRequest) { r.Items[0].LeadTime = 0 },
			problem: "lead time must be positive",
		},
		{
			name:    "unknown lot sizing policy",
			mutate:  func(r *dto.PlanningRunRequest) { r.Items[1].LotSizing = entities.LotSizingPolicy(42) },
			problem: "unknown lot sizing policy",
		},
		{
			name:    "demand outside horizon",
			mutate:  func(r *dto.PlanningRunRequest) { r.Demand[0].Bucket = 6 },
			problem: "outside horizon",
		},
		{
			name: "duplicate edge",
			mutate: func(r *dto.PlanningRunRequest) {
				r.BOM = append(r.BOM, mrptesting.Edge("P", "C", "3"))
			},
			problem: "duplicate BOM edges",
		},
		{
			name:    "horizon too long",
			mutate:  func(r *dto.PlanningRunRequest) { r.Horizon.Buckets = 1 << 62 },
			problem: "horizon cannot exceed 10000 buckets",
		},
		{
			name: "oversized fixed lot",
			mutate: func(r *dto.PlanningRunRequest) {
				r.Items[1].LotSizing = entities.FixedLot
				r.Items[1].LotSize = 1 << 62
			},
			problem: "lot size cannot exceed",
		},
		{
			name:    "oversized demand",
			mutate:  func(r *dto.PlanningRunRequest) { r.Demand[0].Quantity = 1<<62 + 5 },
			problem: "quantity cannot exceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			result, err := NewEngine().Run(context.Background(), req.ToRun())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, entities.ErrInvalidInput), "got %v", err)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestEngine_ConfiguredHorizonLimit(t *testing.T) {
	req := twoLevelRequest()
	engine := NewEngineWithConfig(EngineConfig{Workers: 1, MaxBuckets: 5})

	result, err := engine.Run(context.Background(), req.ToRun())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, entities.ErrInvalidInput))
	assert.Contains(t, err.Error(), "horizon of 6 buckets exceeds the configured maximum of 5")

	req.Horizon.Buckets = 5
	_, err = engine.Run(context.Background(), req.ToRun())
	assert.NoError(t, err)
}

func TestEngine_DependentDemandOverLimitRejected(t *testing.T) {
	req := twoLevelRequest()
	req.BOM = []entities.BOMEdge{mrptesting.Edge("P", "C", "1000000")}
	req.Demand[0].Quantity = 2_000_000

	result, err := NewEngine().Run(context.Background(), req.ToRun())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, entities.ErrInvalidInput), "got %v", err)
	assert.Contains(t, err.Error(), "item C: dependent demand in bucket 3 exceeds")
}

func TestEngine_ZeroLeadTimeWhenAllowed(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(3),
		Items:   []entities.Item{{Code: "K", AllowZeroLeadTime: true}},
		Demand:  []entities.DemandEntry{{Item: "K", Bucket: 1, Quantity: 4}},
	})

	k := planOf(t, result, "K")
	assert.Equal(t, entities.Quantity(4), k.Rows[1].PlannedOrderReceipt)
	assert.Equal(t, entities.Quantity(4), k.Rows[1].PlannedOrderRelease)
}

func TestEngine_SaturnScenario(t *testing.T) {
	req := mrptesting.BuildSaturnScenario()
	result := runEngine(t, req)
	assertLedgerInvariants(t, req, result)

	order := make([]entities.ItemCode, len(result.Items))
	for i, plan := range result.Items {
		order[i] = plan.Item
	}
	assert.Equal(t, []entities.ItemCode{"SATURN_V", "F1_ENGINE", "TURBOPUMP", "VALVE"}, order)

	saturn := planOf(t, result, "SATURN_V")
	assert.Equal(t, []entities.Quantity{0, 0, 0, 1, 0, 1, 0, 0}, releases(saturn.Rows))

	engine := planOf(t, result, "F1_ENGINE")
	assert.Equal(t, []entities.Quantity{0, 0, 0, 5, 0, 5, 0, 0}, gross(engine.Rows))
	assert.Equal(t, entities.Quantity(3), engine.Rows[3].NetRequirement)
	assert.Equal(t, entities.Quantity(10), engine.Rows[3].PlannedOrderReceipt)
	assert.Equal(t, entities.Quantity(9), engine.Rows[3].ProjectedOnHand)
	assert.Equal(t, entities.Quantity(4), engine.Rows[5].ProjectedOnHand)

	pump := planOf(t, result, "TURBOPUMP")
	assert.Equal(t, entities.Quantity(12), pump.Rows[2].PlannedOrderReceipt)
	assert.Equal(t, entities.Quantity(12), pump.Rows[1].PlannedOrderRelease)

	valve := planOf(t, result, "VALVE")
	assert.Equal(t, 3, valve.LowLevelCode)
	assert.Equal(t, []entities.Quantity{0, 24, 40, 0, 0, 0, 0, 0}, gross(valve.Rows))
	assert.Equal(t, []entities.Quantity{0, 5, 40, 0, 0, 0, 0, 0}, receipts(valve.Rows))
	assert.Equal(t, []entities.Quantity{5, 40, 0, 0, 0, 0, 0, 0}, releases(valve.Rows))
	assert.Equal(t, []entities.DemandPeg{
		{Bucket: 1, Quantity: 24, Source: "TURBOPUMP", Dependent: true},
		{Bucket: 2, Quantity: 40, Source: "F1_ENGINE", Dependent: true},
	}, valve.Pegging)

	assert.Equal(t, dto.Summary{Items: 4, PlannedOrders: 6, ReleaseBuckets: 6}, result.Summary)
}

func TestEngine_PeriodOrderQuantity(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(6),
		Items:   []entities.Item{{Code: "Q", LeadTime: 1, LotSizing: entities.PeriodOrderQuantity, PeriodsOfSupply: 3}},
		Demand: []entities.DemandEntry{
			{Item: "Q", Bucket: 1, Quantity: 10},
			{Item: "Q", Bucket: 2, Quantity: 5},
			{Item: "Q", Bucket: 3, Quantity: 7},
			{Item: "Q", Bucket: 4, Quantity: 4},
		},
	})

	q := planOf(t, result, "Q")
	assert.Equal(t, []entities.Quantity{0, 22, 0, 0, 4, 0}, receipts(q.Rows))
	assert.Equal(t, []entities.Quantity{22, 0, 0, 4, 0, 0}, releases(q.Rows))
	assert.Equal(t, entities.Quantity(0), q.Rows[3].ProjectedOnHand)
}

func TestEngine_BOMEffectivity(t *testing.T) {
	lastOld := 2
	oldEdge := mrptesting.Edge("P", "OLD", "1")
	oldEdge.EffectiveTo = &lastOld
	newEdge := mrptesting.Edge("P", "NEW", "1")
	newEdge.EffectiveFrom = 3

	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(6),
		Items: []entities.Item{
			{Code: "P", LeadTime: 1},
			{Code: "OLD", LeadTime: 1, OnHand: 100},
			{Code: "NEW", LeadTime: 1, OnHand: 100},
		},
		BOM: []entities.BOMEdge{oldEdge, newEdge},
		Demand: []entities.DemandEntry{
			{Item: "P", Bucket: 2, Quantity: 10},
			{Item: "P", Bucket: 5, Quantity: 10},
		},
	})

	assert.Equal(t, []entities.Quantity{0, 10, 0, 0, 0, 0}, gross(planOf(t, result, "OLD").Rows))
	assert.Equal(t, []entities.Quantity{0, 0, 0, 0, 10, 0}, gross(planOf(t, result, "NEW").Rows))
}

func TestEngine_FractionalQuantityPerRoundsUp(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(4),
		Items: []entities.Item{
			{Code: "P", LeadTime: 1},
			{Code: "SHEET", LeadTime: 1, OnHand: 100},
		},
		BOM:    []entities.BOMEdge{mrptesting.Edge("P", "SHEET", "0.3")},
		Demand: []entities.DemandEntry{{Item: "P", Bucket: 2, Quantity: 7}},
	})

	// 7 x 0.3 = 2.1 sheets
	assert.Equal(t, entities.Quantity(3), planOf(t, result, "SHEET").Rows[1].DependentDemand)
}

func TestEngine_AllocatedStockReducesSeed(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(3),
		Items:   []entities.Item{{Code: "A", LeadTime: 1, OnHand: 50, Allocated: 20}},
		Demand:  []entities.DemandEntry{{Item: "A", Bucket: 1, Quantity: 40}},
	})

	a := planOf(t, result, "A")
	assert.Equal(t, entities.Quantity(30), a.StartingOnHand)
	assert.Equal(t, entities.Quantity(30), a.Rows[0].BeginningOnHand)
	assert.Equal(t, entities.Quantity(10), a.Rows[1].NetRequirement)
}

func TestEngine_PastDueParentChargesChildBucketZero(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(4),
		Items: []entities.Item{
			{Code: "P", LeadTime: 3},
			{Code: "C", LeadTime: 1},
		},
		BOM:    []entities.BOMEdge{mrptesting.Edge("P", "C", "1")},
		Demand: []entities.DemandEntry{{Item: "P", Bucket: 1, Quantity: 10}},
	})

	c := planOf(t, result, "C")
	assert.Equal(t, entities.Quantity(10), c.Rows[0].DependentDemand)
	require.Len(t, c.PlannedOrders, 1)
	assert.Equal(t, -1, c.PlannedOrders[0].ReleaseBucket)

	require.Len(t, result.PastDue, 2)
	assert.Equal(t, entities.ItemCode("C"), result.PastDue[0].Item)
	assert.Equal(t, entities.ItemCode("P"), result.PastDue[1].Item)
}

func TestEngine_DemandSourcesAreSummed(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(4),
		Items:   []entities.Item{{Code: "A", LeadTime: 1, OnHand: 100}},
		Demand: []entities.DemandEntry{
			{Item: "A", Bucket: 2, Quantity: 7, SourceRef: "SO-2"},
			{Item: "A", Bucket: 2, Quantity: 5, SourceRef: "FC-1"},
			{Item: "A", Bucket: 3, Quantity: 1},
		},
	})

	a := planOf(t, result, "A")
	assert.Equal(t, entities.Quantity(12), a.Rows[2].IndependentDemand)
	assert.Equal(t, []entities.DemandPeg{
		{Bucket: 2, Quantity: 5, Source: "FC-1"},
		{Bucket: 2, Quantity: 7, Source: "SO-2"},
		{Bucket: 3, Quantity: 1, Source: "independent"},
	}, a.Pegging)
}

func TestEngine_SharedComponentSumsParents(t *testing.T) {
	result := runEngine(t, dto.PlanningRunRequest{
		Horizon: week(5),
		Items: []entities.Item{
			{Code: "A", LeadTime: 1},
			{Code: "B", LeadTime: 1},
			{Code: "BOLT", LeadTime: 1, OnHand: 1000},
		},
		BOM: []entities.BOMEdge{mrptesting.Edge("A", "BOLT", "4"), mrptesting.Edge("B", "BOLT", "6")},
		Demand: []entities.DemandEntry{
			{Item: "A", Bucket: 3, Quantity: 2},
			{Item: "B", Bucket: 3, Quantity: 1},
		},
	})

	bolt := planOf(t, result, "BOLT")
	assert.Equal(t, entities.Quantity(14), bolt.Rows[2].DependentDemand)
	assert.Len(t, bolt.Pegging, 2)
}

func generated(t *testing.T, seed int64) dto.PlanningRunRequest {
	t.Helper()
	req, err := scenario.NewGenerator(scenario.Config{
		Items:     80,
		MaxDepth:  5,
		Demands:   15,
		Supplies:  10,
		Buckets:   12,
		Inventory: 0.3,
		Seed:      seed,
	}).Generate()
	require.NoError(t, err)
	return req
}

func TestEngine_InvariantsOnGeneratedScenarios(t *testing.T) {
	for _, seed := range []int64{3, 11, 2024, 31337} {
		req := generated(t, seed)
		result, err := NewEngineWithConfig(EngineConfig{Workers: 4}).Run(context.Background(), req.ToRun())
		require.NoError(t, err, "seed %d", seed)
		assertLedgerInvariants(t, req, result)
	}
}

func TestEngine_WorkerCountDoesNotChangeResult(t *testing.T) {
	req := generated(t, 77)
	baseline := runEngine(t, req)

	for _, workers := range []int{0, 2, 8, 32} {
		result, err := NewEngineWithConfig(EngineConfig{Workers: workers}).Run(context.Background(), req.ToRun())
		require.NoError(t, err)
		assert.Equal(t, baseline, result, "workers=%d", workers)
	}
}

func TestEngine_CancelledRunReturnsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		result, err := NewEngineWithConfig(EngineConfig{Workers: workers}).Run(ctx, generated(t, 5).ToRun())
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, context.Canceled))
	}
}
