package dto

import (
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// PlanningRunRequest is the serializable input of a planning run
type PlanningRunRequest struct {
	Horizon entities.Horizon       `json:"horizon" yaml:"horizon"`
	Items   []entities.Item        `json:"items" yaml:"items"`
	BOM     []entities.BOMEdge     `json:"bom" yaml:"bom"`
	Demand  []entities.DemandEntry `json:"demand" yaml:"demand"`
	Supply  []entities.SupplyEntry `json:"supply" yaml:"supply"`
}

// ToRun copies the request into an immutable planning snapshot.
// An empty bucket unit defaults to weeks.
func (r PlanningRunRequest) ToRun() entities.PlanningRun {
	horizon := r.Horizon
	if horizon.Unit == "" {
		horizon.Unit = entities.Week
	}

	bom := make([]entities.BOMEdge, len(r.BOM))
	for i, edge := range r.BOM {
		bom[i] = edge
		if edge.EffectiveTo != nil {
			to := *edge.EffectiveTo
			bom[i].EffectiveTo = &to
		}
	}

	return entities.PlanningRun{
		Horizon: horizon,
		Items:   append([]entities.Item(nil), r.Items...),
		BOM:     bom,
		Demand:  append([]entities.DemandEntry(nil), r.Demand...),
		Supply:  append([]entities.SupplyEntry(nil), r.Supply...),
	}
}

// FromRun builds a request from a planning snapshot
func FromRun(run entities.PlanningRun) PlanningRunRequest {
	return PlanningRunRequest{
		Horizon: run.Horizon,
		Items:   run.Items,
		BOM:     run.BOM,
		Demand:  run.Demand,
		Supply:  run.Supply,
	}
}

// ItemPlan is the time-phased plan of one item
type ItemPlan struct {
	Item         entities.ItemCode `json:"item" yaml:"item"`
	LowLevelCode int               `json:"low_level_code" yaml:"low_level_code"`
	LeadTime     int               `json:"lead_time" yaml:"lead_time"`
	SafetyStock  entities.Quantity `json:"safety_stock" yaml:"safety_stock"`
	// StartingOnHand is on-hand minus allocated stock, the balance before bucket 0
	StartingOnHand entities.Quantity `json:"starting_on_hand" yaml:"starting_on_hand"`

	Rows          []entities.PlanningLedgerRow `json:"rows" yaml:"rows"`
	PlannedOrders []entities.PlannedOrder      `json:"planned_orders" yaml:"planned_orders"`
	Pegging       []entities.DemandPeg         `json:"pegging,omitempty" yaml:"pegging,omitempty"`
}

// ReleaseBuckets lists the in-horizon buckets that hold a planned order release
func (p ItemPlan) ReleaseBuckets() []int {
	var buckets []int
	for _, row := range p.Rows {
		if row.PlannedOrderRelease > 0 {
			buckets = append(buckets, row.Bucket)
		}
	}
	return buckets
}

// Summary aggregates the result for reporting collaborators
type Summary struct {
	Items          int `json:"items" yaml:"items"`
	PlannedOrders  int `json:"planned_orders" yaml:"planned_orders"`
	ReleaseBuckets int `json:"release_buckets" yaml:"release_buckets"`
	PastDueItems   int `json:"past_due_items" yaml:"past_due_items"`
	FailedItems    int `json:"failed_items" yaml:"failed_items"`
}

// PlanningRunResult is the serializable output of a planning run
type PlanningRunResult struct {
	RunID       string               `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	InputDigest string               `json:"input_digest,omitempty" yaml:"input_digest,omitempty"`
	Horizon     entities.Horizon     `json:"horizon" yaml:"horizon"`
	Items       []ItemPlan           `json:"items" yaml:"items"`
	PastDue     []entities.Condition `json:"past_due" yaml:"past_due"`
	Failures    []entities.Condition `json:"failures" yaml:"failures"`
	Summary     Summary              `json:"summary" yaml:"summary"`
}

// Item looks up the plan of a single item
func (r *PlanningRunResult) Item(code entities.ItemCode) (*ItemPlan, bool) {
	for i := range r.Items {
		if r.Items[i].Item == code {
			return &r.Items[i], true
		}
	}
	return nil, false
}
