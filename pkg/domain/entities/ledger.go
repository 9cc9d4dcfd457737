package entities

// PlanningLedgerRow is the time-phased record of one item in one bucket.
//
// ProjectedOnHand is the ending balance of the bucket:
//
//	ProjectedOnHand = BeginningOnHand + ScheduledReceipt + PlannedOrderReceipt - GrossRequirement
//
// and BeginningOnHand is the previous bucket's ProjectedOnHand (the seed stock for bucket 0).
type PlanningLedgerRow struct {
	Bucket              int      `json:"bucket" yaml:"bucket"`
	IndependentDemand   Quantity `json:"independent_demand" yaml:"independent_demand"`
	DependentDemand     Quantity `json:"dependent_demand" yaml:"dependent_demand"`
	GrossRequirement    Quantity `json:"gross_requirement" yaml:"gross_requirement"`
	ScheduledReceipt    Quantity `json:"scheduled_receipt" yaml:"scheduled_receipt"`
	BeginningOnHand     Quantity `json:"beginning_on_hand" yaml:"beginning_on_hand"`
	ProjectedOnHand     Quantity `json:"projected_on_hand" yaml:"projected_on_hand"`
	NetRequirement      Quantity `json:"net_requirement" yaml:"net_requirement"`
	PlannedOrderReceipt Quantity `json:"planned_order_receipt" yaml:"planned_order_receipt"`
	PlannedOrderRelease Quantity `json:"planned_order_release" yaml:"planned_order_release"`
}

// DemandPeg traces a portion of a bucket's gross requirement back to its source
type DemandPeg struct {
	Bucket   int      `json:"bucket" yaml:"bucket"`
	Quantity Quantity `json:"quantity" yaml:"quantity"`
	// Source is the parent item code for dependent demand or the demand source reference
	Source    string `json:"source" yaml:"source"`
	Dependent bool   `json:"dependent" yaml:"dependent"`
}

// ConditionKind classifies a recoverable planning condition
type ConditionKind string

const (
	PastDuePlannedOrder ConditionKind = "PastDuePlannedOrder"
	PlanningFailure     ConditionKind = "PlanningFailure"
)

// Condition flags an item that a planner has to look at.
// Conditions never abort a run.
type Condition struct {
	Item    ItemCode      `json:"item" yaml:"item"`
	Kind    ConditionKind `json:"kind" yaml:"kind"`
	Reason  string        `json:"reason" yaml:"reason"`
	Buckets []int         `json:"buckets,omitempty" yaml:"buckets,omitempty"`
}
