package entities

import "fmt"

// DemandEntry represents independent demand for an item in one bucket
type DemandEntry struct {
	Item      ItemCode `json:"item" yaml:"item"`
	Bucket    int      `json:"bucket" yaml:"bucket"`
	Quantity  Quantity `json:"quantity" yaml:"quantity"`
	SourceRef string   `json:"source_ref,omitempty" yaml:"source_ref,omitempty"`
}

// SupplyEntry represents a scheduled receipt from an open purchase or work order
type SupplyEntry struct {
	Item      ItemCode `json:"item" yaml:"item"`
	Bucket    int      `json:"bucket" yaml:"bucket"`
	Quantity  Quantity `json:"quantity" yaml:"quantity"`
	SourceRef string   `json:"source_ref,omitempty" yaml:"source_ref,omitempty"`
}

func validateTimePhased(kind string, item ItemCode, bucket int, qty Quantity, horizon Horizon) []string {
	var problems []string
	if item == "" {
		problems = append(problems, fmt.Sprintf("%s entry item cannot be empty", kind))
		return problems
	}
	if qty < 0 {
		problems = append(problems, fmt.Sprintf("%s entry for %s: quantity cannot be negative, got %d", kind, item, qty))
	}
	if qty > MaxQuantity {
		problems = append(problems, fmt.Sprintf("%s entry for %s: quantity cannot exceed %d, got %d", kind, item, MaxQuantity, qty))
	}
	if !horizon.Contains(bucket) {
		problems = append(problems, fmt.Sprintf("%s entry for %s: bucket %d outside horizon [0, %d)", kind, item, bucket, horizon.Buckets))
	}
	return problems
}

// Validate checks the entry against the planning horizon
func (d DemandEntry) Validate(horizon Horizon) []string {
	return validateTimePhased("demand", d.Item, d.Bucket, d.Quantity, horizon)
}

// Validate checks the entry against the planning horizon
func (s SupplyEntry) Validate(horizon Horizon) []string {
	return validateTimePhased("supply", s.Item, s.Bucket, s.Quantity, horizon)
}
