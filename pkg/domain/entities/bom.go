package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BOMEdge represents a single parent/child relationship in a Bill of Materials
type BOMEdge struct {
	Parent ItemCode        `json:"parent" yaml:"parent"`
	Child  ItemCode        `json:"child" yaml:"child"`
	QtyPer decimal.Decimal `json:"qty_per" yaml:"qty_per"`

	// EffectiveFrom is the first bucket in which the edge drives dependent demand
	EffectiveFrom int `json:"effective_from,omitempty" yaml:"effective_from,omitempty"`
	// EffectiveTo is the last effective bucket; nil = open ended
	EffectiveTo *int `json:"effective_to,omitempty" yaml:"effective_to,omitempty"`
}

// NewBOMEdge creates a validated, always-effective BOMEdge
func NewBOMEdge(parent, child ItemCode, qtyPer decimal.Decimal) (*BOMEdge, error) {
	edge := &BOMEdge{Parent: parent, Child: child, QtyPer: qtyPer}
	if problems := edge.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, problems[0])
	}
	return edge, nil
}

// EffectiveAt reports whether the edge applies to the given bucket
func (e BOMEdge) EffectiveAt(bucket int) bool {
	if bucket < e.EffectiveFrom {
		return false
	}
	return e.EffectiveTo == nil || bucket <= *e.EffectiveTo
}

// Validate returns every structural problem with the edge itself.
// Reference checks against the item master are done by the BOM validator.
func (e BOMEdge) Validate() []string {
	var problems []string
	if e.Parent == "" {
		problems = append(problems, "BOM edge parent cannot be empty")
	}
	if e.Child == "" {
		problems = append(problems, "BOM edge child cannot be empty")
	}
	if !e.QtyPer.IsPositive() {
		problems = append(problems, fmt.Sprintf("BOM edge %s -> %s: quantity per must be positive, got %s", e.Parent, e.Child, e.QtyPer))
	}
	if e.EffectiveFrom < 0 {
		problems = append(problems, fmt.Sprintf("BOM edge %s -> %s: effective from cannot be negative, got %d", e.Parent, e.Child, e.EffectiveFrom))
	}
	if e.EffectiveTo != nil && *e.EffectiveTo < e.EffectiveFrom {
		problems = append(problems, fmt.Sprintf("BOM edge %s -> %s: effective range [%d, %d] is empty", e.Parent, e.Child, e.EffectiveFrom, *e.EffectiveTo))
	}
	return problems
}
