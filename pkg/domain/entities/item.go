package entities

import (
	"fmt"
	"strings"
)

// ItemCode represents a unique item identifier
type ItemCode string

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// MaxQuantity bounds every input and computed quantity. Sums of bounded
// quantities over a bounded horizon stay far inside int64.
const MaxQuantity Quantity = 1_000_000_000_000

// ItemType classifies an item by its position in the product structure
type ItemType string

const (
	RawMaterial  ItemType = "raw"
	SemiFinished ItemType = "semi_finished"
	Finished     ItemType = "finished"
)

// Valid reports whether t is one of the known item types
func (t ItemType) Valid() bool {
	switch t {
	case RawMaterial, SemiFinished, Finished:
		return true
	default:
		return false
	}
}

// LotSizingPolicy represents the lot sizing rule for an item
type LotSizingPolicy int

const (
	LotForLot LotSizingPolicy = iota
	FixedLot
	PeriodOrderQuantity
	MinimumQty
)

// String method for LotSizingPolicy enum
func (p LotSizingPolicy) String() string {
	switch p {
	case LotForLot:
		return "lot_for_lot"
	case FixedLot:
		return "fixed_lot"
	case PeriodOrderQuantity:
		return "period_order_quantity"
	case MinimumQty:
		return "minimum_qty"
	default:
		return "unknown"
	}
}

// ParseLotSizingPolicy converts a policy name into a LotSizingPolicy.
// Matching ignores case, dashes and underscores so "LotForLot" and "lot-for-lot" are equal.
func ParseLotSizingPolicy(s string) (LotSizingPolicy, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "", "lotforlot", "l4l":
		return LotForLot, nil
	case "fixedlot", "fixed":
		return FixedLot, nil
	case "periodorderquantity", "poq":
		return PeriodOrderQuantity, nil
	case "minimumqty", "minimum":
		return MinimumQty, nil
	default:
		return LotForLot, fmt.Errorf("%w: unknown lot sizing policy %q", ErrInvalidInput, s)
	}
}

// MarshalText encodes the policy by name
func (p LotSizingPolicy) MarshalText() ([]byte, error) {
	if p < LotForLot || p > MinimumQty {
		return nil, fmt.Errorf("%w: unknown lot sizing policy %d", ErrInvalidInput, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a policy name
func (p *LotSizingPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseLotSizingPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Item represents a planned item with its static planning parameters.
// Items are read-only to the engine for the lifetime of a planning run.
type Item struct {
	Code          ItemCode `json:"code" yaml:"code"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Type          ItemType `json:"type" yaml:"type"`
	UnitOfMeasure string   `json:"unit_of_measure,omitempty" yaml:"unit_of_measure,omitempty"`

	// LeadTime is expressed in planning buckets
	LeadTime          int  `json:"lead_time" yaml:"lead_time"`
	AllowZeroLeadTime bool `json:"allow_zero_lead_time,omitempty" yaml:"allow_zero_lead_time,omitempty"`

	LotSizing        LotSizingPolicy `json:"lot_sizing" yaml:"lot_sizing"`
	LotSize          Quantity        `json:"lot_size,omitempty" yaml:"lot_size,omitempty"`
	PeriodsOfSupply  int             `json:"periods_of_supply,omitempty" yaml:"periods_of_supply,omitempty"`
	MinOrderQty      Quantity        `json:"min_order_qty,omitempty" yaml:"min_order_qty,omitempty"`
	RoundingMultiple Quantity        `json:"rounding_multiple,omitempty" yaml:"rounding_multiple,omitempty"`

	SafetyStock Quantity `json:"safety_stock" yaml:"safety_stock"`
	OnHand      Quantity `json:"on_hand" yaml:"on_hand"`
	Allocated   Quantity `json:"allocated,omitempty" yaml:"allocated,omitempty"`
}

// AvailableOnHand is the stock the first bucket starts from
func (i Item) AvailableOnHand() Quantity {
	return i.OnHand - i.Allocated
}

// Validate returns every problem found with the item's planning parameters
func (i Item) Validate() []string {
	var problems []string
	if i.Code == "" {
		problems = append(problems, "item code cannot be empty")
		return problems
	}
	if i.Type != "" && !i.Type.Valid() {
		problems = append(problems, fmt.Sprintf("item %s: unknown item type %q", i.Code, i.Type))
	}
	if i.LeadTime < 0 {
		problems = append(problems, fmt.Sprintf("item %s: lead time cannot be negative, got %d", i.Code, i.LeadTime))
	}
	if i.LeadTime == 0 && !i.AllowZeroLeadTime {
		problems = append(problems, fmt.Sprintf("item %s: lead time must be positive unless zero lead time is allowed", i.Code))
	}
	if i.SafetyStock < 0 {
		problems = append(problems, fmt.Sprintf("item %s: safety stock cannot be negative, got %d", i.Code, i.SafetyStock))
	}
	if i.OnHand < 0 {
		problems = append(problems, fmt.Sprintf("item %s: on-hand quantity cannot be negative, got %d", i.Code, i.OnHand))
	}
	if i.Allocated < 0 {
		problems = append(problems, fmt.Sprintf("item %s: allocated quantity cannot be negative, got %d", i.Code, i.Allocated))
	}
	if i.Allocated > i.OnHand {
		problems = append(problems, fmt.Sprintf("item %s: allocated quantity (%d) exceeds on-hand (%d)", i.Code, i.Allocated, i.OnHand))
	}
	if i.LotSize < 0 {
		problems = append(problems, fmt.Sprintf("item %s: lot size cannot be negative, got %d", i.Code, i.LotSize))
	}
	if i.MinOrderQty < 0 {
		problems = append(problems, fmt.Sprintf("item %s: minimum order quantity cannot be negative, got %d", i.Code, i.MinOrderQty))
	}
	if i.RoundingMultiple < 0 {
		problems = append(problems, fmt.Sprintf("item %s: rounding multiple cannot be negative, got %d", i.Code, i.RoundingMultiple))
	}
	for _, q := range []struct {
		name string
		qty  Quantity
	}{
		{"safety stock", i.SafetyStock},
		{"on-hand quantity", i.OnHand},
		{"allocated quantity", i.Allocated},
		{"lot size", i.LotSize},
		{"minimum order quantity", i.MinOrderQty},
		{"rounding multiple", i.RoundingMultiple},
	} {
		if q.qty > MaxQuantity {
			problems = append(problems, fmt.Sprintf("item %s: %s cannot exceed %d, got %d", i.Code, q.name, MaxQuantity, q.qty))
		}
	}

	switch i.LotSizing {
	case LotForLot:
	case FixedLot:
		if i.LotSize <= 0 {
			problems = append(problems, fmt.Sprintf("item %s: fixed_lot requires a positive lot size", i.Code))
		}
	case PeriodOrderQuantity:
		if i.PeriodsOfSupply <= 0 {
			problems = append(problems, fmt.Sprintf("item %s: period_order_quantity requires positive periods of supply", i.Code))
		}
	case MinimumQty:
		if i.MinOrderQty <= 0 {
			problems = append(problems, fmt.Sprintf("item %s: minimum_qty requires a positive minimum order quantity", i.Code))
		}
	default:
		problems = append(problems, fmt.Sprintf("item %s: unknown lot sizing policy %d", i.Code, int(i.LotSizing)))
	}

	return problems
}
