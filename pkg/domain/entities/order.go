package entities

import "fmt"

// PlannedOrder represents a planned manufacturing or procurement order
type PlannedOrder struct {
	Item          ItemCode `json:"item" yaml:"item"`
	Quantity      Quantity `json:"quantity" yaml:"quantity"`
	ReceiptBucket int      `json:"receipt_bucket" yaml:"receipt_bucket"`
	// ReleaseBucket may be negative when the order had to start before the horizon
	ReleaseBucket int  `json:"release_bucket" yaml:"release_bucket"`
	PastDue       bool `json:"past_due,omitempty" yaml:"past_due,omitempty"`
}

// NewPlannedOrder creates a validated PlannedOrder offset by the item's lead time
func NewPlannedOrder(item ItemCode, quantity Quantity, receiptBucket, leadTime int) (*PlannedOrder, error) {
	if item == "" {
		return nil, fmt.Errorf("item code cannot be empty")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	if leadTime < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTime)
	}

	release := receiptBucket - leadTime
	return &PlannedOrder{
		Item:          item,
		Quantity:      quantity,
		ReceiptBucket: receiptBucket,
		ReleaseBucket: release,
		PastDue:       release < 0,
	}, nil
}
