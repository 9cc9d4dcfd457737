// Package lotsizing converts net requirements into planned order quantities.
package lotsizing

import (
	"fmt"
	"math"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Request is a single sizing decision for one bucket of one item
type Request struct {
	Net entities.Quantity
	// Following holds the lot-for-lot net requirements of the buckets after the current
	// one, computed as if Net were covered exactly. Only period order quantity reads it.
	Following []entities.Quantity
}

// Size applies the item's lot sizing policy and rounding multiple to a net requirement.
// The returned quantity is never below req.Net. Quantities above
// entities.MaxQuantity are rejected as invalid input.
func Size(item entities.Item, req Request) (entities.Quantity, error) {
	if req.Net <= 0 {
		return 0, nil
	}

	var qty entities.Quantity
	switch item.LotSizing {
	case entities.LotForLot:
		qty = req.Net
	case entities.FixedLot:
		if item.LotSize <= 0 {
			return 0, fmt.Errorf("%w: item %s: fixed_lot requires a positive lot size", entities.ErrInvalidInput, item.Code)
		}
		qty = RoundUp(req.Net, item.LotSize)
	case entities.PeriodOrderQuantity:
		if item.PeriodsOfSupply <= 0 {
			return 0, fmt.Errorf("%w: item %s: period_order_quantity requires positive periods of supply", entities.ErrInvalidInput, item.Code)
		}
		qty = req.Net
		for i := 0; i < item.PeriodsOfSupply-1 && i < len(req.Following); i++ {
			qty += req.Following[i]
		}
	case entities.MinimumQty:
		qty = req.Net
		if qty < item.MinOrderQty {
			qty = item.MinOrderQty
		}
	default:
		return 0, fmt.Errorf("%w: item %s: unknown lot sizing policy %d", entities.ErrInvalidInput, item.Code, int(item.LotSizing))
	}

	if item.RoundingMultiple > 0 {
		qty = RoundUp(qty, item.RoundingMultiple)
	}
	if qty > entities.MaxQuantity {
		return 0, fmt.Errorf("%w: item %s: planned quantity for net requirement %d exceeds %d",
			entities.ErrInvalidInput, item.Code, req.Net, entities.MaxQuantity)
	}
	return qty, nil
}

// RoundUp returns the smallest multiple of multiple that is >= qty.
// Results past the int64 range saturate at math.MaxInt64.
func RoundUp(qty, multiple entities.Quantity) entities.Quantity {
	if multiple <= 0 || qty <= 0 {
		return qty
	}
	packs := qty / multiple
	if qty%multiple != 0 {
		packs++
	}
	if packs > math.MaxInt64/multiple {
		return math.MaxInt64
	}
	return packs * multiple
}
