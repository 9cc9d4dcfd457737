package mrp

import (
	"sort"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Assemble packages per-item plans and conditions into the result contract.
// It copies its inputs and has no side effects.
func Assemble(horizon entities.Horizon, plans []dto.ItemPlan, conditions []entities.Condition) *dto.PlanningRunResult {
	items := append([]dto.ItemPlan(nil), plans...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].LowLevelCode != items[j].LowLevelCode {
			return items[i].LowLevelCode < items[j].LowLevelCode
		}
		return items[i].Item < items[j].Item
	})

	result := &dto.PlanningRunResult{
		Horizon:  horizon,
		Items:    items,
		PastDue:  make([]entities.Condition, 0),
		Failures: make([]entities.Condition, 0),
	}

	for _, cond := range conditions {
		switch cond.Kind {
		case entities.PastDuePlannedOrder:
			result.PastDue = append(result.PastDue, cond)
		case entities.PlanningFailure:
			result.Failures = append(result.Failures, cond)
		}
	}
	byItem := func(list []entities.Condition) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Item < list[j].Item })
	}
	byItem(result.PastDue)
	byItem(result.Failures)

	result.Summary = dto.Summary{
		Items:        len(items),
		PastDueItems: len(result.PastDue),
		FailedItems:  len(result.Failures),
	}
	for _, plan := range items {
		result.Summary.PlannedOrders += len(plan.PlannedOrders)
		result.Summary.ReleaseBuckets += len(plan.ReleaseBuckets())
	}

	return result
}
