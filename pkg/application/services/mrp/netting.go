package mrp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
	"github.com/vsinha/mrpplan/pkg/domain/services/lotsizing"
)

// independentSource labels pegs of demand entries that carry no source reference
const independentSource = "independent"

// itemPlan is the netting output of one item. Once written it is only read.
type itemPlan struct {
	plan       dto.ItemPlan
	conditions []entities.Condition
	// drivers[b] is the planned release quantity that becomes component demand in
	// bucket b; releases before the horizon are charged to bucket 0
	drivers []entities.Quantity
}

// planner holds the read-only indexes of a run and one slot per item.
// Each slot is written by exactly one worker.
type planner struct {
	horizon  entities.Horizon
	graph    DependencyGraph
	levels   map[entities.ItemCode]int
	items    map[entities.ItemCode]entities.Item
	demand   map[entities.ItemCode][]entities.DemandEntry
	receipts map[entities.ItemCode][]entities.Quantity

	index map[entities.ItemCode]int
	slots []*itemPlan
}

func newPlanner(run entities.PlanningRun, graph DependencyGraph, levels map[entities.ItemCode]int) *planner {
	p := &planner{
		horizon:  run.Horizon,
		graph:    graph,
		levels:   levels,
		items:    make(map[entities.ItemCode]entities.Item, len(run.Items)),
		demand:   make(map[entities.ItemCode][]entities.DemandEntry),
		receipts: make(map[entities.ItemCode][]entities.Quantity),
		index:    make(map[entities.ItemCode]int, len(run.Items)),
		slots:    make([]*itemPlan, len(run.Items)),
	}

	for i, item := range run.Items {
		p.items[item.Code] = item
		p.index[item.Code] = i
	}
	for _, d := range run.Demand {
		p.demand[d.Item] = append(p.demand[d.Item], d)
	}
	for _, s := range run.Supply {
		buckets, ok := p.receipts[s.Item]
		if !ok {
			buckets = make([]entities.Quantity, run.Horizon.Buckets)
			p.receipts[s.Item] = buckets
		}
		buckets[s.Bucket] += s.Quantity
	}

	return p
}

// netItem nets one item over the whole horizon and stores the result in its slot.
// Every parent of the item must already be netted for dependent demand to be right.
func (p *planner) netItem(code entities.ItemCode) error {
	item := p.items[code]
	buckets := p.horizon.Buckets

	independent, dependent, pegs, err := p.grossRequirements(code)
	if err != nil {
		return err
	}
	scheduled := p.receipts[code]
	if scheduled == nil {
		scheduled = make([]entities.Quantity, buckets)
	}

	gross := make([]entities.Quantity, buckets)
	for b := range gross {
		gross[b] = independent[b] + dependent[b]
		if gross[b] > entities.MaxQuantity {
			return quantityOverflow(code, b, "gross requirement")
		}
	}

	rows := make([]entities.PlanningLedgerRow, buckets)
	var orders []entities.PlannedOrder

	balance := item.AvailableOnHand()
	for b := 0; b < buckets; b++ {
		tentative := balance + scheduled[b] - gross[b]

		var net, receipt entities.Quantity
		if tentative < item.SafetyStock {
			net = item.SafetyStock - tentative

			req := lotsizing.Request{Net: net}
			if item.LotSizing == entities.PeriodOrderQuantity {
				req.Following = followingNets(item, b, tentative+net, gross, scheduled)
			}
			qty, err := lotsizing.Size(item, req)
			if err != nil {
				return fmt.Errorf("lot sizing %s in bucket %d: %w", code, b, err)
			}
			order, err := entities.NewPlannedOrder(code, qty, b, item.LeadTime)
			if err != nil {
				return fmt.Errorf("planned order for %s in bucket %d: %w", code, b, err)
			}
			orders = append(orders, *order)
			receipt = qty
		}

		ending := tentative + receipt
		rows[b] = entities.PlanningLedgerRow{
			Bucket:              b,
			IndependentDemand:   independent[b],
			DependentDemand:     dependent[b],
			GrossRequirement:    gross[b],
			ScheduledReceipt:    scheduled[b],
			BeginningOnHand:     balance,
			ProjectedOnHand:     ending,
			NetRequirement:      net,
			PlannedOrderReceipt: receipt,
		}
		balance = ending
	}

	drivers := make([]entities.Quantity, buckets)
	for _, order := range orders {
		if !order.PastDue {
			rows[order.ReleaseBucket].PlannedOrderRelease += order.Quantity
		}
		drivers[max(order.ReleaseBucket, 0)] += order.Quantity
	}

	result := &itemPlan{
		plan: dto.ItemPlan{
			Item:           code,
			LowLevelCode:   p.levels[code],
			LeadTime:       item.LeadTime,
			SafetyStock:    item.SafetyStock,
			StartingOnHand: item.AvailableOnHand(),
			Rows:           rows,
			PlannedOrders:  orders,
			Pegging:        pegs,
		},
		drivers: drivers,
	}
	if cond, ok := pastDueCondition(code, orders); ok {
		result.conditions = append(result.conditions, cond)
	}
	if cond, ok := failureCondition(item, orders, gross, scheduled); ok {
		result.conditions = append(result.conditions, cond)
	}

	p.slots[p.index[code]] = result
	return nil
}

// grossRequirements splits the gross requirement of code into independent and
// dependent demand per bucket and pegs both to their sources
func (p *planner) grossRequirements(code entities.ItemCode) (independent, dependent []entities.Quantity, pegs []entities.DemandPeg, err error) {
	buckets := p.horizon.Buckets
	independent = make([]entities.Quantity, buckets)
	dependent = make([]entities.Quantity, buckets)

	for _, d := range p.demand[code] {
		independent[d.Bucket] += d.Quantity
		if d.Quantity == 0 {
			continue
		}
		source := d.SourceRef
		if source == "" {
			source = independentSource
		}
		pegs = append(pegs, entities.DemandPeg{Bucket: d.Bucket, Quantity: d.Quantity, Source: source})
	}

	for _, edge := range p.graph.WhereUsed(code) {
		parent := p.plan(edge.Parent)
		if parent == nil {
			continue
		}
		for b, release := range parent.drivers {
			if release == 0 || !edge.EffectiveAt(b) {
				continue
			}
			qty, ok := extend(release, edge)
			if !ok || dependent[b]+qty > entities.MaxQuantity {
				return nil, nil, nil, quantityOverflow(code, b, "dependent demand")
			}
			dependent[b] += qty
			pegs = append(pegs, entities.DemandPeg{Bucket: b, Quantity: qty, Source: string(edge.Parent), Dependent: true})
		}
	}

	sort.SliceStable(pegs, func(i, j int) bool {
		a, b := pegs[i], pegs[j]
		if a.Bucket != b.Bucket {
			return a.Bucket < b.Bucket
		}
		if a.Dependent != b.Dependent {
			return !a.Dependent
		}
		return a.Source < b.Source
	})

	return independent, dependent, pegs, nil
}

func quantityOverflow(code entities.ItemCode, bucket int, what string) error {
	return &entities.ValidationError{Problems: []string{
		fmt.Sprintf("item %s: %s in bucket %d exceeds %d", code, what, bucket, entities.MaxQuantity),
	}}
}

// plan returns the netted plan of code, or nil if it has not been netted yet
func (p *planner) plan(code entities.ItemCode) *itemPlan {
	i, ok := p.index[code]
	if !ok {
		return nil
	}
	return p.slots[i]
}

// followingNets simulates lot-for-lot netting after bucket from, assuming the
// net requirement of from is covered, and returns the next periods-1 nets
func followingNets(item entities.Item, from int, balance entities.Quantity, gross, scheduled []entities.Quantity) []entities.Quantity {
	var nets []entities.Quantity
	for b := from + 1; b < len(gross) && len(nets) < item.PeriodsOfSupply-1; b++ {
		tentative := balance + scheduled[b] - gross[b]
		net := max(item.SafetyStock-tentative, 0)
		nets = append(nets, net)
		balance = tentative + net
	}
	return nets
}

func pastDueCondition(code entities.ItemCode, orders []entities.PlannedOrder) (entities.Condition, bool) {
	var buckets []int
	var parts []string
	for _, order := range orders {
		if !order.PastDue {
			continue
		}
		buckets = append(buckets, order.ReleaseBucket)
		parts = append(parts, fmt.Sprintf("%d due in bucket %d must be released in bucket %d",
			order.Quantity, order.ReceiptBucket, order.ReleaseBucket))
	}
	if len(buckets) == 0 {
		return entities.Condition{}, false
	}

	return entities.Condition{
		Item:    code,
		Kind:    entities.PastDuePlannedOrder,
		Reason:  fmt.Sprintf("planned order release before horizon start: %s", strings.Join(parts, "; ")),
		Buckets: buckets,
	}, true
}

// failureCondition replays the ledger counting only supply that can actually
// arrive: scheduled receipts and planned orders released inside the horizon
func failureCondition(item entities.Item, orders []entities.PlannedOrder, gross, scheduled []entities.Quantity) (entities.Condition, bool) {
	feasibleReceipts := make([]entities.Quantity, len(gross))
	for _, order := range orders {
		if !order.PastDue {
			feasibleReceipts[order.ReceiptBucket] += order.Quantity
		}
	}

	var failing []int
	balance := item.AvailableOnHand()
	for b := range gross {
		balance += scheduled[b] + feasibleReceipts[b] - gross[b]
		if balance < item.SafetyStock {
			failing = append(failing, b)
		}
	}
	if len(failing) == 0 {
		return entities.Condition{}, false
	}

	return entities.Condition{
		Item: item.Code,
		Kind: entities.PlanningFailure,
		Reason: fmt.Sprintf("balance stays below safety stock %d in buckets %s under the supply that can arrive in time",
			item.SafetyStock, joinBuckets(failing)),
		Buckets: failing,
	}, true
}

func joinBuckets(buckets []int) string {
	parts := make([]string, len(buckets))
	for i, b := range buckets {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return strings.Join(parts, ", ")
}
