package entities

import "fmt"

// PlanningRun is the immutable snapshot a single planning execution works on.
// Nothing in it is re-read or mutated once the run starts.
type PlanningRun struct {
	Horizon Horizon
	Items   []Item
	BOM     []BOMEdge
	Demand  []DemandEntry
	Supply  []SupplyEntry
}

// Validate collects every input problem of the run.
// Structural BOM checks (cycles) are left to the BOM validator.
func (r PlanningRun) Validate() error {
	var problems []string
	problems = append(problems, r.Horizon.Validate()...)

	known := make(map[ItemCode]bool, len(r.Items))
	for _, item := range r.Items {
		problems = append(problems, item.Validate()...)
		if item.Code == "" {
			continue
		}
		if known[item.Code] {
			problems = append(problems, fmt.Sprintf("duplicate item code %s", item.Code))
		}
		known[item.Code] = true
	}

	for _, edge := range r.BOM {
		problems = append(problems, edge.Validate()...)
		if edge.Parent != "" && !known[edge.Parent] {
			problems = append(problems, fmt.Sprintf("BOM edge %s -> %s: parent item not found", edge.Parent, edge.Child))
		}
		if edge.Child != "" && !known[edge.Child] {
			problems = append(problems, fmt.Sprintf("BOM edge %s -> %s: child item not found", edge.Parent, edge.Child))
		}
	}

	demandTotals := newBucketTotals("demand")
	for _, d := range r.Demand {
		problems = append(problems, d.Validate(r.Horizon)...)
		if d.Item != "" && !known[d.Item] {
			problems = append(problems, fmt.Sprintf("demand entry references unknown item %s", d.Item))
		}
		demandTotals.add(d.Item, d.Bucket, d.Quantity)
	}
	problems = append(problems, demandTotals.problems...)

	supplyTotals := newBucketTotals("supply")
	for _, s := range r.Supply {
		problems = append(problems, s.Validate(r.Horizon)...)
		if s.Item != "" && !known[s.Item] {
			problems = append(problems, fmt.Sprintf("supply entry references unknown item %s", s.Item))
		}
		supplyTotals.add(s.Item, s.Bucket, s.Quantity)
	}
	problems = append(problems, supplyTotals.problems...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

type bucketKey struct {
	item   ItemCode
	bucket int
}

// bucketTotals sums entries per item and bucket and reports each total that
// goes over MaxQuantity once
type bucketTotals struct {
	kind     string
	totals   map[bucketKey]Quantity
	problems []string
}

func newBucketTotals(kind string) *bucketTotals {
	return &bucketTotals{kind: kind, totals: make(map[bucketKey]Quantity)}
}

func (t *bucketTotals) add(item ItemCode, bucket int, qty Quantity) {
	if qty <= 0 || qty > MaxQuantity {
		return
	}
	key := bucketKey{item: item, bucket: bucket}
	before := t.totals[key]
	if before > MaxQuantity {
		return
	}
	t.totals[key] = before + qty
	if t.totals[key] > MaxQuantity {
		t.problems = append(t.problems, fmt.Sprintf("%s for %s in bucket %d totals more than %d", t.kind, item, bucket, MaxQuantity))
	}
}
