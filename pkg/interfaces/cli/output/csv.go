package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// File names written by WriteCSV
const (
	LedgerFile        = "ledger.csv"
	PlannedOrdersFile = "planned_orders.csv"
	ConditionsFile    = "conditions.csv"
)

var ledgerHeader = []string{
	"item_code", "low_level_code", "bucket", "independent_demand", "dependent_demand",
	"gross_requirement", "scheduled_receipt", "beginning_on_hand", "projected_on_hand",
	"net_requirement", "planned_order_receipt", "planned_order_release",
}

// WriteCSV writes the ledger rows, planned orders and conditions into dir and
// returns the written paths
func WriteCSV(dir string, result *dto.PlanningRunResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var ledger, orders [][]string
	for _, plan := range result.Items {
		llc := strconv.Itoa(plan.LowLevelCode)
		for _, row := range plan.Rows {
			ledger = append(ledger, []string{
				string(plan.Item), llc, strconv.Itoa(row.Bucket),
				qty(row.IndependentDemand), qty(row.DependentDemand), qty(row.GrossRequirement),
				qty(row.ScheduledReceipt), qty(row.BeginningOnHand), qty(row.ProjectedOnHand),
				qty(row.NetRequirement), qty(row.PlannedOrderReceipt), qty(row.PlannedOrderRelease),
			})
		}
		for _, order := range plan.PlannedOrders {
			orders = append(orders, []string{
				string(order.Item), qty(order.Quantity),
				strconv.Itoa(order.ReceiptBucket), strconv.Itoa(order.ReleaseBucket),
				strconv.FormatBool(order.PastDue),
			})
		}
	}

	var conditions [][]string
	for _, cond := range append(append([]entities.Condition(nil), result.PastDue...), result.Failures...) {
		buckets := make([]string, len(cond.Buckets))
		for i, b := range cond.Buckets {
			buckets[i] = strconv.Itoa(b)
		}
		conditions = append(conditions, []string{
			string(cond.Item), string(cond.Kind), strings.Join(buckets, " "), cond.Reason,
		})
	}

	files := []struct {
		name    string
		header  []string
		records [][]string
	}{
		{LedgerFile, ledgerHeader, ledger},
		{PlannedOrdersFile, []string{"item_code", "quantity", "receipt_bucket", "release_bucket", "past_due"}, orders},
		{ConditionsFile, []string{"item_code", "kind", "buckets", "reason"}, conditions},
	}

	written := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		if err := writeCSVFile(path, file.header, file.records); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeCSVFile(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func qty(q entities.Quantity) string {
	return strconv.FormatInt(int64(q), 10)
}
