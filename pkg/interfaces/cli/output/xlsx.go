package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

const (
	summarySheet = "Summary"
	// excelize rejects sheet names longer than this
	maxSheetName = 31
)

// WriteXLSX writes a workbook with a summary sheet and one grid sheet per item
func WriteXLSX(w io.Writer, result *dto.PlanningRunResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	flagged := make(map[entities.ItemCode][]string)
	for _, cond := range result.PastDue {
		flagged[cond.Item] = append(flagged[cond.Item], string(cond.Kind))
	}
	for _, cond := range result.Failures {
		flagged[cond.Item] = append(flagged[cond.Item], string(cond.Kind))
	}

	summaryHeader := []interface{}{"Item", "Low-Level Code", "Lead Time", "Safety Stock", "On Hand", "Planned Orders", "Conditions"}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	f.SetCellStyle(summarySheet, "A1", "G1", headerStyle)

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for i, plan := range result.Items {
		row := []interface{}{
			string(plan.Item), plan.LowLevelCode, plan.LeadTime, int64(plan.SafetyStock),
			int64(plan.StartingOnHand), len(plan.PlannedOrders), strings.Join(flagged[plan.Item], ", "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row for %s: %w", plan.Item, err)
		}

		if err := writeItemSheet(f, sheetName(plan.Item, used), plan, headerStyle); err != nil {
			return err
		}
	}
	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "G", "G", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeItemSheet(f *excelize.File, sheet string, plan dto.ItemPlan, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet for %s: %w", plan.Item, err)
	}

	header := []interface{}{"Bucket"}
	for _, row := range plan.Rows {
		header = append(header, row.Bucket)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", plan.Item, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	f.SetCellStyle(sheet, "A1", last, headerStyle)

	lines := []struct {
		label string
		value func(entities.PlanningLedgerRow) entities.Quantity
	}{
		{"Independent demand", func(r entities.PlanningLedgerRow) entities.Quantity { return r.IndependentDemand }},
		{"Dependent demand", func(r entities.PlanningLedgerRow) entities.Quantity { return r.DependentDemand }},
		{"Gross requirements", func(r entities.PlanningLedgerRow) entities.Quantity { return r.GrossRequirement }},
		{"Scheduled receipts", func(r entities.PlanningLedgerRow) entities.Quantity { return r.ScheduledReceipt }},
		{"Beginning on hand", func(r entities.PlanningLedgerRow) entities.Quantity { return r.BeginningOnHand }},
		{"Projected on hand", func(r entities.PlanningLedgerRow) entities.Quantity { return r.ProjectedOnHand }},
		{"Net requirements", func(r entities.PlanningLedgerRow) entities.Quantity { return r.NetRequirement }},
		{"Planned receipts", func(r entities.PlanningLedgerRow) entities.Quantity { return r.PlannedOrderReceipt }},
		{"Planned releases", func(r entities.PlanningLedgerRow) entities.Quantity { return r.PlannedOrderRelease }},
	}
	for i, line := range lines {
		values := []interface{}{line.label}
		for _, row := range plan.Rows {
			values = append(values, int64(line.value(row)))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s for %s: %w", line.label, plan.Item, err)
		}
	}
	f.SetColWidth(sheet, "A", "A", 22)
	return nil
}

// sheetName derives a unique, valid worksheet name from an item code.
// Worksheet names compare case-insensitively, so used holds lower-cased names.
func sheetName(code entities.ItemCode, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, string(code))
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		runes := []rune(name)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		candidate = string(runes) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
