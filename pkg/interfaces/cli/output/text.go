package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

const (
	labelWidth  = 22
	bucketWidth = 7
)

type textStyles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	release lipgloss.Style
	warn    lipgloss.Style
}

// Styles are bound to the writer so plain buffers and pipes get no escape codes
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		header:  r.NewStyle().Foreground(lipgloss.Color("99")),
		label:   r.NewStyle().Foreground(lipgloss.Color("252")),
		release: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		warn:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// WriteText writes the summary, one weekly grid per item and the flagged conditions
func WriteText(w io.Writer, result *dto.PlanningRunResult, elapsed time.Duration) error {
	styles := newTextStyles(w)
	var b strings.Builder

	b.WriteString(styles.title.Render("MRP Results Summary"))
	b.WriteString("\n\n")
	if result.RunID != "" {
		fmt.Fprintf(&b, "Run:             %s\n", result.RunID)
	}
	fmt.Fprintf(&b, "Horizon:         %d %s buckets\n", result.Horizon.Buckets, result.Horizon.Unit)
	fmt.Fprintf(&b, "Items:           %d\n", result.Summary.Items)
	fmt.Fprintf(&b, "Planned Orders:  %d\n", result.Summary.PlannedOrders)
	fmt.Fprintf(&b, "Past Due Items:  %d\n", result.Summary.PastDueItems)
	fmt.Fprintf(&b, "Failed Items:    %d\n", result.Summary.FailedItems)
	if elapsed > 0 {
		fmt.Fprintf(&b, "Planning Time:   %v\n", elapsed)
	}
	b.WriteString("\n")

	for _, plan := range result.Items {
		writeGrid(&b, styles, result.Horizon, plan)
		b.WriteString("\n")
	}

	writeConditions(&b, styles, "Past Due Planned Orders", result.PastDue)
	writeConditions(&b, styles, "Planning Failures", result.Failures)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

func writeGrid(b *strings.Builder, styles textStyles, horizon entities.Horizon, plan dto.ItemPlan) {
	b.WriteString(styles.title.Render(string(plan.Item)))
	fmt.Fprintf(b, "  LLC %d  LT %d  SS %d  On hand %d\n",
		plan.LowLevelCode, plan.LeadTime, plan.SafetyStock, plan.StartingOnHand)

	header := fmt.Sprintf("%-*s", labelWidth, bucketLabel(horizon.Unit))
	for _, row := range plan.Rows {
		header += fmt.Sprintf("%*d", bucketWidth, row.Bucket)
	}
	b.WriteString(styles.header.Render(header))
	b.WriteString("\n")

	lines := []struct {
		label string
		value func(entities.PlanningLedgerRow) entities.Quantity
	}{
		{"Gross requirements", func(r entities.PlanningLedgerRow) entities.Quantity { return r.GrossRequirement }},
		{"Scheduled receipts", func(r entities.PlanningLedgerRow) entities.Quantity { return r.ScheduledReceipt }},
		{"Projected on hand", func(r entities.PlanningLedgerRow) entities.Quantity { return r.ProjectedOnHand }},
		{"Net requirements", func(r entities.PlanningLedgerRow) entities.Quantity { return r.NetRequirement }},
		{"Planned receipts", func(r entities.PlanningLedgerRow) entities.Quantity { return r.PlannedOrderReceipt }},
		{"Planned releases", func(r entities.PlanningLedgerRow) entities.Quantity { return r.PlannedOrderRelease }},
	}
	for i, line := range lines {
		b.WriteString(styles.label.Render(fmt.Sprintf("%-*s", labelWidth, line.label)))
		for _, row := range plan.Rows {
			cell := fmt.Sprintf("%*d", bucketWidth, line.value(row))
			if i == len(lines)-1 && row.PlannedOrderRelease > 0 {
				cell = styles.release.Render(cell)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	for _, order := range plan.PlannedOrders {
		if order.PastDue {
			b.WriteString(styles.warn.Render(fmt.Sprintf("  past due: %d released in bucket %d for bucket %d",
				order.Quantity, order.ReleaseBucket, order.ReceiptBucket)))
			b.WriteString("\n")
		}
	}
}

func writeConditions(b *strings.Builder, styles textStyles, title string, conditions []entities.Condition) {
	if len(conditions) == 0 {
		return
	}
	b.WriteString(styles.warn.Render(title))
	b.WriteString("\n")
	for _, cond := range conditions {
		fmt.Fprintf(b, "  %-20s %s\n", cond.Item, cond.Reason)
	}
	b.WriteString("\n")
}

func bucketLabel(unit entities.BucketUnit) string {
	switch unit {
	case entities.Day:
		return "Day"
	case entities.Month:
		return "Month"
	default:
		return "Week"
	}
}
