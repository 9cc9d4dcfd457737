package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Writer writes planning data in the format Loader reads
type Writer struct{}

// NewWriter creates a new CSV writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteDir writes the four scenario files of a request into dir
func (w *Writer) WriteDir(dir string, req dto.PlanningRunRequest) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{ItemsFile, func(out io.Writer) error { return w.WriteItems(out, req.Items) }},
		{BOMFile, func(out io.Writer) error { return w.WriteBOM(out, req.BOM) }},
		{DemandFile, func(out io.Writer) error { return w.WriteDemands(out, req.Demand) }},
		{SupplyFile, func(out io.Writer) error { return w.WriteSupply(out, req.Supply) }},
	}

	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// WriteItems writes items with the items.csv header
func (w *Writer) WriteItems(out io.Writer, items []entities.Item) error {
	return writeRecords(out, itemsHeader, len(items), func(i int) []string {
		item := items[i]
		return []string{
			string(item.Code),
			item.Description,
			string(item.Type),
			item.UnitOfMeasure,
			strconv.Itoa(item.LeadTime),
			strconv.FormatBool(item.AllowZeroLeadTime),
			item.LotSizing.String(),
			formatQuantity(item.LotSize),
			strconv.Itoa(item.PeriodsOfSupply),
			formatQuantity(item.MinOrderQty),
			formatQuantity(item.RoundingMultiple),
			formatQuantity(item.SafetyStock),
			formatQuantity(item.OnHand),
			formatQuantity(item.Allocated),
		}
	})
}

// WriteBOM writes edges with the bom.csv header; an open effectivity end is left empty
func (w *Writer) WriteBOM(out io.Writer, edges []entities.BOMEdge) error {
	return writeRecords(out, bomHeader, len(edges), func(i int) []string {
		edge := edges[i]
		to := ""
		if edge.EffectiveTo != nil {
			to = strconv.Itoa(*edge.EffectiveTo)
		}
		return []string{string(edge.Parent), string(edge.Child), edge.QtyPer.String(), strconv.Itoa(edge.EffectiveFrom), to}
	})
}

// WriteDemands writes demand entries with the demands.csv header
func (w *Writer) WriteDemands(out io.Writer, demands []entities.DemandEntry) error {
	return writeRecords(out, demandHeader, len(demands), func(i int) []string {
		d := demands[i]
		return []string{string(d.Item), strconv.Itoa(d.Bucket), formatQuantity(d.Quantity), d.SourceRef}
	})
}

// WriteSupply writes scheduled receipts with the supply.csv header
func (w *Writer) WriteSupply(out io.Writer, receipts []entities.SupplyEntry) error {
	return writeRecords(out, supplyHeader, len(receipts), func(i int) []string {
		s := receipts[i]
		return []string{string(s.Item), strconv.Itoa(s.Bucket), formatQuantity(s.Quantity), s.SourceRef}
	})
}

func writeRecords(out io.Writer, header []string, n int, record func(int) []string) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(record(i)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatQuantity(q entities.Quantity) string {
	return strconv.FormatInt(int64(q), 10)
}
