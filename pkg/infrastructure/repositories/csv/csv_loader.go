package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpplan/pkg/application/dto"
	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// File names of a scenario directory
const (
	ItemsFile  = "items.csv"
	BOMFile    = "bom.csv"
	DemandFile = "demands.csv"
	SupplyFile = "supply.csv"
)

var (
	itemsHeader = []string{
		"item_code", "description", "item_type", "unit_of_measure", "lead_time", "allow_zero_lead_time",
		"lot_sizing_policy", "lot_size", "periods_of_supply", "min_order_qty", "rounding_multiple",
		"safety_stock", "on_hand", "allocated",
	}
	bomHeader    = []string{"parent_code", "child_code", "qty_per", "effective_from", "effective_to"}
	demandHeader = []string{"item_code", "bucket", "quantity", "source_ref"}
	supplyHeader = []string{"item_code", "bucket", "quantity", "source_ref"}
)

// Loader handles loading planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDir loads a scenario directory into a planning request.
// supply.csv is optional; the other three files are required.
func (l *Loader) LoadDir(dir string, horizon entities.Horizon) (dto.PlanningRunRequest, error) {
	req := dto.PlanningRunRequest{Horizon: horizon}
	var err error

	if req.Items, err = l.LoadItems(filepath.Join(dir, ItemsFile)); err != nil {
		return req, err
	}
	if req.BOM, err = l.LoadBOM(filepath.Join(dir, BOMFile)); err != nil {
		return req, err
	}
	if req.Demand, err = l.LoadDemands(filepath.Join(dir, DemandFile)); err != nil {
		return req, err
	}

	req.Supply, err = l.LoadSupply(filepath.Join(dir, SupplyFile))
	if errors.Is(err, fs.ErrNotExist) {
		return req, nil
	}
	return req, err
}

// LoadItems loads items from a CSV file
func (l *Loader) LoadItems(filename string) ([]entities.Item, error) {
	var items []entities.Item
	err := readFile(filename, "items", itemsHeader, func(record []string) error {
		item, err := parseItem(record)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

// LoadBOM loads BOM edges from a CSV file
func (l *Loader) LoadBOM(filename string) ([]entities.BOMEdge, error) {
	var edges []entities.BOMEdge
	err := readFile(filename, "BOM", bomHeader, func(record []string) error {
		edge, err := parseBOMEdge(record)
		if err != nil {
			return err
		}
		edges = append(edges, edge)
		return nil
	})
	return edges, err
}

// LoadDemands loads independent demand from a CSV file
func (l *Loader) LoadDemands(filename string) ([]entities.DemandEntry, error) {
	var demands []entities.DemandEntry
	err := readFile(filename, "demands", demandHeader, func(record []string) error {
		item, bucket, qty, err := parseTimePhased(record)
		if err != nil {
			return err
		}
		demands = append(demands, entities.DemandEntry{Item: item, Bucket: bucket, Quantity: qty, SourceRef: record[3]})
		return nil
	})
	return demands, err
}

// LoadSupply loads scheduled receipts from a CSV file
func (l *Loader) LoadSupply(filename string) ([]entities.SupplyEntry, error) {
	var receipts []entities.SupplyEntry
	err := readFile(filename, "supply", supplyHeader, func(record []string) error {
		item, bucket, qty, err := parseTimePhased(record)
		if err != nil {
			return err
		}
		receipts = append(receipts, entities.SupplyEntry{Item: item, Bucket: bucket, Quantity: qty, SourceRef: record[3]})
		return nil
	})
	return receipts, err
}

func readFile(filename, kind string, expectedHeader []string, row func([]string) error) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	return readRecords(file, kind, expectedHeader, row)
}

func readRecords(r io.Reader, kind string, expectedHeader []string, row func([]string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
		if err := row(record); err != nil {
			return fmt.Errorf("%s CSV row %d: %w", kind, i+2, err)
		}
	}

	return nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		// Excel likes to prepend a byte order mark
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parseItem(record []string) (entities.Item, error) {
	item := entities.Item{
		Code:          entities.ItemCode(strings.TrimSpace(record[0])),
		Description:   record[1],
		Type:          entities.ItemType(strings.ToLower(strings.TrimSpace(record[2]))),
		UnitOfMeasure: record[3],
	}

	var err error
	if item.LeadTime, err = parseInt(record[4], "lead_time"); err != nil {
		return entities.Item{}, err
	}
	if item.AllowZeroLeadTime, err = parseBool(record[5], "allow_zero_lead_time"); err != nil {
		return entities.Item{}, err
	}
	if item.LotSizing, err = entities.ParseLotSizingPolicy(record[6]); err != nil {
		return entities.Item{}, err
	}

	quantities := []struct {
		column string
		value  string
		target *entities.Quantity
	}{
		{"lot_size", record[7], &item.LotSize},
		{"min_order_qty", record[9], &item.MinOrderQty},
		{"rounding_multiple", record[10], &item.RoundingMultiple},
		{"safety_stock", record[11], &item.SafetyStock},
		{"on_hand", record[12], &item.OnHand},
		{"allocated", record[13], &item.Allocated},
	}
	for _, q := range quantities {
		if *q.target, err = parseQuantity(q.value, q.column); err != nil {
			return entities.Item{}, err
		}
	}

	if item.PeriodsOfSupply, err = parseInt(record[8], "periods_of_supply"); err != nil {
		return entities.Item{}, err
	}

	return item, nil
}

func parseBOMEdge(record []string) (entities.BOMEdge, error) {
	qtyPer, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return entities.BOMEdge{}, fmt.Errorf("invalid qty_per: %s", record[2])
	}

	edge := entities.BOMEdge{
		Parent: entities.ItemCode(strings.TrimSpace(record[0])),
		Child:  entities.ItemCode(strings.TrimSpace(record[1])),
		QtyPer: qtyPer,
	}

	if edge.EffectiveFrom, err = parseInt(record[3], "effective_from"); err != nil {
		return entities.BOMEdge{}, err
	}
	if strings.TrimSpace(record[4]) != "" {
		to, err := parseInt(record[4], "effective_to")
		if err != nil {
			return entities.BOMEdge{}, err
		}
		edge.EffectiveTo = &to
	}

	return edge, nil
}

func parseTimePhased(record []string) (entities.ItemCode, int, entities.Quantity, error) {
	item := entities.ItemCode(strings.TrimSpace(record[0]))

	bucket, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid bucket: %s", record[1])
	}

	quantity, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid quantity: %s", record[2])
	}

	return item, bucket, entities.Quantity(quantity), nil
}

// parseInt treats an empty cell as zero
func parseInt(s, column string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return v, nil
}

func parseQuantity(s, column string) (entities.Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return entities.Quantity(v), nil
}

func parseBool(s, column string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", column, s)
	}
	return v, nil
}
