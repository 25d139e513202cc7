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
	"time"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
	"github.com/vsinha/ordercalc/pkg/domain/repositories"
)

// Scenario file names inside a data directory
const (
	PartsFile = "parts.csv"
	BOMFile   = "bom.csv"
	StockFile = "stock.csv"
)

var (
	partsHeader = []string{"part_id", "name", "description", "is_assembly", "active"}
	bomHeader   = []string{"parent_id", "sub_part_id", "quantity", "reference"}
	stockHeader = []string{"stock_id", "part_id", "quantity", "status", "expiry_date", "consumed_by_build", "allocated_to_customer", "is_building"}
)

// Loader handles loading inventory data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDirectory reads parts.csv, bom.csv and stock.csv from dir into target.
// stock.csv is optional; without it every part has zero stock.
func (l *Loader) LoadDirectory(dir string, target repositories.InventoryLoader) error {
	parts, err := l.LoadParts(filepath.Join(dir, PartsFile))
	if err != nil {
		return err
	}
	if err := target.LoadParts(parts); err != nil {
		return fmt.Errorf("failed to store parts: %w", err)
	}

	lines, err := l.LoadBOM(filepath.Join(dir, BOMFile))
	if err != nil {
		return err
	}
	if err := target.LoadBOMLines(lines); err != nil {
		return fmt.Errorf("failed to store BOM lines: %w", err)
	}

	stock, err := l.LoadStock(filepath.Join(dir, StockFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := target.LoadStock(stock); err != nil {
		return fmt.Errorf("failed to store stock: %w", err)
	}
	return nil
}

// LoadParts loads parts from a CSV file
func (l *Loader) LoadParts(filename string) ([]*entities.Part, error) {
	records, err := readRecords(filename, "parts", partsHeader)
	if err != nil {
		return nil, err
	}

	parts := make([]*entities.Part, 0, len(records))
	for i, record := range records {
		part, err := parsePart(record)
		if err != nil {
			return nil, fmt.Errorf("parts CSV row %d: %w", i+2, err)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// LoadBOM loads BOM lines from a CSV file
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMLine, error) {
	records, err := readRecords(filename, "BOM", bomHeader)
	if err != nil {
		return nil, err
	}

	lines := make([]*entities.BOMLine, 0, len(records))
	for i, record := range records {
		line, err := parseBOMLine(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadStock loads stock records from a CSV file
func (l *Loader) LoadStock(filename string) ([]*entities.StockRecord, error) {
	records, err := readRecords(filename, "stock", stockHeader)
	if err != nil {
		return nil, err
	}

	stock := make([]*entities.StockRecord, 0, len(records))
	for i, record := range records {
		item, err := parseStockRecord(record)
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: %w", i+2, err)
		}
		stock = append(stock, item)
	}
	return stock, nil
}

// readRecords opens a CSV file, checks its header and returns the data rows.
// A header-only file yields no rows.
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	return parseRecords(file, kind, expectedHeader)
}

func parseRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		name := strings.TrimPrefix(actual[i], "\ufeff")
		if strings.ToLower(strings.TrimSpace(name)) != col {
			return false
		}
	}

	return true
}

func parsePart(record []string) (*entities.Part, error) {
	id, err := parsePartID(record[0], "part_id")
	if err != nil {
		return nil, err
	}

	isAssembly, err := parseBool(record[3], false)
	if err != nil {
		return nil, fmt.Errorf("invalid is_assembly: %s", record[3])
	}
	active, err := parseBool(record[4], true)
	if err != nil {
		return nil, fmt.Errorf("invalid active: %s", record[4])
	}

	part, err := entities.NewPart(id, strings.TrimSpace(record[1]), record[2], isAssembly)
	if err != nil {
		return nil, err
	}
	part.Active = active
	return part, nil
}

func parseBOMLine(record []string) (*entities.BOMLine, error) {
	parentID, err := parsePartID(record[0], "parent_id")
	if err != nil {
		return nil, err
	}
	subPartID, err := parsePartID(record[1], "sub_part_id")
	if err != nil {
		return nil, err
	}

	quantity, err := entities.ParseQuantity(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[2])
	}

	return entities.NewBOMLine(parentID, subPartID, quantity, strings.TrimSpace(record[3]))
}

func parseStockRecord(record []string) (*entities.StockRecord, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid stock_id: %s", record[0])
	}
	partID, err := parsePartID(record[1], "part_id")
	if err != nil {
		return nil, err
	}
	quantity, err := entities.ParseQuantity(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[2])
	}
	status, err := entities.ParseStockStatus(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, err
	}

	stock, err := entities.NewStockRecord(id, partID, quantity, status)
	if err != nil {
		return nil, err
	}

	if s := strings.TrimSpace(record[4]); s != "" {
		expiry, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry_date format: %s (expected YYYY-MM-DD)", s)
		}
		stock.ExpiryDate = &expiry
	}

	if stock.ConsumedByBuild, err = parseOptionalID(record[5], "consumed_by_build"); err != nil {
		return nil, err
	}
	if stock.AllocatedToCustomer, err = parseOptionalID(record[6], "allocated_to_customer"); err != nil {
		return nil, err
	}

	if stock.IsBuilding, err = parseBool(record[7], false); err != nil {
		return nil, fmt.Errorf("invalid is_building: %s", record[7])
	}
	return stock, nil
}

func parsePartID(s, column string) (entities.PartID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return entities.PartID(id), nil
}

func parseOptionalID(s, column string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", column, s)
	}
	return &id, nil
}

func parseBool(s string, empty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return empty, nil
	case "true", "yes", "y", "1":
		return true, nil
	case "false", "no", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", s)
	}
}
