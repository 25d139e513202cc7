package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

// parseTargetFlag parses one -t value of the form ID=QTY
func parseTargetFlag(s string) (entities.PartID, entities.Quantity, error) {
	idStr, qtyStr, ok := strings.Cut(s, "=")
	if !ok {
		return 0, entities.ZeroQuantity, fmt.Errorf("invalid target %q: expected ID=QTY", s)
	}
	return parseTargetFields(idStr, qtyStr)
}

func parseTargetFields(idStr, qtyStr string) (entities.PartID, entities.Quantity, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
	if err != nil {
		return 0, entities.ZeroQuantity, fmt.Errorf("invalid part id %q", idStr)
	}
	qty, err := entities.ParseQuantity(strings.TrimSpace(qtyStr))
	if err != nil {
		return 0, entities.ZeroQuantity, err
	}
	return entities.PartID(id), qty, nil
}

// buildTargetSet combines a targets file and -t flags; flags come last so
// they override file entries for the same part
func buildTargetSet(flags []string, file string) (*entities.TargetSet, error) {
	set := entities.NewTargetSet()

	if file != "" {
		rows, err := readTargetRows(file)
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			if len(row) < 2 {
				return nil, fmt.Errorf("%s row %d: expected part_id and quantity", file, i+1)
			}
			// an optional header row is recognised by a non-numeric first cell
			if i == 0 {
				if _, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64); err != nil {
					continue
				}
			}
			id, qty, err := parseTargetFields(row[0], row[1])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", file, i+1, err)
			}
			if err := set.Add(id, qty); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", file, i+1, err)
			}
		}
	}

	for _, flag := range flags {
		id, qty, err := parseTargetFlag(flag)
		if err != nil {
			return nil, err
		}
		if err := set.Add(id, qty); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// readTargetRows reads the rows of a .csv file or the first sheet of a
// .xlsx workbook
func readTargetRows(file string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".xlsx":
		f, err := excelize.OpenFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s has no sheets", file)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		return rows, nil

	case ".csv":
		fh, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer fh.Close()
		return readCSVRows(fh)

	default:
		return nil, fmt.Errorf("unsupported targets file %s (expected .csv or .xlsx)", file)
	}
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}
