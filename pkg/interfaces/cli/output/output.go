package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

// Supported formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatHTML = "html"
)

// BaseName is the file name stem used when writing into OutputDir
const BaseName = "order_lines"

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	// Writer receives stdout output; defaults to os.Stdout
	Writer  io.Writer
	Verbose bool
	Targets []entities.Target
}

// Formats lists the accepted --format values
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatCSV, FormatXLSX, FormatHTML}
}

// Generate writes the result in the configured format and returns the
// written file path, or "" when the output went to Writer
func Generate(result *dto.ResolutionResult, config Config) (string, error) {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	switch config.Format {
	case FormatText, "":
		return "", writeText(config.Writer, result, config)
	case FormatJSON:
		return generateFile(result, config, "json", writeJSON)
	case FormatCSV:
		return generateFile(result, config, "csv", writeCSV)
	case FormatXLSX:
		if config.OutputDir == "" {
			return "", fmt.Errorf("output directory required for xlsx format")
		}
		return generateFile(result, config, "xlsx", writeXLSX)
	case FormatHTML:
		return generateFile(result, config, "html", writeHTML)
	default:
		return "", fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

type writeFunc func(w io.Writer, result *dto.ResolutionResult, config Config) error

// generateFile writes to OutputDir/order_lines.<ext>, or to Writer when no
// directory is configured
func generateFile(result *dto.ResolutionResult, config Config, ext string, write writeFunc) (string, error) {
	if config.OutputDir == "" {
		return "", write(config.Writer, result, config)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, BaseName+"."+ext)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	if err := write(file, result, config); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, file.Close()
}

func writeText(w io.Writer, result *dto.ResolutionResult, config Config) error {
	fmt.Fprintf(w, "Order Calculator Results\n")
	fmt.Fprintf(w, "========================\n\n")

	fmt.Fprintf(w, "Targets: %d\n", result.Stats.Targets)
	fmt.Fprintf(w, "Base components: %d\n", result.Stats.Components)
	fmt.Fprintf(w, "Order lines: %d\n", len(result.OrderLines))
	if config.Verbose {
		fmt.Fprintf(w, "Run ID: %s\n", result.RunID)
		fmt.Fprintf(w, "Part reads: %d, BOM reads: %d, cache hits: %d, BOM reads skipped: %d\n",
			result.Stats.PartFetches, result.Stats.BOMFetches, result.Stats.CacheHits, result.Stats.BOMShortCircuits)
		fmt.Fprintf(w, "Duration: %v\n", result.Duration.Round(time.Microsecond))
	}
	fmt.Fprintln(w)

	if len(result.OrderLines) == 0 {
		fmt.Fprintln(w, "Stock covers every required component. Nothing to order.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "ID\tName\tRequired\tIn Stock\tTo Order\t")
		fmt.Fprintln(tw, "--\t----\t--------\t--------\t--------\t")
		for _, line := range result.OrderLines {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
				line.PartID, line.Name,
				formatQuantity(line.Required), formatQuantity(line.InStock), formatQuantity(line.ToOrder))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintf(w, "\nSkipped (%d):\n", len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  part %d at %s: %s\n", d.PartID, d.Stage, d.Code)
		}
	}

	return nil
}

// orderLineJSON matches the calculate endpoint result rows
type orderLineJSON struct {
	PK       int64       `json:"pk"`
	Name     string      `json:"name"`
	Required json.Number `json:"required"`
	InStock  json.Number `json:"in_stock"`
	ToOrder  json.Number `json:"to_order"`
}

type resultJSON struct {
	Success     bool                `json:"success"`
	Results     []orderLineJSON     `json:"results"`
	RunID       string              `json:"run_id"`
	Diagnostics []dto.Diagnostic    `json:"diagnostics"`
	Stats       dto.ResolutionStats `json:"stats"`
}

func writeJSON(w io.Writer, result *dto.ResolutionResult, config Config) error {
	out := resultJSON{
		Success:     true,
		Results:     make([]orderLineJSON, 0, len(result.OrderLines)),
		RunID:       result.RunID,
		Diagnostics: result.Diagnostics,
		Stats:       result.Stats,
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []dto.Diagnostic{}
	}
	for _, line := range result.OrderLines {
		out.Results = append(out.Results, orderLineJSON{
			PK:       int64(line.PartID),
			Name:     line.Name,
			Required: json.Number(line.Required.String()),
			InStock:  json.Number(line.InStock.String()),
			ToOrder:  json.Number(line.ToOrder.String()),
		})
	}

	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

var csvHeader = []string{"pk", "name", "required", "in_stock", "to_order", "unresolved"}

func writeCSV(w io.Writer, result *dto.ResolutionResult, config Config) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, line := range result.OrderLines {
		record := []string{
			fmt.Sprintf("%d", line.PartID),
			line.Name,
			line.Required.String(),
			line.InStock.String(),
			line.ToOrder.String(),
			fmt.Sprintf("%t", line.Unresolved),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// formatQuantity prints at least one decimal place, e.g. 14 as 14.0
func formatQuantity(q entities.Quantity) string {
	if q.Exponent() >= 0 || q.Equal(q.Truncate(0)) {
		return q.StringFixed(1)
	}
	return q.String()
}
