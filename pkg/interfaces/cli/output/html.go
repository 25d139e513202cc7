package output

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/vsinha/ordercalc/pkg/application/dto"
	"github.com/vsinha/ordercalc/pkg/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// ReportData contains all data for rendering the HTML report
type ReportData struct {
	RunID       string
	Stats       dto.ResolutionStats
	Targets     []entities.Target
	Lines       []entities.OrderLine
	Diagnostics []dto.Diagnostic
	GeneratedAt string
}

// NewReportData prepares a result for the report template
func NewReportData(result *dto.ResolutionResult, targets []entities.Target, now time.Time) ReportData {
	return ReportData{
		RunID:       result.RunID,
		Stats:       result.Stats,
		Targets:     targets,
		Lines:       result.OrderLines,
		Diagnostics: result.Diagnostics,
		GeneratedAt: now.Format("2006-01-02 15:04:05 MST"),
	}
}

func writeHTML(w io.Writer, result *dto.ResolutionResult, config Config) error {
	data := NewReportData(result, config.Targets, time.Now())
	if err := reportTemplate.ExecuteTemplate(w, "report.html", data); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
