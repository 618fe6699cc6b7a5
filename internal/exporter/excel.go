package exporter

import (
	"fmt"
	"sort"
	"strings"

	"reqsynth/internal/config"
	"reqsynth/internal/model"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter handles the Excel inventory generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel inventory: an Overview sheet with run totals
// and a Requests sheet listing every synthesized request and skipped unit.
func (e *ExcelExporter) Export(report *model.Report, cfg *config.Config) error {
	outputFile := cfg.GetOutputPath(".xlsx")
	f := excelize.NewFile()
	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	// 1. Create Overview Sheet
	if err := e.writeOverview(f, styler, report); err != nil {
		return err
	}

	// 2. Create Requests Sheet
	if err := e.writeRequests(f, styler, report); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	// Save
	if err := f.SaveAs(outputFile); err != nil {
		return err
	}

	return nil
}

// --- Overview Sheet Logic ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := "Overview"
	f.NewSheet(sheet)

	headers := []string{"Metric", "Count"}

	row := 1
	e.writeRow(f, sheet, row, headers, s.HeaderStyle)
	row++

	synthesized := report.Synthesized()
	metrics := []struct {
		Key string
		Val int
	}{
		{"Total Endpoints Found", len(report.Requests)},
		{"Requests Synthesized", len(synthesized)},
		{"Units Skipped", len(report.Skipped)},
		{"Live-Confirmed Routes", countLiveMatched(synthesized)},
	}

	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		row++
	}

	row += 2 // Spacer

	// Section B: Requests per HTTP verb
	e.writeRow(f, sheet, row, []string{"Verb", "Requests"}, s.HeaderStyle)
	row++

	verbCounts := report.VerbCounts()
	verbs := make([]string, 0, len(verbCounts))
	for v := range verbCounts {
		verbs = append(verbs, string(v))
	}
	sort.Strings(verbs)
	for _, v := range verbs {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), v)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), verbCounts[model.Verb(v)])
		row++
	}

	row += 2 // Spacer

	// Section C: Skip reasons per failure class
	e.writeRow(f, sheet, row, []string{"Failure Class", "Units"}, s.HeaderStyle)
	row++

	skipCounts := report.SkippedByClass()
	classes := make([]string, 0, len(skipCounts))
	for c := range skipCounts {
		classes = append(classes, string(c))
	}
	sort.Strings(classes)
	for _, c := range classes {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), c)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), skipCounts[model.FailureClass(c)])
		row++
	}

	f.SetColWidth(sheet, "A", "A", 30)

	return nil
}

// --- Requests Sheet Logic ---

func (e *ExcelExporter) writeRequests(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := "Requests"
	f.NewSheet(sheet)

	headers := []string{"No", "Verb", "URL", "Controller", "Method", "Source", "Live", "Headers", "Body"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	row := 2
	listIndex := 1
	for _, er := range report.Synthesized() {
		req := er.Request

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), listIndex)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), string(req.Verb))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), req.URL)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), er.ControllerName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), er.MethodName)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("%s:%d", er.SourceFile, er.Line))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), liveLabel(er.LiveMatched))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), headerSummary(req.Headers))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), req.Body)

		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("H%d", row), s.EndpointStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("I%d", row), fmt.Sprintf("I%d", row), s.BodyStyle)

		row++
		listIndex++
	}

	// Skipped units follow the requests, in red.
	for _, skipped := range report.Skipped {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), listIndex)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "SKIPPED")
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), skipped.Reason)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("%s:%d", skipped.SourceFile, skipped.Line))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), string(skipped.Class))

		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), s.SkippedStyle)

		row++
		listIndex++
	}

	// Adjust column widths
	f.SetColWidth(sheet, "C", "C", 50) // URL
	f.SetColWidth(sheet, "D", "E", 25) // Controller/Method
	f.SetColWidth(sheet, "F", "F", 40) // Source
	f.SetColWidth(sheet, "H", "H", 40) // Headers
	f.SetColWidth(sheet, "I", "I", 50) // Body

	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func countLiveMatched(requests []*model.EndpointRequest) int {
	count := 0
	for _, er := range requests {
		if er.LiveMatched {
			count++
		}
	}
	return count
}

func liveLabel(matched bool) string {
	if matched {
		return "Y"
	}
	return "N"
}

func headerSummary(headers []model.Header) string {
	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = h.Name + ": " + h.Value
	}
	return strings.Join(parts, "\n")
}
