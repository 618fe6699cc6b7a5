package exporter

import (
	"strings"

	"reqsynth/internal/exporter/word"
)

// GetExporters returns a list of Exporters based on requested formats
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		if seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "http", "rest":
			exporters = append(exporters, NewHTTPFileExporter())
		case "curl", "sh":
			exporters = append(exporters, NewCurlExporter())
		case "excel", "xlsx":
			exporters = append(exporters, NewExcelExporter())
		case "word", "docx":
			exporters = append(exporters, word.NewWordExporter())
		}
	}

	// Unknown formats are dropped silently; the caller decides defaults.
	return exporters
}
