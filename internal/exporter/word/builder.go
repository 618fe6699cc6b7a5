// Package word renders the request catalog as a Word document from an
// embedded template, for teams that hand test plans around as documents.
package word

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"reqsynth/internal/config"
	"reqsynth/internal/model"

	"github.com/nguyenthenguyen/docx"
)

//go:embed template.docx
var templateFS embed.FS

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(report *model.Report, cfg *config.Config) error {
	// 1. Extract embedded template to temp file
	templateBytes, err := templateFS.ReadFile("template.docx")
	if err != nil {
		return fmt.Errorf("failed to read embedded template: %w", err)
	}

	// Create temp file
	tmpFile, err := os.CreateTemp("", "reqsynth-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // Clean up

	if _, err := tmpFile.Write(templateBytes); err != nil {
		return fmt.Errorf("failed to write template to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Open docx from temp path
	r, err := docx.ReadDocxFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read docx from temp file: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	requests := report.Synthesized()

	// Sort requests by URL for a stable catalog order
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].Request.URL < requests[j].Request.URL
	})

	controllerSet := make(map[string]bool)
	for _, er := range requests {
		controllerSet[er.ControllerName] = true
	}

	// 2. Replace Summary Placeholders
	doc.Replace("{{Date}}", report.GeneratedAt, -1)
	doc.Replace("{{TotalRequests}}", fmt.Sprintf("%d", len(requests)), -1)
	doc.Replace("{{TotalControllers}}", fmt.Sprintf("%d", len(controllerSet)), -1)

	// 3. Generate the request catalog as plain text
	// The docx library handles the XML encoding
	var contentBuilder strings.Builder

	contentBuilder.WriteString("GENERATED REQUEST CATALOG\n\n")
	contentBuilder.WriteString("Summary Overview:\n")
	contentBuilder.WriteString(fmt.Sprintf("  • Total Requests: %d\n", len(requests)))
	contentBuilder.WriteString(fmt.Sprintf("  • Controllers: %d\n", len(controllerSet)))
	contentBuilder.WriteString(fmt.Sprintf("  • Skipped Units: %d\n\n", len(report.Skipped)))
	contentBuilder.WriteString(strings.Repeat("=", 80) + "\n\n")

	for i, er := range requests {
		buildRequestText(&contentBuilder, er)

		// Add separator between requests
		if i < len(requests)-1 {
			contentBuilder.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
	}

	if len(report.Skipped) > 0 {
		contentBuilder.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")
		contentBuilder.WriteString("SKIPPED UNITS\n\n")
		for _, skipped := range report.Skipped {
			contentBuilder.WriteString(fmt.Sprintf("  [%s] %s:%d — %s\n",
				skipped.Class, skipped.SourceFile, skipped.Line, skipped.Reason))
		}
	}

	// Inject content (the library handles XML encoding)
	doc.Replace("{{Content}}", contentBuilder.String(), -1)

	outFile := cfg.GetOutputPath(".docx")
	if err := doc.WriteToFile(outFile); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	return nil
}

// buildRequestText builds plain text documentation for a single request
func buildRequestText(sb *strings.Builder, er *model.EndpointRequest) {
	req := er.Request

	sb.WriteString(fmt.Sprintf("[%s] %s\n", req.Verb, req.URL))
	sb.WriteString(fmt.Sprintf("Controller: %s.%s\n", er.ControllerName, er.MethodName))
	sb.WriteString(fmt.Sprintf("Source: %s:%d\n", er.SourceFile, er.Line))
	if er.LiveMatched {
		sb.WriteString("Confirmed by live server introspection\n")
	}
	sb.WriteString("\n")

	if len(req.Headers) > 0 {
		sb.WriteString("HEADERS:\n")
		for _, h := range req.Headers {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", h.Name, h.Value))
		}
		sb.WriteString("\n")
	}

	if req.Body != "" {
		sb.WriteString("BODY:\n")
		for _, line := range strings.Split(req.Body, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}
}
