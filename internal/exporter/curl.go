package exporter

import (
	"fmt"
	"os"
	"strings"

	"reqsynth/internal/assembler"
	"reqsynth/internal/config"
	"reqsynth/internal/logger"
	"reqsynth/internal/model"
)

// CurlExporter writes the synthesized requests as an executable shell script
// of curl invocations.
type CurlExporter struct {
	// Stateless
}

// NewCurlExporter creates a new CurlExporter
func NewCurlExporter() *CurlExporter {
	return &CurlExporter{}
}

// Export writes one curl command per request. Placeholder URLs bind to a
// HOST shell variable declared at the top of the script.
func (e *CurlExporter) Export(report *model.Report, cfg *config.Config) error {
	outputFile := cfg.GetOutputPath(".sh")

	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString(fmt.Sprintf("# %s — %d requests generated %s\n\n",
		report.ProjectName, len(report.Synthesized()), report.GeneratedAt))
	sb.WriteString(fmt.Sprintf("HOST=\"http://%s:%d%s\"\n\n",
		cfg.Generation.DefaultHost, report.Server.Port, report.Server.ContextPath))

	for _, er := range report.Synthesized() {
		req := er.Request
		url := strings.ReplaceAll(req.URL, assembler.HostPlaceholder, "${HOST}")

		sb.WriteString(fmt.Sprintf("# %s.%s (%s:%d)\n", er.ControllerName, er.MethodName, er.SourceFile, er.Line))
		sb.WriteString(fmt.Sprintf("curl -X %s \"%s\"", req.Verb, url))
		for _, h := range req.Headers {
			sb.WriteString(fmt.Sprintf(" \\\n  -H %s", shellQuote(h.Name+": "+h.Value)))
		}
		if req.Body != "" {
			sb.WriteString(fmt.Sprintf(" \\\n  -d %s", shellQuote(req.Body)))
		}
		sb.WriteString("\n\n")
	}

	if err := os.WriteFile(outputFile, []byte(sb.String()), 0755); err != nil {
		return fmt.Errorf("failed to write curl script: %w", err)
	}

	logger.Debug("[EXPORT] Wrote %s", outputFile)
	return nil
}

// shellQuote single-quotes a value for sh, escaping embedded single quotes
// with the '"'"' idiom.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
