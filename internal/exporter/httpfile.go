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

// HTTPFileExporter writes the synthesized requests as one .http file, the
// format REST clients in JetBrains IDEs and VS Code consume directly.
type HTTPFileExporter struct {
	// Stateless
}

// NewHTTPFileExporter creates a new HTTPFileExporter
func NewHTTPFileExporter() *HTTPFileExporter {
	return &HTTPFileExporter{}
}

// Export writes every synthesized request as a ### block. A @host variable
// line is emitted when any URL still carries the host placeholder, so the
// file stays runnable without editing each request.
func (e *HTTPFileExporter) Export(report *model.Report, cfg *config.Config) error {
	outputFile := cfg.GetOutputPath(".http")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### %s — %d requests generated %s\n",
		report.ProjectName, len(report.Synthesized()), report.GeneratedAt))

	if e.needsHostVariable(report, cfg) {
		sb.WriteString(fmt.Sprintf("@host = http://%s:%d%s\n",
			cfg.Generation.DefaultHost, report.Server.Port, report.Server.ContextPath))
	}
	sb.WriteString("\n")

	for _, er := range report.Synthesized() {
		req := er.Request

		sb.WriteString(fmt.Sprintf("### %s.%s (%s:%d)\n", er.ControllerName, er.MethodName, er.SourceFile, er.Line))
		sb.WriteString(fmt.Sprintf("%s %s\n", req.Verb, req.URL))
		for _, h := range req.Headers {
			sb.WriteString(fmt.Sprintf("%s: %s\n", h.Name, h.Value))
		}
		if req.Body != "" {
			sb.WriteString("\n")
			sb.WriteString(req.Body)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if err := os.WriteFile(outputFile, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write .http file: %w", err)
	}

	logger.Debug("[EXPORT] Wrote %s", outputFile)
	return nil
}

func (e *HTTPFileExporter) needsHostVariable(report *model.Report, cfg *config.Config) bool {
	if cfg.Generation.UseVariables {
		return true
	}
	for _, er := range report.Synthesized() {
		if strings.Contains(er.Request.URL, assembler.HostPlaceholder) {
			return true
		}
	}
	return false
}
