package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reqsynth/internal/config"
	"reqsynth/internal/engine"
	"reqsynth/internal/exporter"
	"reqsynth/internal/logger"
	"reqsynth/internal/model"
	"reqsynth/internal/ui"
)

const (
	appName    = "ReqSynth"
	appVersion = "1.0.0"
	appDesc    = "A Pure Go request generator for Legacy Spring (Java) codebases"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
	outputDir   string
	formats     string
	execute     bool
	hostFlag    string
	portFlag    int
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "", "Comma-separated output formats (http,curl,excel,word)")
	flag.BoolVar(&execute, "execute", false, "Send each synthesized request at the target server")
	flag.StringVar(&hostFlag, "host", "", "Override the target host from config")
	flag.IntVar(&portFlag, "port", 0, "Override the detected server port")
}

func main() {
	// CRITICAL: Ensure "Press Enter to Exit" runs even on panic or error
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
		}
		waitForEnter()
	}()

	// Run the actual application logic
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	// 1. Initialize
	logger.Info("Loading configuration...")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
		cfg.EnsureOutputDir()
	}
	if hostFlag != "" {
		cfg.Generation.DefaultHost = hostFlag
	}
	if portFlag > 0 {
		cfg.Generation.DefaultPort = portFlag
	}

	logPath := filepath.Join(cfg.Output.Dir, "reqsynth.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		return 1
	}

	if !cfg.Generation.Enabled {
		logger.Info("Generation disabled in configuration, nothing to do.")
		return 0
	}

	if err := runGeneration(cfg); err != nil {
		logger.Error("Generation failed: %v", err)
		return 1
	}

	logger.Info("✅ Generation Complete. Check [%s] directory.", cfg.Output.Dir)
	return 0
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func runGeneration(cfg *config.Config) error {
	phases := []ui.Phase{
		ui.PhaseScanning,
		ui.PhaseResolving,
		ui.PhaseSynthesizing,
	}
	if execute {
		phases = append(phases, ui.PhaseExecuting)
	}
	phases = append(phases, ui.PhaseExporting)
	pipeline := ui.NewPipeline(phases)

	eng := engine.New(cfg)
	report, err := eng.Run(context.Background(), engine.Options{
		Execute:  execute,
		Pipeline: pipeline,
	})
	if err != nil {
		if errors.Is(err, engine.ErrNoEndpoints) {
			return fmt.Errorf("no endpoint annotations found under %s", cfg.Project.RootDir)
		}
		return err
	}

	if execute {
		printExecutionSummary(report.Results)
		if cfg.Generation.SaveResponses {
			if err := saveResponses(cfg, report); err != nil {
				logger.Warn("Failed to save responses: %v", err)
			}
		}
	}

	// --- Exporting ---
	logger.Info("Exporting results...")
	targetFormats := cfg.Output.Formats
	if formats != "" {
		targetFormats = strings.Split(formats, ",")
	}
	exporters := exporter.GetExporters(targetFormats)
	if len(exporters) == 0 {
		logger.Warn("No valid output formats in %v, defaulting to http", targetFormats)
		exporters = exporter.GetExporters([]string{"http"})
	}

	exportBar := pipeline.NextPhase(len(exporters))

	var exportErrors []error
	for _, exp := range exporters {
		if err := exp.Export(report, cfg); err != nil {
			logger.Error("Export failed: %v", err)
			exportErrors = append(exportErrors, err)
		}
		exportBar.Increment()
	}
	exportBar.Finish()

	pipeline.Finish()

	if len(exportErrors) > 0 {
		return fmt.Errorf("one or more exports failed: %d errors", len(exportErrors))
	}

	return nil
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      REQSYNTH v1.0.0                      ║
║       Request Generation for Legacy Spring Projects       ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}

func printExecutionSummary(results []*model.RequestResult) {
	var ok, failed int
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Err != "" || r.Status >= 400 {
			failed++
		} else {
			ok++
		}
	}
	logger.Info("Execution: %d succeeded, %d failed", ok, failed)
}

// saveResponses writes each response body next to the request files, one
// file per executed request.
func saveResponses(cfg *config.Config, report *model.Report) error {
	dir := filepath.Join(cfg.Output.Dir, "responses")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create responses directory: %w", err)
	}

	for i, result := range report.Results {
		if result == nil || i >= len(report.Requests) {
			continue
		}
		er := report.Requests[i]

		name := fmt.Sprintf("%03d_%s_%s.txt", i+1, er.ControllerName, er.MethodName)
		content := fmt.Sprintf("%s %s\nStatus: %s\nDuration: %dms\n\n%s\n",
			er.Request.Verb, er.Request.URL, result.StatusText, result.DurationMS, result.Body)
		if result.Err != "" {
			content = fmt.Sprintf("%s %s\nError: %s\n", er.Request.Verb, er.Request.URL, result.Err)
		}

		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write response file: %w", err)
		}
	}

	return nil
}
