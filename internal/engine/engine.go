// Package engine orchestrates the generation pipeline: scan the project for
// endpoint annotations, resolve routes, synthesize requests, optionally fire
// them at a live server, and hand the outcome to the exporters. One broken
// endpoint never stops the batch; it degrades into the skipped list.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"reqsynth/internal/assembler"
	"reqsynth/internal/config"
	"reqsynth/internal/executor"
	"reqsynth/internal/introspect"
	"reqsynth/internal/logger"
	"reqsynth/internal/mapping"
	"reqsynth/internal/model"
	"reqsynth/internal/scanner"
	"reqsynth/internal/serverconf"
	"reqsynth/internal/signature"
	"reqsynth/internal/synth"
	"reqsynth/internal/ui"
	"reqsynth/internal/workspace"
)

// ErrNoEndpoints is returned when the scan finishes without locating a
// single endpoint annotation.
var ErrNoEndpoints = errors.New("no endpoint annotations found in project")

// bodyCacheSize bounds the memoized class shapes shared across the batch.
const bodyCacheSize = 256

// ProjectType classifies the scanned tree by its build files.
type ProjectType string

const (
	ProjectMaven  ProjectType = "maven"
	ProjectGradle ProjectType = "gradle"
	ProjectPlain  ProjectType = "plain"
)

// Engine drives one project's generation run. Safe for a single run at a
// time; the project-type detection is additionally safe under concurrent
// callers via singleflight.
type Engine struct {
	cfg      *config.Config
	ws       *workspace.Workspace
	resolver *synth.Resolver

	detectGroup singleflight.Group
	projectType ProjectType
}

// Options steer one run.
type Options struct {
	// Execute sends each synthesized request at the target server and
	// collects the responses.
	Execute bool

	// Pipeline reports phase progress; nil disables progress output.
	Pipeline *ui.Pipeline
}

// New builds an engine over the configured project root.
func New(cfg *config.Config) *Engine {
	ws := workspace.New(cfg.Project.RootDir, cfg.Analysis.ExcludeDirs)
	return &Engine{
		cfg:      cfg,
		ws:       ws,
		resolver: synth.NewResolver(ws, bodyCacheSize),
	}
}

// DetectProjectType inspects the tree's build files once per engine
// lifetime. Concurrent callers collapse into a single detection pass.
func (e *Engine) DetectProjectType() ProjectType {
	if e.projectType != "" {
		return e.projectType
	}

	v, _, _ := e.detectGroup.Do("project-type", func() (interface{}, error) {
		pt := ProjectPlain
		if _, err := os.Stat(filepath.Join(e.ws.Root, "pom.xml")); err == nil {
			pt = ProjectMaven
		} else if len(e.ws.FindFiles("build.gradle*", 1)) > 0 {
			pt = ProjectGradle
		}
		logger.Debug("[ENGINE] Project type: %s", pt)
		return pt, nil
	})

	e.projectType = v.(ProjectType)
	return e.projectType
}

// Run executes the full pipeline and returns the report. The returned error
// is ErrNoEndpoints only when nothing at all was found; individual failures
// land in the report's skipped list instead.
func (e *Engine) Run(ctx context.Context, opts Options) (*model.Report, error) {
	pipeline := opts.Pipeline
	if pipeline == nil {
		pipeline = ui.NewPipeline([]ui.Phase{
			ui.PhaseScanning, ui.PhaseResolving, ui.PhaseSynthesizing, ui.PhaseExecuting,
		})
		pipeline.Disable()
	}

	report := &model.Report{
		ProjectName: filepath.Base(e.ws.Root),
		GeneratedAt: time.Now().Format("2006-01-02"),
	}

	logger.Info("Project type: %s", e.DetectProjectType())

	// --- Phase 1: Scanning ---
	logger.Info("Phase 1: Scanning for endpoint annotations...")
	files := e.ws.SourceFiles(".java")
	scanBar := pipeline.NextPhase(len(files))

	type unit struct {
		sourceFile string
		content    string
		match      scanner.Match
	}
	var units []unit

	for _, path := range files {
		content, err := e.ws.ReadFile(path)
		if err != nil {
			logger.Debug("[ENGINE] Unreadable source %s: %v", path, err)
			scanBar.Increment()
			continue
		}

		rel, relErr := filepath.Rel(e.ws.Root, path)
		if relErr != nil {
			rel = path
		}
		for _, m := range scanner.FindEndpointAnnotations(content) {
			units = append(units, unit{sourceFile: rel, content: content, match: m})
		}
		scanBar.Increment()
	}
	scanBar.Finish()
	logger.Info("Found %d endpoint annotations in %d files", len(units), len(files))

	if len(units) == 0 {
		return report, ErrNoEndpoints
	}

	// --- Phase 2: Resolving server configuration ---
	logger.Info("Phase 2: Resolving server configuration...")
	resolveBar := pipeline.NextPhase(2)

	// A port the project config never declared comes from the configured
	// default (which the -port flag overrides upstream).
	report.Server = serverconf.Resolve(e.ws)
	if report.Server.Port == 0 {
		report.Server.Port = e.cfg.Generation.DefaultPort
	}
	if report.Server.Port == 0 {
		report.Server.Port = model.DefaultServerConfig().Port
	}
	resolveBar.Increment()

	timeout := time.Duration(e.cfg.Timeout()) * time.Millisecond
	catalog, err := introspect.Fetch(ctx, e.cfg.Generation.DefaultHost, report.Server, timeout)
	if err != nil {
		logger.Debug("[ENGINE] No live route catalog: %v", err)
		catalog = nil
	} else {
		logger.Info("Live server confirmed %d routes", catalog.Size())
	}
	resolveBar.Finish()

	// --- Phase 3: Synthesizing ---
	logger.Info("Phase 3: Synthesizing requests...")
	synthBar := pipeline.NextPhase(len(units))

	for _, u := range units {
		er, skipped := e.generateOne(ctx, u.sourceFile, u.content, u.match, catalog, report.Server, timeout)
		if skipped != nil {
			report.Skipped = append(report.Skipped, *skipped)
			logger.LogSynthFailure(skipped.SourceFile, errors.New(skipped.Reason), string(skipped.Class))
		}
		if er != nil {
			report.Requests = append(report.Requests, er)
		}
		synthBar.Increment()
	}
	synthBar.Finish()
	logger.Info("Synthesized %d requests (%d units skipped)", len(report.Synthesized()), len(report.Skipped))

	// --- Phase 4: Executing (optional) ---
	if opts.Execute {
		logger.Info("Phase 4: Executing requests...")
		execBar := pipeline.NextPhase(len(report.Requests))

		for _, er := range report.Requests {
			if er.Request == nil {
				report.Results = append(report.Results, nil)
				execBar.Increment()
				continue
			}
			result := executor.Run(ctx, er.Request, timeout)
			report.Results = append(report.Results, &result)
			execBar.Increment()
		}
		execBar.Finish()
	}

	pipeline.Finish()
	return report, nil
}

// generateOne turns one scanner match into a request descriptor. All stage
// failures degrade to a skipped unit; the per-unit timeout bounds the whole
// generation including nested body resolution.
func (e *Engine) generateOne(
	ctx context.Context,
	sourceFile, content string,
	m scanner.Match,
	catalog *introspect.Catalog,
	server model.ServerConfig,
	timeout time.Duration,
) (*model.EndpointRequest, *model.SkippedUnit) {
	unitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		er      *model.EndpointRequest
		skipped *model.SkippedUnit
	}
	done := make(chan outcome, 1)

	go func() {
		er, skipped := e.synthesizeUnit(sourceFile, content, m, catalog, server)
		done <- outcome{er: er, skipped: skipped}
	}()

	select {
	case out := <-done:
		return out.er, out.skipped
	case <-unitCtx.Done():
		logger.Warn("Generation for %s:%d timed out after %s", sourceFile, m.Line, timeout)
		return nil, &model.SkippedUnit{
			SourceFile: sourceFile,
			Line:       m.Line,
			Reason:     fmt.Sprintf("generation timed out after %s", timeout),
			Class:      model.FailResource,
		}
	}
}

func (e *Engine) synthesizeUnit(
	sourceFile, content string,
	m scanner.Match,
	catalog *introspect.Catalog,
	server model.ServerConfig,
) (*model.EndpointRequest, *model.SkippedUnit) {
	skip := func(reason string, class model.FailureClass) (*model.EndpointRequest, *model.SkippedUnit) {
		return nil, &model.SkippedUnit{SourceFile: sourceFile, Line: m.Line, Reason: reason, Class: class}
	}

	route, ok := mapping.ExtractRoute(m.AnnotationText)
	if !ok {
		return skip("annotation is not a recognizable mapping form", model.FailMalformed)
	}

	classPath := mapping.ClassLevelPath(content, m.Offset)
	route.Path = mapping.CombinePaths(classPath, route.Path)
	if route.Path == "" {
		route.Path = "/"
	}

	method, ok := signature.ParseMethod(m.MethodText)
	if !ok {
		return skip("method header could not be parsed", model.FailMalformed)
	}

	// Live introspection wins: a catalog entry for the path overrides the
	// annotation's verb and selects the absolute URL form.
	liveMatched := catalog.Contains(route.Verb, route.Path)
	if !liveMatched {
		if verbs := catalog.VerbsFor(route.Path); len(verbs) == 1 {
			logger.Debug("[ENGINE] Live server maps %s as %s, overriding %s", route.Path, verbs[0], route.Verb)
			route.Verb = verbs[0]
			liveMatched = true
		}
	}

	effects := e.resolver.Classify(route, method.Parameters)

	req, err := assembler.Assemble(route, effects, assembler.Options{
		Host:     e.cfg.Generation.DefaultHost,
		Server:   server,
		Absolute: liveMatched && !e.cfg.Generation.UseVariables,
	})
	if err != nil {
		return skip(err.Error(), model.FailMalformed)
	}

	return &model.EndpointRequest{
		Request:        &req,
		ControllerName: controllerName(sourceFile),
		MethodName:     method.Name,
		SourceFile:     sourceFile,
		Line:           m.Line,
		LiveMatched:    liveMatched,
	}, nil
}

func controllerName(sourceFile string) string {
	return strings.TrimSuffix(filepath.Base(sourceFile), ".java")
}
