// Package app wires application services to their infrastructure adapters.
package app

import (
	"context"
	"time"

	"github.com/doeshing/termsense/assets"
	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/infrastructure/ai"
	"github.com/doeshing/termsense/internal/infrastructure/cache"
	"github.com/doeshing/termsense/internal/infrastructure/config"
	"github.com/doeshing/termsense/internal/infrastructure/gitctx"
	"github.com/doeshing/termsense/internal/infrastructure/history"
	"github.com/doeshing/termsense/internal/infrastructure/redact"
	"github.com/doeshing/termsense/internal/infrastructure/suggest"
	"github.com/doeshing/termsense/internal/infrastructure/workflow"
	"github.com/doeshing/termsense/internal/pkg/logger"
	"github.com/doeshing/termsense/internal/ports"
	"github.com/doeshing/termsense/internal/services"
)

// Container holds the constructed dependency graph. Each session owns its
// own container; nothing here is process-wide.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Logger       ports.Logger
	Redactor     *redact.Engine
	Tracker      *services.Tracker
	Orchestrator *services.Orchestrator
	Translator   *services.TranslateService
	Workflows    *workflow.Store
	Archive      ports.CommandArchive
	Snapshot     *history.SnapshotStore
	Monitor      ports.AvailabilityChecker
	Collector    ports.ContextCollector
}

// Options tune container construction.
type Options struct {
	Verbose    bool
	ConfigPath string
	// StateDir overrides the default ~/.termsense layout, used in tests.
	StateDir string
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	var log ports.Logger
	if opts.Verbose {
		log = logger.NewZero(true)
	} else {
		log = logger.NewStd(false)
	}

	redactor := redact.NewEngineFromFile(cfg.Redaction.RulesFile)

	snapshot, err := history.NewSnapshotStore(opts.StateDir)
	if err != nil {
		return nil, err
	}

	var archive ports.CommandArchive
	sqlArchive, err := history.NewArchive("", cfg.History.RetentionDays)
	if err != nil {
		log.Warn("history archive unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		archive = sqlArchive
	}

	runner := gitctx.NewExecRunner()
	collector := gitctx.NewCollector(runner)
	factory := ai.NewFactory()

	var monitor ports.AvailabilityChecker
	var sources []ports.SuggestionSource
	var translators []ports.Translator
	var explainer ports.FailureExplainer

	if local, ok := cfg.LocalModel(); ok {
		m := ai.NewMonitor(local.Endpoint, cfg.Suggestions.TTL())
		monitor = m
		source := ai.NewInferenceSource(factory.ForModel(local), m)
		sources = append(sources, source)
		translators = append(translators, source)
		explainer = source
	}
	if cloud, ok := cfg.CloudModel(); ok {
		source := ai.NewInferenceSource(factory.ForModel(cloud), nil)
		sources = append(sources, source)
		translators = append(translators, source)
		if explainer == nil {
			explainer = source
		}
	}
	static := suggest.NewStaticTable()
	sources = append(sources, static)

	tracker := services.NewTracker(services.TrackerConfig{
		Store:    snapshot,
		Archive:  archive,
		Runner:   runner,
		Explain:  explainer,
		Redactor: redactor,
		Logger:   log,
		Cap:      cfg.History.Cap,
	})

	orchestrator := services.NewOrchestrator(services.OrchestratorConfig{
		Sources:       sources,
		Paths:         suggest.NewPathCompleter(),
		Logger:        log,
		Debounce:      cfg.Suggestions.DebounceDelay(),
		CacheCapacity: cfg.Suggestions.CacheCapacity,
	})

	translator := services.NewTranslateService(services.TranslateConfig{
		Matcher:     suggest.NewNLMatcher(),
		Translators: translators,
		Static:      static,
		Cache:       cache.NewFileCache(""),
		Logger:      log,
	})

	workflows := workflow.NewStore(assets.SeedWorkflows(), snapshot, log)
	if err := workflows.Watch(snapshot.PathFor(domain.WorkflowsKey)); err != nil {
		log.Debug("workflow watch disabled", map[string]interface{}{"error": err.Error()})
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Redactor:     redactor,
		Tracker:      tracker,
		Orchestrator: orchestrator,
		Translator:   translator,
		Workflows:    workflows,
		Archive:      archive,
		Snapshot:     snapshot,
		Monitor:      monitor,
		Collector:    collector,
	}, nil
}

// NewSession builds a session facade over the container's services for the
// terminal in workingDir.
func (c *Container) NewSession(writer ports.SessionWriter, workingDir string) *services.Session {
	return services.NewSession(services.SessionConfig{
		Tracker:      c.Tracker,
		Orchestrator: c.Orchestrator,
		Translator:   c.Translator,
		Writer:       writer,
		Collector:    c.Collector,
		WorkingDir:   workingDir,
	})
}

// ProbeLocalEngine reports whether the local inference engine responds
// within the probe timeout, bypassing the TTL cache. Used by doctor.
func (c *Container) ProbeLocalEngine(ctx context.Context) bool {
	local, ok := c.Config.LocalModel()
	if !ok {
		return false
	}
	probe := ai.NewMonitor(local.Endpoint, time.Nanosecond)
	return probe.Available(ctx)
}

// Close releases container resources.
func (c *Container) Close() {
	if c.Workflows != nil {
		_ = c.Workflows.Close()
	}
	if closer, ok := c.Archive.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
