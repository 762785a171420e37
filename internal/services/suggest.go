// Package services contains the application core: the suggestion
// orchestrator, the command history tracker, the translation pipeline and
// the session facade tying them to a terminal.
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/infrastructure/suggest"
	"github.com/doeshing/termsense/internal/pkg/lru"
	"github.com/doeshing/termsense/internal/ports"
)

// Orchestrator turns input edits into ranked suggestions. Priority order:
// filesystem path completion (synchronous), per-input cache, then a
// debounced fetch through the ordered source chain terminating at the
// always-succeeding static table.
//
// Exactly one fetch is in flight per orchestrator; a superseding input
// cancels the previous fetch, and a completed fetch whose originating input
// no longer matches the current one is discarded without touching state.
type Orchestrator struct {
	sources  []ports.SuggestionSource
	paths    *suggest.PathCompleter
	logger   ports.Logger
	debounce time.Duration
	cache    *lru.Cache[string, []domain.AICommandSuggestion]

	mu       sync.Mutex
	current  []domain.AICommandSuggestion
	selected int
	inputKey string
	cancel   context.CancelFunc
	onUpdate func([]domain.AICommandSuggestion)

	// sleep is swapped in tests to avoid real debounce delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// OrchestratorConfig wires an Orchestrator.
type OrchestratorConfig struct {
	// Sources in priority order. The last element should be total (the
	// static table) so the pipeline never comes back empty-handed on error.
	Sources       []ports.SuggestionSource
	Paths         *suggest.PathCompleter
	Logger        ports.Logger
	Debounce      time.Duration
	CacheCapacity int
}

// NewOrchestrator builds an orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = domain.DefaultDebounceDelay
	}
	capacity := cfg.CacheCapacity
	if capacity <= 0 {
		capacity = domain.DefaultSuggestionCacheCapacity
	}
	paths := cfg.Paths
	if paths == nil {
		paths = suggest.NewPathCompleter()
	}
	return &Orchestrator{
		sources:  cfg.Sources,
		paths:    paths,
		logger:   cfg.Logger,
		debounce: debounce,
		cache:    lru.New[string, []domain.AICommandSuggestion](capacity),
		selected: -1,
		sleep:    sleepContext,
	}
}

// SetOnUpdate registers a callback invoked whenever an asynchronous fetch
// lands. The callback runs outside the orchestrator lock.
func (o *Orchestrator) SetOnUpdate(fn func([]domain.AICommandSuggestion)) {
	o.mu.Lock()
	o.onUpdate = fn
	o.mu.Unlock()
}

// UpdateInput reacts to an input edit. Synchronous outcomes (path
// completion, short input, cache hit) return immediately with pending
// false; otherwise a debounced fetch is started and pending is true, with
// results delivered through the OnUpdate callback.
func (o *Orchestrator) UpdateInput(ctx context.Context, text string, sctx domain.SessionContext) ([]domain.AICommandSuggestion, bool) {
	if paths := o.paths.Complete(text, sctx.WorkingDir); len(paths) > 0 {
		o.apply(normalizeInput(text), paths)
		return paths, false
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < domain.MinSuggestInputLength {
		o.Clear()
		return nil, false
	}

	key := normalizeInput(trimmed)
	if cached, ok := o.cache.Get(key); ok {
		o.apply(key, cached)
		return cached, false
	}

	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.inputKey = key
	o.mu.Unlock()

	go o.fetch(fetchCtx, key, trimmed, sctx)
	return nil, true
}

// Suggest runs the full pipeline synchronously, skipping the debounce.
// Used for one-shot invocations where there is no keystroke stream to
// coalesce.
func (o *Orchestrator) Suggest(ctx context.Context, text string, sctx domain.SessionContext) []domain.AICommandSuggestion {
	if paths := o.paths.Complete(text, sctx.WorkingDir); len(paths) > 0 {
		return paths
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < domain.MinSuggestInputLength {
		return nil
	}
	key := normalizeInput(trimmed)
	if cached, ok := o.cache.Get(key); ok {
		return cached
	}
	suggestions := o.fromSources(ctx, trimmed, sctx)
	if len(suggestions) > 0 {
		o.cache.Add(key, suggestions)
	}
	return suggestions
}

// fetch waits out the debounce window, consults the source chain and
// applies the result if this fetch is still the current one. The
// cancellation check sits at the suspension points: after the sleep and
// again before mutating shared state.
func (o *Orchestrator) fetch(ctx context.Context, key string, input string, sctx domain.SessionContext) {
	if err := o.sleep(ctx, o.debounce); err != nil {
		return // superseded while coalescing
	}
	if ctx.Err() != nil {
		return
	}

	suggestions := o.fromSources(ctx, input, sctx)

	o.mu.Lock()
	if ctx.Err() != nil || o.inputKey != key {
		o.mu.Unlock()
		return
	}
	if len(suggestions) > 0 {
		o.cache.Add(key, suggestions)
	}
	o.current = suggestions
	o.selected = -1
	callback := o.onUpdate
	o.mu.Unlock()

	if callback != nil {
		callback(suggestions)
	}
}

// fromSources walks the ordered chain, stopping at the first OK with
// results. With the static table as terminal element this never fails.
func (o *Orchestrator) fromSources(ctx context.Context, input string, sctx domain.SessionContext) []domain.AICommandSuggestion {
	for _, source := range o.sources {
		suggestions, outcome := source.Suggestions(ctx, input, sctx)
		if outcome == ports.SuggestionOK && len(suggestions) > 0 {
			return suggestions
		}
		if o.logger != nil && outcome != ports.SuggestionOK {
			o.logger.Debug("suggestion source failed over", map[string]interface{}{
				"source":  source.Name(),
				"outcome": int(outcome),
			})
		}
	}
	return nil
}

// Current returns a copy of the active suggestion list.
func (o *Orchestrator) Current() []domain.AICommandSuggestion {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.AICommandSuggestion(nil), o.current...)
}

// Selected returns the cursor index, -1 when nothing is selected.
func (o *Orchestrator) Selected() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selected
}

// SelectNext moves the cursor down, clamped to the last suggestion.
func (o *Orchestrator) SelectNext() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.current) == 0 {
		return
	}
	if o.selected < len(o.current)-1 {
		o.selected++
	}
}

// SelectPrev moves the cursor up, clamped to the first suggestion.
func (o *Orchestrator) SelectPrev() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.current) == 0 {
		return
	}
	if o.selected > 0 {
		o.selected--
	} else {
		o.selected = 0
	}
}

// TakeSelected pops the selected suggestion and resets the list, cancelling
// any in-flight fetch. Returns false when nothing is selected.
func (o *Orchestrator) TakeSelected() (domain.AICommandSuggestion, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selected < 0 || o.selected >= len(o.current) {
		return domain.AICommandSuggestion{}, false
	}
	chosen := o.current[o.selected]
	o.resetLocked()
	return chosen, true
}

// Clear drops the suggestion list and cancels any in-flight fetch.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resetLocked()
}

func (o *Orchestrator) resetLocked() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.current = nil
	o.selected = -1
	o.inputKey = ""
}

func (o *Orchestrator) apply(key string, suggestions []domain.AICommandSuggestion) {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.inputKey = key
	o.current = suggestions
	o.selected = -1
	o.mu.Unlock()
}

func normalizeInput(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
