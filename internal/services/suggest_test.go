package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/infrastructure/suggest"
	"github.com/doeshing/termsense/internal/ports"
)

// stubSource is a scripted suggestion source for chain tests.
type stubSource struct {
	name    string
	outcome ports.SuggestionOutcome
	result  []domain.AICommandSuggestion

	mu    sync.Mutex
	calls []string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Suggestions(_ context.Context, input string, _ domain.SessionContext) ([]domain.AICommandSuggestion, ports.SuggestionOutcome) {
	s.mu.Lock()
	s.calls = append(s.calls, input)
	s.mu.Unlock()
	return s.result, s.outcome
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestOrchestrator(sources ...ports.SuggestionSource) *Orchestrator {
	o := NewOrchestrator(OrchestratorConfig{
		Sources:  sources,
		Debounce: time.Millisecond,
	})
	return o
}

func TestSuggestFallsBackToStaticTable(t *testing.T) {
	local := &stubSource{name: "local", outcome: ports.SuggestionUnavailable}
	cloud := &stubSource{name: "cloud", outcome: ports.SuggestionParseError}
	o := newTestOrchestrator(local, cloud, suggest.NewStaticTable())

	got := o.Suggest(context.Background(), "docker", domain.SessionContext{})
	if len(got) == 0 {
		t.Fatal("expected static fallback suggestions")
	}
	if got[0].Command != "docker ps" {
		t.Errorf("first suggestion = %q, want docker ps", got[0].Command)
	}
	if local.callCount() != 1 || cloud.callCount() != 1 {
		t.Errorf("expected both failing sources consulted, got %d/%d", local.callCount(), cloud.callCount())
	}
}

func TestSuggestStopsAtFirstSuccess(t *testing.T) {
	local := &stubSource{
		name:    "local",
		outcome: ports.SuggestionOK,
		result:  []domain.AICommandSuggestion{{Command: "git rebase -i HEAD~3", Confidence: 0.9}},
	}
	cloud := &stubSource{name: "cloud", outcome: ports.SuggestionOK}
	o := newTestOrchestrator(local, cloud, suggest.NewStaticTable())

	got := o.Suggest(context.Background(), "rebase last three", domain.SessionContext{})
	if len(got) != 1 || got[0].Command != "git rebase -i HEAD~3" {
		t.Fatalf("unexpected suggestions: %+v", got)
	}
	if cloud.callCount() != 0 {
		t.Error("cloud source should not be consulted after local success")
	}
}

func TestSuggestShortInputReturnsNothing(t *testing.T) {
	local := &stubSource{name: "local", outcome: ports.SuggestionOK}
	o := newTestOrchestrator(local)

	if got := o.Suggest(context.Background(), "g", domain.SessionContext{}); got != nil {
		t.Errorf("expected nil for single-character input, got %+v", got)
	}
	if local.callCount() != 0 {
		t.Error("sources must not be consulted below the minimum input length")
	}
}

func TestSuggestPathCompletionShortCircuits(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	local := &stubSource{name: "local", outcome: ports.SuggestionOK}
	o := newTestOrchestrator(local)

	got := o.Suggest(context.Background(), "cd sr", domain.SessionContext{WorkingDir: dir})
	if len(got) != 1 || got[0].Command != "cd src" {
		t.Fatalf("unexpected path suggestions: %+v", got)
	}
	if local.callCount() != 0 {
		t.Error("path completion must bypass the source chain")
	}
}

func TestSuggestCachesPerInput(t *testing.T) {
	local := &stubSource{
		name:    "local",
		outcome: ports.SuggestionOK,
		result:  []domain.AICommandSuggestion{{Command: "git fetch --prune"}},
	}
	o := newTestOrchestrator(local)

	ctx := context.Background()
	sctx := domain.SessionContext{}
	o.Suggest(ctx, "prune remotes", sctx)
	o.Suggest(ctx, "  Prune Remotes ", sctx)
	if local.callCount() != 1 {
		t.Errorf("expected one source call for equivalent inputs, got %d", local.callCount())
	}
}

func TestUpdateInputDebounceCoalesces(t *testing.T) {
	local := &stubSource{
		name:    "local",
		outcome: ports.SuggestionOK,
		result:  []domain.AICommandSuggestion{{Command: "git status"}},
	}
	o := newTestOrchestrator(local)

	release := make(chan struct{})
	o.sleep = func(ctx context.Context, _ time.Duration) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-release:
			return nil
		}
	}

	done := make(chan []domain.AICommandSuggestion, 3)
	o.SetOnUpdate(func(s []domain.AICommandSuggestion) { done <- s })

	ctx := context.Background()
	sctx := domain.SessionContext{}
	o.UpdateInput(ctx, "gi", sctx)
	o.UpdateInput(ctx, "git", sctx)
	o.UpdateInput(ctx, "git s", sctx)
	close(release)

	select {
	case got := <-done:
		if len(got) != 1 || got[0].Command != "git status" {
			t.Errorf("unexpected update: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for suggestion update")
	}

	// Only the surviving keystroke reaches the chain.
	time.Sleep(20 * time.Millisecond)
	if n := local.callCount(); n != 1 {
		t.Errorf("expected exactly one fetch after coalescing, got %d", n)
	}
	select {
	case <-done:
		t.Error("cancelled fetches must not deliver updates")
	default:
	}
}

func TestUpdateInputStaleResultDiscarded(t *testing.T) {
	slow := &stubSource{
		name:    "slow",
		outcome: ports.SuggestionOK,
		result:  []domain.AICommandSuggestion{{Command: "stale"}},
	}
	o := newTestOrchestrator(slow)
	o.sleep = func(ctx context.Context, _ time.Duration) error { return nil }

	updates := make(chan []domain.AICommandSuggestion, 2)
	o.SetOnUpdate(func(s []domain.AICommandSuggestion) { updates <- s })

	ctx := context.Background()
	o.UpdateInput(ctx, "first input", domain.SessionContext{})

	// Wait for the first fetch to land, then clear. A late replay of the
	// old key must not resurrect the cleared state.
	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("first fetch never landed")
	}
	o.Clear()
	o.fetch(context.Background(), "first input", "first input", domain.SessionContext{})
	if got := o.Current(); got != nil {
		t.Errorf("stale fetch mutated state: %+v", got)
	}
}

func TestSelectionCursorClamped(t *testing.T) {
	o := newTestOrchestrator()
	o.apply("git", []domain.AICommandSuggestion{
		{Command: "git status"},
		{Command: "git add ."},
	})

	if o.Selected() != -1 {
		t.Fatalf("fresh list should have no selection, got %d", o.Selected())
	}
	o.SelectNext()
	o.SelectNext()
	o.SelectNext()
	if o.Selected() != 1 {
		t.Errorf("cursor must clamp at last index, got %d", o.Selected())
	}
	o.SelectPrev()
	o.SelectPrev()
	o.SelectPrev()
	if o.Selected() != 0 {
		t.Errorf("cursor must clamp at first index, got %d", o.Selected())
	}
}

func TestTakeSelectedResetsList(t *testing.T) {
	o := newTestOrchestrator()
	o.apply("git", []domain.AICommandSuggestion{{Command: "git status"}})
	o.SelectNext()

	chosen, ok := o.TakeSelected()
	if !ok || chosen.Command != "git status" {
		t.Fatalf("TakeSelected = (%+v, %v)", chosen, ok)
	}
	if len(o.Current()) != 0 || o.Selected() != -1 {
		t.Error("accepting a suggestion must clear the list")
	}
	if _, ok := o.TakeSelected(); ok {
		t.Error("TakeSelected on empty list must report false")
	}
}

func TestTakeSelectedWithoutSelection(t *testing.T) {
	o := newTestOrchestrator()
	o.apply("git", []domain.AICommandSuggestion{{Command: "git status"}})
	if _, ok := o.TakeSelected(); ok {
		t.Error("no cursor movement means nothing is selected")
	}
	if len(o.Current()) != 1 {
		t.Error("failed take must leave the list intact")
	}
}

func TestNormalizeInput(t *testing.T) {
	if got := normalizeInput("  Git Status "); got != "git status" {
		t.Errorf("normalizeInput = %q", got)
	}
	if !strings.EqualFold(normalizeInput("ABC"), "abc") {
		t.Error("normalizeInput must lowercase")
	}
}
