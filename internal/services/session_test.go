package services

import (
	"context"
	"sync"
	"testing"

	"github.com/doeshing/termsense/internal/domain"
)

type recordingWriter struct {
	mu      sync.Mutex
	written []string
}

func (w *recordingWriter) WriteInput(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written = append(w.written, text)
	return nil
}

func newTestSession(writer *recordingWriter) *Session {
	return NewSession(SessionConfig{
		Tracker:      NewTracker(TrackerConfig{Store: newMemoryStore()}),
		Orchestrator: newTestOrchestrator(),
		Translator:   NewTranslateService(TranslateConfig{}),
		Writer:       writer,
		WorkingDir:   "/repo",
	})
}

func TestSessionSubmitClearsSuggestions(t *testing.T) {
	s := newTestSession(&recordingWriter{})
	s.orchestrator.apply("git", []domain.AICommandSuggestion{{Command: "git status"}})

	entry := s.OnCommandSubmitted(context.Background(), "git status")
	if entry.Command != "git status" || entry.WorkingDir != "/repo" {
		t.Errorf("tracked entry = %+v", entry)
	}
	if len(s.orchestrator.Current()) != 0 {
		t.Error("submitting a command must clear the suggestion list")
	}
}

func TestSessionAcceptSuggestionWritesToTerminal(t *testing.T) {
	writer := &recordingWriter{}
	s := newTestSession(writer)
	s.orchestrator.apply("git", []domain.AICommandSuggestion{{Command: "git status"}})
	s.orchestrator.SelectNext()

	chosen, ok := s.AcceptSuggestion(context.Background())
	if !ok || chosen.Command != "git status" {
		t.Fatalf("AcceptSuggestion = (%+v, %v)", chosen, ok)
	}
	if len(writer.written) != 1 || writer.written[0] != "git status" {
		t.Errorf("terminal writes = %v", writer.written)
	}
}

func TestSessionAcceptSuggestionTracksCommand(t *testing.T) {
	s := newTestSession(&recordingWriter{})
	s.orchestrator.apply("git", []domain.AICommandSuggestion{{Command: "git status"}})
	s.orchestrator.SelectNext()

	if _, ok := s.AcceptSuggestion(context.Background()); !ok {
		t.Fatal("accept failed")
	}
	if s.tracker.Len() != 1 {
		t.Fatalf("accepted suggestion must enter history, got %d entries", s.tracker.Len())
	}
	entry := s.tracker.Recent(1)[0]
	if entry.Command != "git status" || entry.WorkingDir != "/repo" {
		t.Errorf("tracked entry = %+v", entry)
	}
}

func TestSessionAcceptWithoutSelection(t *testing.T) {
	writer := &recordingWriter{}
	s := newTestSession(writer)
	if _, ok := s.AcceptSuggestion(context.Background()); ok {
		t.Error("accept with no selection must report false")
	}
	if len(writer.written) != 0 {
		t.Error("nothing should reach the terminal")
	}
	if s.tracker.Len() != 0 {
		t.Error("nothing should enter history")
	}
}

func TestSessionContextCarriesRecentCommands(t *testing.T) {
	s := newTestSession(&recordingWriter{})
	ctx := context.Background()
	s.OnCommandSubmitted(ctx, "git add .")
	s.OnCommandSubmitted(ctx, "git commit -m \"wip\"")

	sctx := s.Context(ctx)
	if sctx.WorkingDir != "/repo" {
		t.Errorf("working dir = %q", sctx.WorkingDir)
	}
	if len(sctx.RecentCommands) != 2 || sctx.RecentCommands[1] != "git commit -m \"wip\"" {
		t.Errorf("recent commands = %v", sctx.RecentCommands)
	}
}

func TestSessionCommandLifecycle(t *testing.T) {
	s := newTestSession(&recordingWriter{})
	ctx := context.Background()

	entry := s.OnCommandSubmitted(ctx, "make test")
	s.OnOutput(entry.ID, "ok\n")
	s.OnCommandFinished(entry.ID, 0)

	got, ok := s.tracker.Get(entry.ID)
	if !ok || !got.Completed || got.Output != "ok\n" {
		t.Errorf("lifecycle entry = %+v", got)
	}
}
