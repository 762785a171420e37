package services

import (
	"context"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// Session ties the intelligence layer to one terminal: it feeds input edits
// to the orchestrator, submits commands to the tracker and writes accepted
// suggestions back into the terminal. Each session owns its service
// instances; nothing here is process-wide.
type Session struct {
	tracker      *Tracker
	orchestrator *Orchestrator
	translator   *TranslateService
	writer       ports.SessionWriter
	collector    ports.ContextCollector
	workingDir   string
}

// SessionConfig wires a Session.
type SessionConfig struct {
	Tracker      *Tracker
	Orchestrator *Orchestrator
	Translator   *TranslateService
	Writer       ports.SessionWriter
	Collector    ports.ContextCollector
	WorkingDir   string
}

// NewSession builds a session facade.
func NewSession(cfg SessionConfig) *Session {
	return &Session{
		tracker:      cfg.Tracker,
		orchestrator: cfg.Orchestrator,
		translator:   cfg.Translator,
		writer:       cfg.Writer,
		collector:    cfg.Collector,
		workingDir:   cfg.WorkingDir,
	}
}

// SetWorkingDir updates the directory used for path completion and branch
// lookups, typically after the shell reports a cd.
func (s *Session) SetWorkingDir(dir string) {
	s.workingDir = dir
}

// Context assembles the session snapshot injected into prompts and
// templates.
func (s *Session) Context(ctx context.Context) domain.SessionContext {
	recent := s.tracker.RecentCommands(domain.RecentCommandsInPrompt)
	if s.collector != nil {
		return s.collector.Collect(ctx, s.workingDir, recent)
	}
	return domain.SessionContext{WorkingDir: s.workingDir, RecentCommands: recent}
}

// OnInputChanged forwards an input edit to the orchestrator.
func (s *Session) OnInputChanged(ctx context.Context, text string) ([]domain.AICommandSuggestion, bool) {
	return s.orchestrator.UpdateInput(ctx, text, s.Context(ctx))
}

// OnCommandSubmitted records the submitted command and clears suggestions.
func (s *Session) OnCommandSubmitted(ctx context.Context, text string) domain.TrackedCommand {
	s.orchestrator.Clear()
	return s.tracker.Track(ctx, text, s.workingDir)
}

// OnOutput streams captured subprocess output into the tracked entry.
func (s *Session) OnOutput(id string, text string) {
	s.tracker.UpdateOutput(id, text)
}

// OnCommandFinished finalizes the tracked entry.
func (s *Session) OnCommandFinished(id string, exitCode int) {
	s.tracker.Complete(id, exitCode)
}

// AcceptSuggestion writes the selected suggestion into the terminal input,
// records it as an executed command and resets the suggestion list. Returns
// false when nothing is selected or the terminal write fails; nothing is
// tracked in that case.
func (s *Session) AcceptSuggestion(ctx context.Context) (domain.AICommandSuggestion, bool) {
	chosen, ok := s.orchestrator.TakeSelected()
	if !ok {
		return domain.AICommandSuggestion{}, false
	}
	if s.writer != nil {
		if err := s.writer.WriteInput(chosen.Command); err != nil {
			return domain.AICommandSuggestion{}, false
		}
	}
	s.tracker.Track(ctx, chosen.Command, s.workingDir)
	return chosen, true
}

// Translate resolves a natural-language request against the session context.
func (s *Session) Translate(ctx context.Context, input string) domain.NLCommandResponse {
	return s.translator.Translate(ctx, input, s.Context(ctx))
}

// Close cancels any in-flight suggestion fetch. Pending explanation tasks
// are left to finish; their writes are bounded by the tracker cap.
func (s *Session) Close() {
	s.orchestrator.Clear()
}
