// Package ports defines the interfaces between the application core and
// external adapters.
//
// Following the Ports and Adapters (Hexagonal) pattern, these interfaces
// keep the suggestion pipeline, tracker and redaction engine independent of
// concrete collaborators: the terminal session, subprocess spawning, the
// inference HTTP endpoints and persistent storage all sit behind ports.
package ports

import (
	"context"
	"errors"

	"github.com/doeshing/termsense/internal/domain"
)

// ErrNotFound is returned by StateStore.Load when the key has no snapshot.
var ErrNotFound = errors.New("state: key not found")

// SessionWriter sends literal text into the active terminal session. The
// intelligence layer never parses escape sequences itself.
type SessionWriter interface {
	WriteInput(text string) error
}

// ProcessRunner spawns a short-lived subprocess and returns its combined
// output. Used only for the git branch lookup; callers bound it with a
// context timeout and ignore failures.
type ProcessRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// Provider is one inference backend (local engine or cloud fallback). The
// request/response contract is deliberately thin: prompt text in, generated
// text out. Structured payloads are extracted from Text by the caller.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest carries the prompt and the session snapshot it embeds.
type ProviderRequest struct {
	Prompt  string
	Context domain.SessionContext
}

// ProviderResponse carries the raw generated text plus a completion flag.
type ProviderResponse struct {
	Text string
	Done bool
}

// SuggestionOutcome is the tagged result of one provider attempt. The
// orchestrator iterates its ordered source list and stops at the first OK;
// anything else falls through to the next source.
type SuggestionOutcome int

const (
	SuggestionOK SuggestionOutcome = iota
	SuggestionUnavailable
	SuggestionParseError
)

// SuggestionSource produces ranked suggestions for a partial input. Sources
// never return errors; failure modes are encoded in the outcome tag.
type SuggestionSource interface {
	Name() string
	Suggestions(ctx context.Context, input string, sctx domain.SessionContext) ([]domain.AICommandSuggestion, SuggestionOutcome)
}

// Translator turns free-form natural language into a command response.
type Translator interface {
	Name() string
	Translate(ctx context.Context, input string, sctx domain.SessionContext) (domain.NLCommandResponse, SuggestionOutcome)
}

// FailureExplainer produces a short human explanation for a failed command.
type FailureExplainer interface {
	Explain(ctx context.Context, command string, output string, exitCode int) (string, error)
}

// AvailabilityChecker answers whether the local inference engine is worth
// calling right now. Implementations cache probe results with a TTL.
type AvailabilityChecker interface {
	Available(ctx context.Context) bool
}

// StateStore persists whole collections as structured snapshots under fixed
// string keys. Load decodes into value and returns ErrNotFound when the key
// has never been written.
type StateStore interface {
	Load(key string, value any) error
	Save(key string, value any) error
}

// CommandArchive keeps a durable, searchable record of completed commands,
// independent of the bounded in-memory history.
type CommandArchive interface {
	Append(record domain.TrackedCommand) error
	Records(limit int, search string) ([]domain.TrackedCommand, error)
	Clear() error
	ExportJSON(dest string) error
}

// ConfigProvider loads the latest configuration from persistent storage.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ContextCollector gathers the session snapshot (working dir, git branch,
// recent commands) injected into prompts and pattern templates.
type ContextCollector interface {
	Collect(ctx context.Context, workingDir string, recent []string) domain.SessionContext
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
