package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// Tracker records every executed command as a rich entry: timing, output,
// exit status, git branch and working directory. The in-memory list is
// bounded FIFO; every mutation snapshots the whole collection to the state
// store, and completed commands are additionally appended to the durable
// archive.
type Tracker struct {
	store    ports.StateStore
	archive  ports.CommandArchive
	runner   ports.ProcessRunner
	explain  ports.FailureExplainer
	redactor OutputRedactor
	logger   ports.Logger
	cap      int

	mu      sync.Mutex
	entries []*domain.TrackedCommand
	// explaining maps entry id to the cancel func of its in-flight
	// explanation task. Evicting an entry cancels its task so the result
	// never lands in dropped state.
	explaining map[string]context.CancelFunc
}

// OutputRedactor masks secrets before they are stored: full scans for
// captured output, prefix-gated scans for command lines.
type OutputRedactor interface {
	Redact(text string) (string, []domain.RedactedSecret)
	RedactCommand(text string) string
}

// TrackerConfig wires a Tracker. Store is required; everything else is
// optional and degrades to a no-op.
type TrackerConfig struct {
	Store    ports.StateStore
	Archive  ports.CommandArchive
	Runner   ports.ProcessRunner
	Explain  ports.FailureExplainer
	Redactor OutputRedactor
	Logger   ports.Logger
	Cap      int
}

// NewTracker builds a tracker and restores the previous session's snapshot
// when one exists.
func NewTracker(cfg TrackerConfig) *Tracker {
	capacity := cfg.Cap
	if capacity <= 0 {
		capacity = domain.DefaultHistoryCap
	}
	t := &Tracker{
		store:      cfg.Store,
		archive:    cfg.Archive,
		runner:     cfg.Runner,
		explain:    cfg.Explain,
		redactor:   cfg.Redactor,
		logger:     cfg.Logger,
		cap:        capacity,
		explaining: map[string]context.CancelFunc{},
	}
	t.restore()
	return t
}

func (t *Tracker) restore() {
	if t.store == nil {
		return
	}
	var saved []*domain.TrackedCommand
	if err := t.store.Load(domain.HistorySnapshotKey, &saved); err != nil {
		return
	}
	if len(saved) > t.cap {
		saved = saved[len(saved)-t.cap:]
	}
	t.entries = saved
}

// Track creates a new entry for a submitted command and appends it, evicting
// the oldest entry past the cap. The git branch lookup is best effort: a
// short subprocess call whose failure leaves the field empty.
func (t *Tracker) Track(ctx context.Context, commandText string, workingDir string) domain.TrackedCommand {
	if t.redactor != nil {
		commandText = t.redactor.RedactCommand(commandText)
	}
	now := time.Now()
	entry := &domain.TrackedCommand{
		ID:          uuid.NewString(),
		Command:     commandText,
		SubmittedAt: now,
		StartedAt:   now,
		WorkingDir:  workingDir,
		Branch:      t.lookupBranch(ctx, workingDir),
	}

	t.mu.Lock()
	t.entries = append(t.entries, entry)
	for len(t.entries) > t.cap {
		evicted := t.entries[0]
		t.entries = t.entries[1:]
		if cancel, ok := t.explaining[evicted.ID]; ok {
			cancel()
			delete(t.explaining, evicted.ID)
		}
	}
	snapshot := t.copyLocked()
	t.mu.Unlock()

	t.persist(snapshot)
	return *entry
}

// UpdateOutput appends output text to the entry, redacting secrets before
// storage. Unknown ids are ignored; the entry may have been evicted.
func (t *Tracker) UpdateOutput(id string, text string) {
	if t.redactor != nil {
		text, _ = t.redactor.Redact(text)
	}

	t.mu.Lock()
	entry := t.findLocked(id)
	if entry == nil {
		t.mu.Unlock()
		return
	}
	entry.Output += text
	snapshot := t.copyLocked()
	t.mu.Unlock()

	t.persist(snapshot)
}

// Complete finalizes the entry with its exit status. On non-zero exit an
// asynchronous explanation request is scheduled against the AI layer; the
// result attaches to the entry when it returns, fire-and-forget relative to
// the caller.
func (t *Tracker) Complete(id string, exitCode int) {
	now := time.Now()

	t.mu.Lock()
	entry := t.findLocked(id)
	if entry == nil {
		t.mu.Unlock()
		return
	}
	entry.CompletedAt = &now
	code := exitCode
	entry.ExitCode = &code
	entry.Completed = true
	record := *entry
	snapshot := t.copyLocked()

	var explainCtx context.Context
	if exitCode != 0 && t.explain != nil {
		var cancel context.CancelFunc
		explainCtx, cancel = context.WithCancel(context.Background())
		t.explaining[id] = cancel
	}
	t.mu.Unlock()

	t.persist(snapshot)
	if t.archive != nil {
		if err := t.archive.Append(record); err != nil && t.logger != nil {
			t.logger.Warn("history archive append failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if explainCtx != nil {
		go t.explainFailure(explainCtx, id, record)
	}
}

// explainFailure runs the detached explanation task. The entry may be
// evicted while the model thinks; the cancelled context and the re-lookup
// guard both make the write a no-op in that case.
func (t *Tracker) explainFailure(ctx context.Context, id string, record domain.TrackedCommand) {
	defer func() {
		t.mu.Lock()
		delete(t.explaining, id)
		t.mu.Unlock()
	}()

	exitCode := 0
	if record.ExitCode != nil {
		exitCode = *record.ExitCode
	}
	explanation, err := t.explain.Explain(ctx, record.Command, record.Output, exitCode)
	if err != nil || ctx.Err() != nil {
		return
	}

	t.mu.Lock()
	entry := t.findLocked(id)
	if entry == nil {
		t.mu.Unlock()
		return
	}
	entry.Explanation = explanation
	snapshot := t.copyLocked()
	t.mu.Unlock()

	t.persist(snapshot)
}

// Recent returns copies of the newest n entries, oldest first.
func (t *Tracker) Recent(n int) []domain.TrackedCommand {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= 0 || n > len(t.entries) {
		n = len(t.entries)
	}
	out := make([]domain.TrackedCommand, 0, n)
	for _, entry := range t.entries[len(t.entries)-n:] {
		out = append(out, *entry)
	}
	return out
}

// RecentCommands returns the newest n command strings for prompt context.
func (t *Tracker) RecentCommands(n int) []string {
	recent := t.Recent(n)
	commands := make([]string, 0, len(recent))
	for _, entry := range recent {
		commands = append(commands, entry.Command)
	}
	return commands
}

// Len reports the number of tracked entries.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Get returns a copy of the entry with the given id.
func (t *Tracker) Get(id string) (domain.TrackedCommand, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if entry := t.findLocked(id); entry != nil {
		return *entry, true
	}
	return domain.TrackedCommand{}, false
}

// Clear drops the in-memory history, cancels pending explanation tasks and
// persists the empty snapshot. The durable archive is untouched.
func (t *Tracker) Clear() {
	t.mu.Lock()
	for id, cancel := range t.explaining {
		cancel()
		delete(t.explaining, id)
	}
	t.entries = nil
	t.mu.Unlock()

	t.persist([]domain.TrackedCommand{})
}

func (t *Tracker) lookupBranch(ctx context.Context, workingDir string) string {
	if t.runner == nil || workingDir == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, domain.DefaultBranchLookupTimeout)
	defer cancel()
	out, err := t.runner.Run(ctx, workingDir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func (t *Tracker) findLocked(id string) *domain.TrackedCommand {
	for _, entry := range t.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

func (t *Tracker) copyLocked() []domain.TrackedCommand {
	out := make([]domain.TrackedCommand, 0, len(t.entries))
	for _, entry := range t.entries {
		out = append(out, *entry)
	}
	return out
}

// persist serializes the whole collection on every mutation. The cap keeps
// the snapshot small; failures are logged and otherwise swallowed.
func (t *Tracker) persist(snapshot []domain.TrackedCommand) {
	if t.store == nil {
		return
	}
	if err := t.store.Save(domain.HistorySnapshotKey, snapshot); err != nil && t.logger != nil {
		t.logger.Warn("history snapshot write failed", map[string]interface{}{"error": err.Error()})
	}
}
