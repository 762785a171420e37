package workflow

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// Store combines the read-only seed catalogue with user-authored workflows
// persisted through the state store. The backing file can be watched so
// edits made outside the process appear without a restart.
type Store struct {
	seeds  []domain.TerminalWorkflow
	state  ports.StateStore
	logger ports.Logger

	mu      sync.Mutex
	user    []domain.TerminalWorkflow
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStore loads the user workflow list from the state store. A missing key
// is a fresh install, not an error.
func NewStore(seeds []domain.TerminalWorkflow, state ports.StateStore, logger ports.Logger) *Store {
	s := &Store{seeds: seeds, state: state, logger: logger}
	s.reload()
	return s
}

func (s *Store) reload() {
	if s.state == nil {
		return
	}
	var user []domain.TerminalWorkflow
	if err := s.state.Load(domain.WorkflowsKey, &user); err != nil {
		return
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// All returns every workflow, seeds first, user entries after.
func (s *Store) All() []domain.TerminalWorkflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TerminalWorkflow, 0, len(s.seeds)+len(s.user))
	out = append(out, s.seeds...)
	out = append(out, s.user...)
	return out
}

// Search filters the combined list.
func (s *Store) Search(query string) []domain.TerminalWorkflow {
	return Search(s.All(), query)
}

// Find returns the workflow with the given name, case-insensitive.
func (s *Store) Find(name string) (domain.TerminalWorkflow, bool) {
	for _, w := range s.All() {
		if strings.EqualFold(w.Name, name) {
			return w, true
		}
	}
	return domain.TerminalWorkflow{}, false
}

// Add appends a user workflow and persists the list. Names must be unique
// across seeds and user entries.
func (s *Store) Add(w domain.TerminalWorkflow) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("workflow: name is required")
	}
	if strings.TrimSpace(w.Command) == "" {
		return fmt.Errorf("workflow: command is required")
	}
	if _, exists := s.Find(w.Name); exists {
		return fmt.Errorf("workflow: %q already exists", w.Name)
	}

	s.mu.Lock()
	s.user = append(s.user, w)
	snapshot := append([]domain.TerminalWorkflow(nil), s.user...)
	s.mu.Unlock()

	return s.persist(snapshot)
}

// Remove deletes a user workflow by name. Seed workflows cannot be removed.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	kept := s.user[:0]
	removed := false
	for _, w := range s.user {
		if strings.EqualFold(w.Name, name) {
			removed = true
			continue
		}
		kept = append(kept, w)
	}
	s.user = kept
	snapshot := append([]domain.TerminalWorkflow(nil), s.user...)
	s.mu.Unlock()

	if !removed {
		return fmt.Errorf("workflow: %q not found among user workflows", name)
	}
	return s.persist(snapshot)
}

func (s *Store) persist(snapshot []domain.TerminalWorkflow) error {
	if s.state == nil {
		return nil
	}
	if err := s.state.Save(domain.WorkflowsKey, snapshot); err != nil {
		return fmt.Errorf("workflow: persist: %w", err)
	}
	return nil
}

// Watch reloads the user list whenever the backing file changes on disk.
// Call Close to stop watching.
func (s *Store) Watch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("workflow: watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("workflow: watch %s: %w", path, err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					s.reload()
					if s.logger != nil {
						s.logger.Debug("workflow list reloaded", map[string]interface{}{"path": event.Name})
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if s.logger != nil {
					s.logger.Warn("workflow watcher error", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()
	return nil
}

// Close stops the file watcher if one is running.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	if s.watcher != nil {
		err := s.watcher.Close()
		s.watcher = nil
		return err
	}
	return nil
}
