// Package workflow implements parameterized command templates: substitution,
// search and the persistent store combining the seed catalogue with
// user-authored entries.
package workflow

import (
	"strings"

	"github.com/doeshing/termsense/internal/domain"
)

// Resolve substitutes {{name}}-style placeholders in the workflow command
// from values, falling back to declared parameter defaults. Placeholders
// without a value or default stay literal so the caller can prompt for them.
func Resolve(w domain.TerminalWorkflow, values map[string]string) string {
	command := w.Command
	for _, param := range w.Parameters {
		value, ok := values[param.Name]
		if !ok || value == "" {
			value = param.Default
		}
		if value == "" {
			continue
		}
		command = strings.ReplaceAll(command, "{{"+param.Name+"}}", value)
	}
	// Values for placeholders the workflow never declared still apply.
	for name, value := range values {
		if value == "" {
			continue
		}
		command = strings.ReplaceAll(command, "{{"+name+"}}", value)
	}
	return command
}

// MissingParameters lists required parameters absent from values and
// without a default.
func MissingParameters(w domain.TerminalWorkflow, values map[string]string) []string {
	var missing []string
	for _, param := range w.Parameters {
		if !param.Required || param.Default != "" {
			continue
		}
		if values[param.Name] == "" {
			missing = append(missing, param.Name)
		}
	}
	return missing
}

// Search filters workflows by a case-insensitive substring over name,
// description, command and tags. An empty query returns everything.
func Search(workflows []domain.TerminalWorkflow, query string) []domain.TerminalWorkflow {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]domain.TerminalWorkflow(nil), workflows...)
	}
	var matches []domain.TerminalWorkflow
	for _, w := range workflows {
		if workflowMatches(w, query) {
			matches = append(matches, w)
		}
	}
	return matches
}

func workflowMatches(w domain.TerminalWorkflow, query string) bool {
	if strings.Contains(strings.ToLower(w.Name), query) ||
		strings.Contains(strings.ToLower(w.Description), query) ||
		strings.Contains(strings.ToLower(w.Command), query) {
		return true
	}
	for _, tag := range w.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
