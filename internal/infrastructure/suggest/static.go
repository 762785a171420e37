// Package suggest contains the deterministic, input-only suggestion sources:
// the static keyword table, the natural-language pattern matcher and
// filesystem path completion. None of them touch the network or suspend.
package suggest

import (
	"context"
	"strings"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// StaticTable maps keywords to a fixed list of common git/docker/npm
// commands. It is the terminal fallback of the provider chain and never
// fails.
type StaticTable struct {
	entries []staticEntry
}

type staticEntry struct {
	keywords   []string
	suggestion domain.AICommandSuggestion
}

// NewStaticTable builds the built-in shortcut table.
func NewStaticTable() *StaticTable {
	return &StaticTable{entries: []staticEntry{
		entry([]string{"git s", "status"}, "git status", "Show the working tree status", 0.9, "git"),
		entry([]string{"git a", "stage", "add"}, "git add .", "Stage all changes", 0.8, "git"),
		entry([]string{"git c", "commit"}, "git commit -m \"\"", "Commit staged changes", 0.8, "git"),
		entry([]string{"git p", "push"}, "git push", "Push commits to the remote", 0.8, "git"),
		entry([]string{"git p", "pull"}, "git pull", "Fetch and merge remote changes", 0.75, "git"),
		entry([]string{"git l", "log"}, "git log --oneline -10", "Show recent commits", 0.7, "git"),
		entry([]string{"git b", "branch"}, "git branch -a", "List all branches", 0.7, "git"),
		entry([]string{"git st", "stash"}, "git stash", "Stash working tree changes", 0.7, "git"),
		entry([]string{"git d", "diff"}, "git diff", "Show unstaged changes", 0.7, "git"),
		entry([]string{"checkout", "switch"}, "git checkout ", "Switch branches", 0.65, "git"),
		entry([]string{"docker"}, "docker ps", "List running containers", 0.8, "docker"),
		entry([]string{"docker i", "image"}, "docker images", "List local images", 0.7, "docker"),
		entry([]string{"docker c", "compose"}, "docker compose up -d", "Start compose services", 0.7, "docker"),
		entry([]string{"docker l", "logs"}, "docker logs -f ", "Follow container logs", 0.65, "docker"),
		entry([]string{"npm"}, "npm install", "Install dependencies", 0.8, "npm"),
		entry([]string{"npm r", "run"}, "npm run dev", "Run the dev script", 0.7, "npm"),
		entry([]string{"npm t", "test"}, "npm test", "Run the test suite", 0.7, "npm"),
		entry([]string{"npm b", "build"}, "npm run build", "Build the project", 0.65, "npm"),
	}}
}

func entry(keywords []string, command, description string, confidence float64, category string) staticEntry {
	return staticEntry{
		keywords: keywords,
		suggestion: domain.AICommandSuggestion{
			Command:     command,
			Description: description,
			Confidence:  confidence,
			Category:    category,
		},
	}
}

// Name implements ports.SuggestionSource.
func (t *StaticTable) Name() string {
	return "static"
}

// Suggestions implements ports.SuggestionSource. The static table is the
// terminal element of the provider chain: it always reports OK, which makes
// the whole pipeline total.
func (t *StaticTable) Suggestions(_ context.Context, input string, _ domain.SessionContext) ([]domain.AICommandSuggestion, ports.SuggestionOutcome) {
	return t.Match(input), ports.SuggestionOK
}

// Match returns every entry whose keyword occurs in the input, deduplicated
// by command string. An empty result is valid, never an error.
func (t *StaticTable) Match(input string) []domain.AICommandSuggestion {
	lowered := strings.ToLower(strings.TrimSpace(input))
	if lowered == "" {
		return nil
	}
	seen := map[string]bool{}
	var matches []domain.AICommandSuggestion
	for _, e := range t.entries {
		for _, keyword := range e.keywords {
			if !strings.Contains(lowered, keyword) {
				continue
			}
			if seen[e.suggestion.Command] {
				break
			}
			seen[e.suggestion.Command] = true
			matches = append(matches, e.suggestion)
			break
		}
	}
	return matches
}

var _ ports.SuggestionSource = (*StaticTable)(nil)
