package suggest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/doeshing/termsense/internal/domain"
)

// Commands whose arguments are filesystem paths. Input starting with one of
// these gets synchronous local completion, bypassing debounce and inference.
var pathCommands = map[string]bool{
	"cd": true, "ls": true, "cat": true, "rm": true, "mv": true, "cp": true,
	"mkdir": true, "touch": true, "grep": true, "find": true,
	"vim": true, "nvim": true, "nano": true, "code": true, "open": true,
}

// PathCompleter resolves partial path arguments against the filesystem.
type PathCompleter struct{}

// NewPathCompleter builds a completer.
func NewPathCompleter() *PathCompleter {
	return &PathCompleter{}
}

// Complete returns completions for the trailing path argument of input, or
// nil when the input is not a path-accepting command. Directories sort
// before files; hidden entries are excluded unless the typed prefix itself
// starts with a dot; results are capped at MaxPathSuggestions. For cd only
// directories are offered. Listing failures degrade to nil, never an error.
func (p *PathCompleter) Complete(input string, workingDir string) []domain.AICommandSuggestion {
	fields := strings.Fields(input)
	if len(fields) == 0 || !pathCommands[fields[0]] {
		return nil
	}
	command := fields[0]
	partial := ""
	if len(fields) > 1 && !strings.HasSuffix(input, " ") {
		partial = fields[len(fields)-1]
	}

	dir, prefix := splitPartial(partial, workingDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type candidate struct {
		name  string
		isDir bool
	}
	var candidates []candidate
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if command == "cd" && !e.IsDir() {
			continue
		}
		candidates = append(candidates, candidate{name: name, isDir: e.IsDir()})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].isDir != candidates[j].isDir {
			return candidates[i].isDir
		}
		return candidates[i].name < candidates[j].name
	})
	if len(candidates) > domain.MaxPathSuggestions {
		candidates = candidates[:domain.MaxPathSuggestions]
	}

	head := strings.TrimSuffix(input, partial)
	var suggestions []domain.AICommandSuggestion
	for _, c := range candidates {
		completed := joinPartial(partial, c.name)
		description := "File"
		if c.isDir {
			description = "Directory"
		}
		suggestions = append(suggestions, domain.AICommandSuggestion{
			Command:     head + completed,
			Description: description,
			Confidence:  1.0,
			Category:    "path",
		})
	}
	return suggestions
}

// splitPartial resolves the directory to list and the name prefix to match.
// Supports absolute, home-relative (~/) and working-dir-relative partials.
func splitPartial(partial string, workingDir string) (dir string, prefix string) {
	if partial == "" {
		return workingDir, ""
	}
	expanded := partial
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
			if strings.HasSuffix(partial, "/") {
				expanded += "/"
			}
		}
	}
	if strings.HasSuffix(expanded, "/") {
		return resolveDir(expanded, workingDir), ""
	}
	return resolveDir(filepath.Dir(expanded), workingDir), filepath.Base(expanded)
}

func resolveDir(dir string, workingDir string) string {
	if dir == "" || dir == "." {
		return workingDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(workingDir, dir)
}

// joinPartial replaces the final path element of the typed partial with the
// completed entry name.
func joinPartial(partial string, name string) string {
	if partial == "" {
		return name
	}
	if strings.HasSuffix(partial, "/") {
		return partial + name
	}
	idx := strings.LastIndex(partial, "/")
	if idx < 0 {
		return name
	}
	return partial[:idx+1] + name
}
