package suggest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/termsense/internal/domain"
)

func TestStaticTableMatchesDocker(t *testing.T) {
	table := NewStaticTable()
	matches := table.Match("docker")
	if len(matches) == 0 {
		t.Fatal("expected matches for docker input")
	}
	found := false
	for _, m := range matches {
		if m.Command == "docker ps" {
			found = true
		}
		if m.FromInference {
			t.Errorf("static suggestion flagged as inference: %+v", m)
		}
	}
	if !found {
		t.Errorf("docker ps missing from matches: %+v", matches)
	}
}

func TestStaticTableDeduplicates(t *testing.T) {
	table := NewStaticTable()
	matches := table.Match("git push pull")
	seen := map[string]int{}
	for _, m := range matches {
		seen[m.Command]++
	}
	for command, count := range seen {
		if count > 1 {
			t.Errorf("command %q appears %d times", command, count)
		}
	}
}

func TestStaticTableEmptyInput(t *testing.T) {
	table := NewStaticTable()
	if matches := table.Match("   "); matches != nil {
		t.Errorf("expected no matches for blank input, got %+v", matches)
	}
}

func TestNLMatcherBranchFromContext(t *testing.T) {
	matcher := NewNLMatcher()
	sctx := domain.SessionContext{Branch: "feature/login"}

	resp, ok := matcher.Match("push my current branch", sctx)
	if !ok {
		t.Fatal("expected a rule match")
	}
	if resp.Command != "git push origin feature/login" {
		t.Errorf("command = %q", resp.Command)
	}
	if resp.HasUnresolvedPlaceholders() {
		t.Errorf("placeholder should be resolved from context: %q", resp.Command)
	}
}

func TestNLMatcherLeavesUnresolvedPlaceholder(t *testing.T) {
	matcher := NewNLMatcher()
	resp, ok := matcher.Match("create a branch", domain.SessionContext{})
	if !ok {
		t.Fatal("expected a rule match")
	}
	if resp.Command != "git checkout -b {{name}}" {
		t.Errorf("command = %q", resp.Command)
	}
	if !resp.HasUnresolvedPlaceholders() {
		t.Error("expected unresolved placeholder to stay literal")
	}
}

func TestNLMatcherCapturesName(t *testing.T) {
	matcher := NewNLMatcher()
	resp, ok := matcher.Match("create a branch called hotfix", domain.SessionContext{})
	if !ok {
		t.Fatal("expected a rule match")
	}
	if resp.Command != "git checkout -b hotfix" {
		t.Errorf("command = %q", resp.Command)
	}
}

func TestNLMatcherDestructiveWarning(t *testing.T) {
	matcher := NewNLMatcher()
	resp, ok := matcher.Match("discard all my changes", domain.SessionContext{})
	if !ok {
		t.Fatal("expected a rule match")
	}
	if len(resp.Warnings) == 0 {
		t.Error("destructive rule should carry a warning")
	}
}

func TestNLMatcherNoMatchIsNotError(t *testing.T) {
	matcher := NewNLMatcher()
	if _, ok := matcher.Match("transmogrify the flux capacitor", domain.SessionContext{}); ok {
		t.Error("expected no match")
	}
}

func TestPathCompleteDirectoryOnlyForCd(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "srv.log"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	completer := NewPathCompleter()
	suggestions := completer.Complete("cd sr", dir)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %+v", suggestions)
	}
	if suggestions[0].Command != "cd src" {
		t.Errorf("command = %q, want %q", suggestions[0].Command, "cd src")
	}

	suggestions = completer.Complete("cat sr", dir)
	if len(suggestions) != 2 {
		t.Fatalf("cat should offer both entries, got %+v", suggestions)
	}
	if suggestions[0].Command != "cat src" {
		t.Errorf("directories sort first, got %+v", suggestions)
	}
}

func TestPathCompleteHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{".env", ".gitignore"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	completer := NewPathCompleter()
	if got := completer.Complete("cat ", dir); len(got) != 1 {
		t.Errorf("hidden files should be excluded without dot prefix: %+v", got)
	}
	if got := completer.Complete("cat .e", dir); len(got) != 1 || got[0].Command != "cat .env" {
		t.Errorf("dot prefix should include hidden files: %+v", got)
	}
}

func TestPathCompleteCap(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		if err := os.WriteFile(filepath.Join(dir, "file"+strings.Repeat("a", i+1)), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	completer := NewPathCompleter()
	if got := completer.Complete("ls fi", dir); len(got) != domain.MaxPathSuggestions {
		t.Errorf("expected cap of %d, got %d", domain.MaxPathSuggestions, len(got))
	}
}

func TestPathCompleteNonPathCommand(t *testing.T) {
	completer := NewPathCompleter()
	if got := completer.Complete("git status", "/tmp"); got != nil {
		t.Errorf("non-path command should not complete: %+v", got)
	}
}

func TestPathCompleteSubdirectoryPartial(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src", "internal"), 0o755); err != nil {
		t.Fatal(err)
	}
	completer := NewPathCompleter()
	got := completer.Complete("ls src/in", dir)
	if len(got) != 1 || got[0].Command != "ls src/internal" {
		t.Errorf("subdirectory completion failed: %+v", got)
	}
}
