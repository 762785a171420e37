package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	saved := []domain.TrackedCommand{
		{ID: "a", Command: "git status", SubmittedAt: time.Now().UTC()},
		{ID: "b", Command: "git diff", SubmittedAt: time.Now().UTC()},
	}
	if err := store.Save(domain.HistorySnapshotKey, saved); err != nil {
		t.Fatal(err)
	}

	var loaded []domain.TrackedCommand
	if err := store.Load(domain.HistorySnapshotKey, &loaded); err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[0].Command != "git status" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestSnapshotStoreMissingKey(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var out []domain.TrackedCommand
	if err := store.Load("never_written", &out); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotStoreFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("perm_check", map[string]string{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(store.PathFor("perm_check"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("snapshot mode = %v, want 0600", info.Mode().Perm())
	}
}

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	archive, err := NewArchive(filepath.Join(t.TempDir(), "archive.db"), 30)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = archive.Close() })
	return archive
}

func completedCommand(id, command string, exitCode int, submitted time.Time) domain.TrackedCommand {
	done := submitted.Add(time.Second)
	return domain.TrackedCommand{
		ID:          id,
		Command:     command,
		SubmittedAt: submitted,
		StartedAt:   submitted,
		CompletedAt: &done,
		ExitCode:    &exitCode,
		Completed:   true,
		Branch:      "main",
	}
}

func TestArchiveAppendAndRecords(t *testing.T) {
	archive := newTestArchive(t)
	base := time.Now().UTC().Truncate(time.Second)

	if err := archive.Append(completedCommand("1", "git status", 0, base)); err != nil {
		t.Fatal(err)
	}
	if err := archive.Append(completedCommand("2", "docker ps", 0, base.Add(time.Minute))); err != nil {
		t.Fatal(err)
	}

	records, err := archive.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Command != "docker ps" {
		t.Errorf("newest first ordering violated: %q", records[0].Command)
	}
	if records[0].Branch != "main" || records[0].ExitCode == nil {
		t.Errorf("record fields lost: %+v", records[0])
	}
}

func TestArchiveSearchFiltersOnCommand(t *testing.T) {
	archive := newTestArchive(t)
	base := time.Now().UTC()
	_ = archive.Append(completedCommand("1", "git status", 0, base))
	_ = archive.Append(completedCommand("2", "docker ps", 0, base))

	records, err := archive.Records(0, "docker")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Command != "docker ps" {
		t.Errorf("search results = %+v", records)
	}
}

func TestArchiveLimit(t *testing.T) {
	archive := newTestArchive(t)
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		_ = archive.Append(completedCommand(string(rune('a'+i)), "cmd", 0, base.Add(time.Duration(i)*time.Second)))
	}
	records, err := archive.Records(3, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("limit ignored, got %d records", len(records))
	}
}

func TestArchiveClear(t *testing.T) {
	archive := newTestArchive(t)
	_ = archive.Append(completedCommand("1", "git status", 0, time.Now().UTC()))
	if err := archive.Clear(); err != nil {
		t.Fatal(err)
	}
	records, err := archive.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("clear left %d records", len(records))
	}
}

func TestArchiveExportJSON(t *testing.T) {
	archive := newTestArchive(t)
	_ = archive.Append(completedCommand("1", "git status", 0, time.Now().UTC()))
	_ = archive.Append(completedCommand("2", "git diff", 1, time.Now().UTC()))

	dest := filepath.Join(t.TempDir(), "export.jsonl")
	if err := archive.ExportJSON(dest); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var rec domain.TrackedCommand
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Errorf("line %d not valid JSON: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("exported %d lines, want 2", lines)
	}
}

func TestArchiveRetentionPrunesOldRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	archive, err := NewArchive(path, 30)
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().UTC().AddDate(0, 0, -60)
	_ = archive.Append(completedCommand("old", "ancient", 0, old))
	_ = archive.Append(completedCommand("new", "recent", 0, time.Now().UTC()))
	_ = archive.Close()

	reopened, err := NewArchive(path, 30)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	records, err := reopened.Records(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Command != "recent" {
		t.Errorf("retention prune failed: %+v", records)
	}
}
