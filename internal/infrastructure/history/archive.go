package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// Archive keeps a durable record of completed commands in SQLite,
// independent of the bounded in-memory history. Rows older than the
// retention window are pruned on open.
type Archive struct {
	db         *sql.DB
	path       string
	retainDays int
	mu         sync.Mutex
}

// NewArchive creates (or opens) the archive database. An empty path
// defaults to ~/.termsense/history/archive.db.
func NewArchive(path string, retainDays int) (*Archive, error) {
	if path == "" {
		path = filepath.Join(userHome(), ".termsense", "history", "archive.db")
	}
	if retainDays <= 0 {
		retainDays = domain.DefaultHistoryRetainDays
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("archive dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	a := &Archive{db: db, path: path, retainDays: retainDays}
	if err := a.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	a.prune()
	return a, nil
}

func (a *Archive) init() error {
	_, err := a.db.Exec(`CREATE TABLE IF NOT EXISTS commands (
		id TEXT PRIMARY KEY,
		command TEXT,
		submitted_at TEXT,
		completed_at TEXT,
		exit_code INTEGER,
		branch TEXT,
		working_dir TEXT,
		explanation TEXT
	);`)
	if err != nil {
		return fmt.Errorf("init archive: %w", err)
	}
	return nil
}

// prune drops rows past the retention window. Best effort on open.
func (a *Archive) prune() {
	cutoff := time.Now().AddDate(0, 0, -a.retainDays).Format(time.RFC3339)
	_, _ = a.db.Exec("DELETE FROM commands WHERE datetime(submitted_at) < datetime(?)", cutoff)
}

// Append inserts one completed command. Output is deliberately not
// archived; only the snapshot store holds it, and only in redacted form.
func (a *Archive) Append(record domain.TrackedCommand) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	completedAt := ""
	if record.CompletedAt != nil {
		completedAt = record.CompletedAt.Format(time.RFC3339)
	}
	exitCode := 0
	if record.ExitCode != nil {
		exitCode = *record.ExitCode
	}
	_, err := a.db.Exec(`INSERT OR REPLACE INTO commands
		(id, command, submitted_at, completed_at, exit_code, branch, working_dir, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Command,
		record.SubmittedAt.Format(time.RFC3339),
		completedAt,
		exitCode,
		record.Branch,
		record.WorkingDir,
		record.Explanation,
	)
	if err != nil {
		return fmt.Errorf("archive append: %w", err)
	}
	return nil
}

// Records returns archived commands, newest first. search filters on the
// command text when non-empty; limit 0 means no limit.
func (a *Archive) Records(limit int, search string) ([]domain.TrackedCommand, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT id, command, submitted_at, completed_at, exit_code, branch, working_dir, explanation FROM commands")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE command LIKE ?")
		args = append(args, "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(submitted_at) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := a.db.Query(builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("archive query: %w", err)
	}
	defer rows.Close()
	var records []domain.TrackedCommand
	for rows.Next() {
		var rec domain.TrackedCommand
		var submitted, completed string
		var exitCode int
		if err := rows.Scan(&rec.ID, &rec.Command, &submitted, &completed, &exitCode, &rec.Branch, &rec.WorkingDir, &rec.Explanation); err != nil {
			return nil, fmt.Errorf("archive scan: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, submitted); err == nil {
			rec.SubmittedAt = t
			rec.StartedAt = t
		}
		if completed != "" {
			if t, err := time.Parse(time.RFC3339, completed); err == nil {
				rec.CompletedAt = &t
			}
		}
		code := exitCode
		rec.ExitCode = &code
		rec.Completed = true
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes every archived command.
func (a *Archive) Clear() error {
	_, err := a.db.Exec("DELETE FROM commands")
	if err != nil {
		return fmt.Errorf("archive clear: %w", err)
	}
	return nil
}

// ExportJSON writes the archive to a jsonl file, newest first.
func (a *Archive) ExportJSON(dest string) error {
	records, err := a.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database file path.
func (a *Archive) Path() string {
	return a.path
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

var _ ports.CommandArchive = (*Archive)(nil)
