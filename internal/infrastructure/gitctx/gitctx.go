// Package gitctx gathers the session context injected into prompts and
// pattern templates: working directory, current git branch and recent
// commands.
package gitctx

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// ExecRunner spawns short-lived subprocesses on the host.
type ExecRunner struct{}

// NewExecRunner builds a runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements ports.ProcessRunner.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out
	if err := c.Run(); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

// Collector assembles SessionContext snapshots. Branch lookup failures are
// swallowed; a session outside a git repository simply has no branch.
type Collector struct {
	runner ports.ProcessRunner
}

// NewCollector builds a collector over the given runner.
func NewCollector(runner ports.ProcessRunner) *Collector {
	return &Collector{runner: runner}
}

// Collect implements ports.ContextCollector.
func (c *Collector) Collect(ctx context.Context, workingDir string, recent []string) domain.SessionContext {
	sctx := domain.SessionContext{
		WorkingDir:     workingDir,
		RecentCommands: recent,
	}
	if c.runner == nil || workingDir == "" {
		return sctx
	}
	lookupCtx, cancel := context.WithTimeout(ctx, domain.DefaultBranchLookupTimeout)
	defer cancel()
	out, err := c.runner.Run(lookupCtx, workingDir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err == nil {
		sctx.Branch = strings.TrimSpace(out)
	}
	return sctx
}

var (
	_ ports.ProcessRunner    = (*ExecRunner)(nil)
	_ ports.ContextCollector = (*Collector)(nil)
)
