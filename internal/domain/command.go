// Package domain defines core business entities and value objects for termsense.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures shared by the tracker, the suggestion
// pipeline, the redaction engine and the workflow engine.
package domain

import "time"

// TrackedCommand captures one executed terminal command and its lifecycle.
// An entry is created on submission, mutated in place while output streams
// in, and finalized by Complete. The Explanation field is only populated
// asynchronously after a non-zero exit.
type TrackedCommand struct {
	ID          string     `json:"id"`
	Command     string     `json:"command"`
	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Output      string     `json:"output,omitempty"`
	ExitCode    *int       `json:"exit_code,omitempty"`
	Completed   bool       `json:"completed"`
	Branch      string     `json:"branch,omitempty"`
	WorkingDir  string     `json:"working_dir,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
}

// Succeeded reports whether the command finished with a zero exit status.
func (c TrackedCommand) Succeeded() bool {
	return c.Completed && c.ExitCode != nil && *c.ExitCode == 0
}

// Duration returns the wall-clock run time, or zero while still running.
func (c TrackedCommand) Duration() time.Duration {
	if c.CompletedAt == nil {
		return 0
	}
	return c.CompletedAt.Sub(c.StartedAt)
}
