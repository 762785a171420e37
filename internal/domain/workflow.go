package domain

import "strings"

// TerminalWorkflow is a reusable, parameterized command template. Workflows
// come from the embedded seed catalogue or from user authoring and are
// persisted as a flat list.
type TerminalWorkflow struct {
	Name        string              `yaml:"name" json:"name"`
	Description string              `yaml:"description" json:"description"`
	Command     string              `yaml:"command" json:"command"`
	Parameters  []WorkflowParameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Category    string              `yaml:"category,omitempty" json:"category,omitempty"`
	Tags        []string            `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// WorkflowParameter declares one {{name}} placeholder of a workflow command.
type WorkflowParameter struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
}

func containsPlaceholder(command string) bool {
	open := strings.Index(command, "{{")
	return open >= 0 && strings.Index(command[open:], "}}") > 0
}
