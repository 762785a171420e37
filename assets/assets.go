// Package assets embeds the default configuration, redaction rule sample
// and workflow seed catalogue shipped with the binary.
package assets

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/termsense/internal/domain"
)

//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

//go:embed defaults/redaction.yaml
var DefaultRedactionYAML []byte

//go:embed defaults/workflows.yaml
var defaultWorkflowsYAML []byte

type workflowDocument struct {
	Workflows []domain.TerminalWorkflow `yaml:"workflows"`
}

// SeedWorkflows parses the embedded workflow catalogue. The catalogue is a
// reviewed static asset; a parse failure yields an empty list rather than
// an error.
func SeedWorkflows() []domain.TerminalWorkflow {
	var doc workflowDocument
	if err := yaml.Unmarshal(defaultWorkflowsYAML, &doc); err != nil {
		return nil
	}
	return doc.Workflows
}
