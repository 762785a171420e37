// Package ai provides the inference adapters: the local engine provider,
// the configuration-driven cloud provider, the availability monitor, prompt
// construction and JSON payload extraction.
package ai

import (
	"net/http"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// Factory creates provider instances from model definitions. A single HTTP
// client, bounded by the generation timeout, is shared across providers; the
// monitor keeps its own short-timeout client for probes.
type Factory struct {
	httpClient *http.Client
}

// NewFactory creates a provider factory.
func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultGenerateTimeout},
	}
}

// ForModel builds a provider matching the model's API kind.
func (f *Factory) ForModel(model domain.ModelDefinition) ports.Provider {
	switch model.API {
	case domain.ModelAPIOllama:
		return newOllamaProvider(model, f.httpClient)
	default:
		return newHTTPProvider(model, f.httpClient)
	}
}
