package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

type ollamaProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
}

func newOllamaProvider(model domain.ModelDefinition, client *http.Client) ports.Provider {
	return &ollamaProvider{
		model:      model,
		httpClient: client,
	}
}

func (o *ollamaProvider) Name() string {
	return "ollama"
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate calls the local engine's generate API with streaming disabled.
func (o *ollamaProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	payload := ollamaGenerateRequest{
		Model:  valueOrDefault(o.model.ModelID, "qwen2.5-coder:1.5b"),
		Prompt: req.Prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: valueOrDefaultFloat(o.model.Temperature, domain.DefaultTemperature),
			TopP:        valueOrDefaultFloat(o.model.TopP, domain.DefaultTopP),
			NumPredict:  valueOrDefaultInt(o.model.MaxTokens, domain.DefaultMaxTokens),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	endpoint := generateEndpoint(o.model.Endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, fmt.Errorf("ollama: %s", resp.Status)
	}

	var decoded ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.ProviderResponse{}, err
	}
	return ports.ProviderResponse{
		Text: strings.TrimSpace(decoded.Response),
		Done: decoded.Done,
	}, nil
}

// generateEndpoint appends the generate path unless the config already
// points at a full API path.
func generateEndpoint(endpoint string) string {
	if endpoint == "" {
		return "http://localhost:11434/api/generate"
	}
	if strings.Contains(endpoint, "/api/") {
		return endpoint
	}
	return strings.TrimSuffix(endpoint, "/") + "/api/generate"
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

func valueOrDefaultInt(value int, def int) int {
	if value == 0 {
		return def
	}
	return value
}

func valueOrDefaultFloat(value float64, def float64) float64 {
	if value == 0 {
		return def
	}
	return value
}
