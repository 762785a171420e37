package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// InferenceSource adapts a raw text provider into the suggestion,
// translation and failure-explanation contracts: it builds the prompt,
// invokes the provider and extracts the structured payload. An optional
// availability monitor gates calls to the local engine.
type InferenceSource struct {
	provider ports.Provider
	monitor  ports.AvailabilityChecker
}

// NewInferenceSource wraps a provider. monitor may be nil for providers that
// do not need a pre-flight health check (the cloud fallback).
func NewInferenceSource(provider ports.Provider, monitor ports.AvailabilityChecker) *InferenceSource {
	return &InferenceSource{provider: provider, monitor: monitor}
}

func (s *InferenceSource) Name() string {
	return s.provider.Name()
}

// Suggestions implements ports.SuggestionSource.
func (s *InferenceSource) Suggestions(ctx context.Context, input string, sctx domain.SessionContext) ([]domain.AICommandSuggestion, ports.SuggestionOutcome) {
	if s.monitor != nil && !s.monitor.Available(ctx) {
		return nil, ports.SuggestionUnavailable
	}
	resp, err := s.provider.Generate(ctx, ports.ProviderRequest{
		Prompt:  BuildSuggestionPrompt(input, sctx),
		Context: sctx,
	})
	if err != nil {
		return nil, ports.SuggestionUnavailable
	}
	suggestions, err := ParseSuggestions(resp.Text)
	if err != nil {
		return nil, ports.SuggestionParseError
	}
	return suggestions, ports.SuggestionOK
}

// Translate implements ports.Translator.
func (s *InferenceSource) Translate(ctx context.Context, input string, sctx domain.SessionContext) (domain.NLCommandResponse, ports.SuggestionOutcome) {
	if s.monitor != nil && !s.monitor.Available(ctx) {
		return domain.NLCommandResponse{}, ports.SuggestionUnavailable
	}
	resp, err := s.provider.Generate(ctx, ports.ProviderRequest{
		Prompt:  BuildTranslationPrompt(input, sctx),
		Context: sctx,
	})
	if err != nil {
		return domain.NLCommandResponse{}, ports.SuggestionUnavailable
	}
	translation, err := ParseTranslation(resp.Text)
	if err != nil {
		return domain.NLCommandResponse{}, ports.SuggestionParseError
	}
	return translation, ports.SuggestionOK
}

// Explain implements ports.FailureExplainer.
func (s *InferenceSource) Explain(ctx context.Context, command string, output string, exitCode int) (string, error) {
	if s.monitor != nil && !s.monitor.Available(ctx) {
		return "", errors.New("ai: local engine unavailable")
	}
	resp, err := s.provider.Generate(ctx, ports.ProviderRequest{
		Prompt: BuildExplainPrompt(command, output, exitCode),
	})
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	if resp.Text == "" {
		return "", errors.New("ai: empty explanation")
	}
	return resp.Text, nil
}

var (
	_ ports.SuggestionSource = (*InferenceSource)(nil)
	_ ports.Translator       = (*InferenceSource)(nil)
	_ ports.FailureExplainer = (*InferenceSource)(nil)
)
