package ai

import (
	"encoding/json"
	"errors"
	"regexp"

	"github.com/doeshing/termsense/internal/domain"
)

// Chatty models wrap their JSON in prose. A bounded-greedy scan from the
// first opening bracket to the last closing one recovers the payload. Kept
// isolated here so it can be swapped for constrained generation without
// touching the orchestrator.
var (
	jsonArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

	errNoJSON = errors.New("ai: no JSON payload in response")
)

type suggestionPayload struct {
	Command     string  `json:"command"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Category    string  `json:"category,omitempty"`
}

// ParseSuggestions extracts the JSON suggestion array from free-form model
// output and maps it to domain suggestions flagged as inference-sourced.
func ParseSuggestions(text string) ([]domain.AICommandSuggestion, error) {
	raw := jsonArrayRe.FindString(text)
	if raw == "" {
		return nil, errNoJSON
	}
	var payload []suggestionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}
	suggestions := make([]domain.AICommandSuggestion, 0, len(payload))
	for _, p := range payload {
		if p.Command == "" {
			continue
		}
		suggestions = append(suggestions, domain.AICommandSuggestion{
			Command:       p.Command,
			Description:   p.Description,
			Confidence:    clampConfidence(p.Confidence),
			FromInference: true,
			Category:      p.Category,
		})
	}
	return suggestions, nil
}

// ParseTranslation extracts the single-object translation payload.
func ParseTranslation(text string) (domain.NLCommandResponse, error) {
	raw := jsonObjectRe.FindString(text)
	if raw == "" {
		return domain.NLCommandResponse{}, errNoJSON
	}
	var resp domain.NLCommandResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return domain.NLCommandResponse{}, err
	}
	if resp.Command == "" {
		return domain.NLCommandResponse{}, errors.New("ai: translation payload has no command")
	}
	resp.Confidence = clampConfidence(resp.Confidence)
	return resp, nil
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
