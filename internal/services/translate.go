package services

import (
	"context"
	"strings"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/infrastructure/suggest"
	"github.com/doeshing/termsense/internal/ports"
)

// TranslationCache memoizes translations for repeated phrasings. The file
// cache adapter implements it; a nil cache disables memoization.
type TranslationCache interface {
	Get(key string) (domain.NLCommandResponse, bool)
	Set(key string, value domain.NLCommandResponse) error
}

// TranslateService turns free-form natural language into a shell command.
// Resolution order: the local regex pattern matcher, then the ordered
// inference translators, then a static-table heuristic. The service never
// returns an error; the weakest outcome is a low-confidence heuristic
// response with a warning.
type TranslateService struct {
	matcher     *suggest.NLMatcher
	translators []ports.Translator
	static      *suggest.StaticTable
	cache       TranslationCache
	logger      ports.Logger
}

// TranslateConfig wires a TranslateService.
type TranslateConfig struct {
	Matcher     *suggest.NLMatcher
	Translators []ports.Translator
	Static      *suggest.StaticTable
	Cache       TranslationCache
	Logger      ports.Logger
}

// NewTranslateService builds the translation pipeline.
func NewTranslateService(cfg TranslateConfig) *TranslateService {
	matcher := cfg.Matcher
	if matcher == nil {
		matcher = suggest.NewNLMatcher()
	}
	static := cfg.Static
	if static == nil {
		static = suggest.NewStaticTable()
	}
	return &TranslateService{
		matcher:     matcher,
		translators: cfg.Translators,
		static:      static,
		cache:       cfg.Cache,
		logger:      cfg.Logger,
	}
}

// Translate resolves input into an NLCommandResponse. Pattern matches are
// authoritative and skip inference entirely; inference results are cached.
func (s *TranslateService) Translate(ctx context.Context, input string, sctx domain.SessionContext) domain.NLCommandResponse {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return heuristicResponse("", nil)
	}

	if resp, ok := s.matcher.Match(trimmed, sctx); ok {
		return resp
	}

	key := normalizeInput(trimmed)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached
		}
	}

	for _, translator := range s.translators {
		resp, outcome := translator.Translate(ctx, trimmed, sctx)
		if outcome == ports.SuggestionOK && resp.Command != "" {
			if s.cache != nil {
				_ = s.cache.Set(key, resp)
			}
			return resp
		}
		if s.logger != nil && outcome != ports.SuggestionOK {
			s.logger.Debug("translator failed over", map[string]interface{}{
				"translator": translator.Name(),
				"outcome":    int(outcome),
			})
		}
	}

	return heuristicResponse(trimmed, s.static.Match(trimmed))
}

// heuristicResponse is the terminal fallback: the best static-table match
// dressed up as a low-confidence translation.
func heuristicResponse(input string, matches []domain.AICommandSuggestion) domain.NLCommandResponse {
	if len(matches) == 0 {
		return domain.NLCommandResponse{
			Command:     input,
			Explanation: "No translation available; input returned unchanged.",
			Confidence:  0.1,
			Warnings:    []string{"Could not translate this request. Verify the command before running it."},
		}
	}
	best := matches[0]
	var alternatives []string
	for _, match := range matches[1:] {
		alternatives = append(alternatives, match.Command)
	}
	return domain.NLCommandResponse{
		Command:      best.Command,
		Explanation:  best.Description,
		Confidence:   best.Confidence * 0.5,
		Alternatives: alternatives,
		Category:     best.Category,
	}
}
