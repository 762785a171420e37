package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

type stubTranslator struct {
	name    string
	outcome ports.SuggestionOutcome
	resp    domain.NLCommandResponse

	mu    sync.Mutex
	calls int
}

func (t *stubTranslator) Name() string { return t.name }

func (t *stubTranslator) Translate(_ context.Context, _ string, _ domain.SessionContext) (domain.NLCommandResponse, ports.SuggestionOutcome) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return t.resp, t.outcome
}

func (t *stubTranslator) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]domain.NLCommandResponse
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]domain.NLCommandResponse{}}
}

func (c *mapCache) Get(key string) (domain.NLCommandResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.entries[key]
	return resp, ok
}

func (c *mapCache) Set(key string, value domain.NLCommandResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func TestTranslatePatternMatcherWins(t *testing.T) {
	cloud := &stubTranslator{name: "cloud", outcome: ports.SuggestionOK}
	svc := NewTranslateService(TranslateConfig{Translators: []ports.Translator{cloud}})

	resp := svc.Translate(context.Background(), "push my changes", domain.SessionContext{Branch: "main"})
	if !strings.HasPrefix(resp.Command, "git push") {
		t.Errorf("command = %q", resp.Command)
	}
	if cloud.callCount() != 0 {
		t.Error("pattern match must skip inference translators")
	}
}

func TestTranslateFallsThroughToInference(t *testing.T) {
	local := &stubTranslator{name: "local", outcome: ports.SuggestionUnavailable}
	cloud := &stubTranslator{
		name:    "cloud",
		outcome: ports.SuggestionOK,
		resp: domain.NLCommandResponse{
			Command:     "git bisect start",
			Explanation: "Begin a binary search for the bad commit",
			Confidence:  0.8,
		},
	}
	svc := NewTranslateService(TranslateConfig{Translators: []ports.Translator{local, cloud}})

	resp := svc.Translate(context.Background(), "find which commit broke the build", domain.SessionContext{})
	if resp.Command != "git bisect start" {
		t.Errorf("command = %q", resp.Command)
	}
	if local.callCount() != 1 {
		t.Error("local translator should be attempted first")
	}
}

func TestTranslateHeuristicFallbackNeverErrors(t *testing.T) {
	local := &stubTranslator{name: "local", outcome: ports.SuggestionUnavailable}
	cloud := &stubTranslator{name: "cloud", outcome: ports.SuggestionParseError}
	svc := NewTranslateService(TranslateConfig{Translators: []ports.Translator{local, cloud}})

	resp := svc.Translate(context.Background(), "docker something", domain.SessionContext{})
	if resp.Command != "docker ps" {
		t.Errorf("heuristic command = %q", resp.Command)
	}
	if resp.Confidence >= 0.5 {
		t.Errorf("heuristic confidence should be low, got %f", resp.Confidence)
	}
}

func TestTranslateNoMatchReturnsInputWithWarning(t *testing.T) {
	svc := NewTranslateService(TranslateConfig{})
	resp := svc.Translate(context.Background(), "frobnicate the widget", domain.SessionContext{})
	if resp.Command != "frobnicate the widget" {
		t.Errorf("command = %q", resp.Command)
	}
	if len(resp.Warnings) == 0 {
		t.Error("untranslatable input must carry a warning")
	}
}

func TestTranslateCachesInferenceResults(t *testing.T) {
	cloud := &stubTranslator{
		name:    "cloud",
		outcome: ports.SuggestionOK,
		resp:    domain.NLCommandResponse{Command: "git gc", Confidence: 0.7},
	}
	svc := NewTranslateService(TranslateConfig{
		Translators: []ports.Translator{cloud},
		Cache:       newMapCache(),
	})

	ctx := context.Background()
	sctx := domain.SessionContext{}
	svc.Translate(ctx, "compact the repository somehow", sctx)
	svc.Translate(ctx, "Compact The Repository Somehow", sctx)
	if cloud.callCount() != 1 {
		t.Errorf("expected one inference call for equivalent inputs, got %d", cloud.callCount())
	}
}
