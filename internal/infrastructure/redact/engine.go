// Package redact implements the secret redaction engine: a pure text
// scanner that masks credentials before terminal output is stored or
// rendered.
package redact

import (
	"sort"
	"strings"

	"github.com/doeshing/termsense/internal/domain"
)

// Engine applies an ordered catalogue of secret patterns to text. It holds
// no mutable state after construction and is safe for concurrent use.
type Engine struct {
	catalogue []CategoryRules
}

// NewEngine builds an engine with the built-in catalogue.
func NewEngine() *Engine {
	return &Engine{catalogue: defaultCatalogue()}
}

// NewEngineFromFile builds an engine from a YAML rule file, falling back to
// the built-in catalogue when the file is missing or malformed.
func NewEngineFromFile(path string) *Engine {
	return &Engine{catalogue: loadCatalogue(path)}
}

type span struct {
	start    int
	end      int
	category domain.SecretCategory
}

// Redact masks every catalogued secret in text. The returned findings carry
// spans expressed in coordinates of the redacted string: a running offset
// corrects for earlier replacements changing the length, so
// redacted[f.Start:f.End] is exactly the mask token. Spans never overlap.
func (e *Engine) Redact(text string) (string, []domain.RedactedSecret) {
	var claimed []span
	for _, rules := range e.catalogue {
		for _, re := range rules.patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				if overlapsAny(claimed, loc[0], loc[1]) {
					continue
				}
				claimed = append(claimed, span{start: loc[0], end: loc[1], category: rules.Category})
			}
		}
	}
	if len(claimed) == 0 {
		return text, nil
	}
	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })

	var b strings.Builder
	findings := make([]domain.RedactedSecret, 0, len(claimed))
	offset := 0
	prev := 0
	for _, m := range claimed {
		b.WriteString(text[prev:m.start])
		token := maskToken(m.category, m.end-m.start)
		start := m.start + offset
		findings = append(findings, domain.RedactedSecret{
			Category: m.category,
			Start:    start,
			End:      start + len(token),
			Original: text[m.start:m.end],
		})
		b.WriteString(token)
		offset += len(token) - (m.end - m.start)
		prev = m.end
	}
	b.WriteString(text[prev:])
	return b.String(), findings
}

// DetectCategory returns the first catalogue category matching text. Used to
// decide whether a command merits redaction before it is ever echoed.
func (e *Engine) DetectCategory(text string) (domain.SecretCategory, bool) {
	for _, rules := range e.catalogue {
		for _, re := range rules.patterns {
			if re.MatchString(text) {
				return rules.Category, true
			}
		}
	}
	return "", false
}

// Candidate commands for pre-echo scanning: anything that prints or sets
// values may expose a secret on screen.
var scanPrefixes = []string{"export", "set", "echo", "cat", "print", "printf"}

// ShouldScan reports whether a command line is worth a DetectCategory pass
// before being echoed.
func ShouldScan(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(fields[0])
	for _, prefix := range scanPrefixes {
		if first == prefix {
			return true
		}
	}
	return false
}

// RedactCommand masks secrets in a command line before it is recorded or
// echoed. Only candidate commands (per ShouldScan) pay for a full scan.
func (e *Engine) RedactCommand(text string) string {
	if !ShouldScan(text) {
		return text
	}
	redacted, _ := e.Redact(text)
	return redacted
}

// maskToken renders the replacement for a match of the given length. The dot
// run follows the match length so the mask does not leak exact sizes of long
// secrets, capped at MaxMaskDots.
func maskToken(category domain.SecretCategory, matchLen int) string {
	dots := matchLen
	if dots > domain.MaxMaskDots {
		dots = domain.MaxMaskDots
	}
	if dots < 1 {
		dots = 1
	}
	return "[" + string(category) + ": " + strings.Repeat("•", dots) + "]"
}

func overlapsAny(claimed []span, start, end int) bool {
	for _, m := range claimed {
		if start < m.end && end > m.start {
			return true
		}
	}
	return false
}
