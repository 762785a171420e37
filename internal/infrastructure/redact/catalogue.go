package redact

import (
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/termsense/internal/domain"
)

// CategoryRules groups the patterns of one secret category. Categories are
// evaluated in catalogue order, patterns in declaration order; the first
// match wins per textual occurrence.
type CategoryRules struct {
	Category domain.SecretCategory
	patterns []*regexp.Regexp
}

// RuleDocument is the YAML schema for a user-supplied catalogue override.
type RuleDocument struct {
	Rules []struct {
		Category string   `yaml:"category"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"rules"`
}

// Keyword assignments (password, api_key, token) match case-insensitively;
// vendor prefixes (ghp_, sk-, AKIA, eyJ) are case-sensitive by design.
// Specific categories precede the generic keyword ones so a GitHub token is
// not claimed by the catch-all token rule first.
func defaultCatalogue() []CategoryRules {
	return []CategoryRules{
		compiled(domain.SecretPrivateKey,
			`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----(?:[\s\S]*?-----END (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----)?`,
		),
		compiled(domain.SecretVCSToken,
			`(?i)\btoken\s*[:=]\s*gh[pousr]_[A-Za-z0-9]{36,}`,
			`gh[pousr]_[A-Za-z0-9]{36,}`,
			`github_pat_[A-Za-z0-9_]{22,}`,
			`glpat-[A-Za-z0-9_\-]{20,}`,
		),
		compiled(domain.SecretCloudCredential,
			`\bAKIA[0-9A-Z]{16}\b`,
			`(?i)\baws_secret_access_key\s*[:=]\s*[A-Za-z0-9/+=]{30,}`,
			`AIza[0-9A-Za-z_\-]{35}`,
		),
		compiled(domain.SecretJWT,
			`\beyJ[A-Za-z0-9_\-]{8,}\.[A-Za-z0-9_\-]{8,}\.[A-Za-z0-9_\-]{8,}`,
		),
		compiled(domain.SecretAPIKey,
			`\bsk-[A-Za-z0-9_\-]{20,}`,
			`(?i)\bapi[_-]?key\s*[:=]\s*["']?[A-Za-z0-9_\-]{8,}["']?`,
		),
		compiled(domain.SecretConnectionString,
			`(?i)\b(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^\s"':@]+:[^\s"'@]+@[^\s"']+`,
		),
		compiled(domain.SecretPaymentCard,
			`\b(?:4\d{3}|5[1-5]\d{2}|3[47]\d{2}|6011)(?:[ -]?\d{4}){2}[ -]?\d{3,4}\b`,
		),
		compiled(domain.SecretNationalID,
			`\b\d{3}-\d{2}-\d{4}\b`,
		),
		compiled(domain.SecretPassword,
			`(?i)\b(?:password|passwd|pwd)\s*[:=]\s*\S+`,
		),
		compiled(domain.SecretToken,
			`(?i)\b(?:token|secret|access[_-]?key|auth)\s*[:=]\s*\S+`,
		),
	}
}

func compiled(category domain.SecretCategory, patterns ...string) CategoryRules {
	rules := CategoryRules{Category: category}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			// The catalogue is a reviewed static asset; a bad entry is
			// skipped rather than aborting the scan.
			continue
		}
		rules.patterns = append(rules.patterns, re)
	}
	return rules
}

var categoryNames = map[string]domain.SecretCategory{
	"api_key":           domain.SecretAPIKey,
	"password":          domain.SecretPassword,
	"token":             domain.SecretToken,
	"private_key":       domain.SecretPrivateKey,
	"cloud_credential":  domain.SecretCloudCredential,
	"vcs_token":         domain.SecretVCSToken,
	"jwt":               domain.SecretJWT,
	"connection_string": domain.SecretConnectionString,
	"payment_card":      domain.SecretPaymentCard,
	"national_id":       domain.SecretNationalID,
}

// loadCatalogue reads a YAML rule file, falling back to the built-in
// catalogue when the file is missing or unreadable. Unknown categories and
// malformed patterns are skipped.
func loadCatalogue(path string) []CategoryRules {
	if path == "" {
		return defaultCatalogue()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultCatalogue()
	}
	var doc RuleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return defaultCatalogue()
	}
	var catalogue []CategoryRules
	for _, rule := range doc.Rules {
		category, ok := categoryNames[rule.Category]
		if !ok {
			continue
		}
		compiledRules := compiled(category, rule.Patterns...)
		if len(compiledRules.patterns) > 0 {
			catalogue = append(catalogue, compiledRules)
		}
	}
	if len(catalogue) == 0 {
		return defaultCatalogue()
	}
	return catalogue
}
