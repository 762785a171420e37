package suggest

import (
	"regexp"
	"strings"

	"github.com/doeshing/termsense/internal/domain"
)

// NLMatcher translates free-text phrases into command templates with a fixed
// ordered rule table. The first matching rule wins; placeholders are filled
// from the session context where possible and left literal otherwise,
// signalling the caller to prompt the user.
type NLMatcher struct {
	rules []nlRule
}

type nlRule struct {
	re            *regexp.Regexp
	template      string
	category      string
	explanation   string
	requiresInput bool
	warnings      []string
	alternatives  []string
}

// NewNLMatcher builds the built-in rule table.
func NewNLMatcher() *NLMatcher {
	return &NLMatcher{rules: []nlRule{
		{
			re:            regexp.MustCompile(`(?:create|make|new)\s+(?:a\s+)?branch(?:\s+(?:called|named)\s+(\S+))?`),
			template:      "git checkout -b {{name}}",
			category:      "git",
			explanation:   "Creates a new branch and switches to it",
			requiresInput: true,
		},
		{
			re:          regexp.MustCompile(`(?:switch|go)\s+(?:back\s+)?to\s+(?:branch\s+)?(\S+)`),
			template:    "git checkout {{name}}",
			category:    "git",
			explanation: "Switches to the named branch",
		},
		{
			re:           regexp.MustCompile(`undo\s+(?:the\s+)?last\s+commit`),
			template:     "git reset --soft HEAD~1",
			category:     "git",
			explanation:  "Undoes the last commit, keeping its changes staged",
			alternatives: []string{"git reset --hard HEAD~1"},
		},
		{
			re:          regexp.MustCompile(`(?:stash|save)\s+(?:my\s+)?(?:changes|work)`),
			template:    "git stash",
			category:    "git",
			explanation: "Stashes uncommitted changes",
		},
		{
			re:          regexp.MustCompile(`(?:restore|apply|pop)\s+(?:the\s+)?stash`),
			template:    "git stash pop",
			category:    "git",
			explanation: "Reapplies the most recent stash",
		},
		{
			re:            regexp.MustCompile(`delete\s+(?:the\s+)?branch(?:\s+(\S+))?`),
			template:      "git branch -d {{name}}",
			category:      "git",
			explanation:   "Deletes the named branch",
			requiresInput: true,
			warnings:      []string{"Deleting a branch discards commits not merged elsewhere"},
		},
		{
			re:          regexp.MustCompile(`(?:discard|throw away)\s+(?:all\s+)?(?:my\s+)?(?:local\s+)?changes`),
			template:    "git checkout -- .",
			category:    "git",
			explanation: "Discards all uncommitted changes in the working tree",
			warnings:    []string{"Uncommitted changes are lost permanently"},
		},
		{
			re:          regexp.MustCompile(`push\s+(?:my\s+|the\s+)?(?:current\s+)?(?:branch|changes|commits?)`),
			template:    "git push origin {{branch}}",
			category:    "git",
			explanation: "Pushes the current branch to origin",
		},
		{
			re:          regexp.MustCompile(`pull\s+(?:the\s+)?latest(?:\s+changes)?`),
			template:    "git pull",
			category:    "git",
			explanation: "Fetches and merges remote changes",
		},
		{
			re:          regexp.MustCompile(`(?:show|view|see)\s+(?:the\s+)?(?:commit\s+)?(?:history|log)`),
			template:    "git log --oneline --graph -20",
			category:    "git",
			explanation: "Shows the recent commit graph",
		},
		{
			re:          regexp.MustCompile(`(?:show|what|which)\s+(?:files?\s+)?(?:have\s+)?changed`),
			template:    "git status --short",
			category:    "git",
			explanation: "Lists changed files",
		},
		{
			re:          regexp.MustCompile(`(?:stop|kill)\s+all\s+(?:the\s+)?containers`),
			template:    "docker stop $(docker ps -q)",
			category:    "docker",
			explanation: "Stops every running container",
			warnings:    []string{"All running containers will be stopped"},
		},
		{
			re:          regexp.MustCompile(`(?:list|show)\s+(?:running\s+)?containers`),
			template:    "docker ps",
			category:    "docker",
			explanation: "Lists running containers",
		},
		{
			re:            regexp.MustCompile(`install\s+(?:the\s+)?(?:package|dependency)(?:\s+(\S+))?`),
			template:      "npm install {{name}}",
			category:      "npm",
			explanation:   "Installs an npm package",
			requiresInput: true,
		},
		{
			re:          regexp.MustCompile(`(?:find|search)\s+(?:for\s+)?text\s+(\S+)`),
			template:    "grep -rn \"{{name}}\" .",
			category:    "shell",
			explanation: "Searches files recursively for the text",
		},
	}}
}

// Match runs the rule table against the lowercased input. A false return is
// "no match", not an error; the caller proceeds to the AI fallback.
func (m *NLMatcher) Match(input string, sctx domain.SessionContext) (domain.NLCommandResponse, bool) {
	lowered := strings.ToLower(strings.TrimSpace(input))
	if lowered == "" {
		return domain.NLCommandResponse{}, false
	}
	for _, rule := range m.rules {
		groups := rule.re.FindStringSubmatch(lowered)
		if groups == nil {
			continue
		}
		captured := ""
		if len(groups) > 1 {
			captured = groups[1]
		}
		command := fillPlaceholders(rule.template, captured, sctx)
		confidence := 0.85
		if rule.requiresInput && strings.Contains(command, "{{") {
			confidence = 0.6
		}
		return domain.NLCommandResponse{
			Command:      command,
			Explanation:  rule.explanation,
			Confidence:   confidence,
			Alternatives: append([]string(nil), rule.alternatives...),
			Warnings:     append([]string(nil), rule.warnings...),
			Category:     rule.category,
		}, true
	}
	return domain.NLCommandResponse{}, false
}

// fillPlaceholders substitutes template placeholders from the capture group
// and session context. Unresolvable placeholders stay literal so the caller
// knows to prompt for them.
func fillPlaceholders(template, captured string, sctx domain.SessionContext) string {
	command := template
	if captured != "" {
		command = strings.ReplaceAll(command, "{{name}}", captured)
	}
	if sctx.Branch != "" {
		command = strings.ReplaceAll(command, "{{branch}}", sctx.Branch)
	}
	return command
}
