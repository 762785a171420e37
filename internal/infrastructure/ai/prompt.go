package ai

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/doeshing/termsense/internal/domain"
)

// Prompt templates embed the typed input, up to a few recent commands and
// repo context. They demand strict JSON so ParseSuggestions/ParseTranslation
// can recover the payload even from chatty models.

const suggestionPromptTemplate = `You are a terminal command assistant inside a Git client.
The user is typing a command. Suggest up to 5 completions.

Current input: {{.Input}}
Working directory: {{.WorkingDir}}
{{if .Branch}}Git branch: {{.Branch}}
{{end}}{{if .Recent}}Recent commands:
{{.Recent}}
{{end}}
Respond with ONLY a JSON array, no prose:
[{"command": "...", "description": "...", "confidence": 0.0}]`

const translationPromptTemplate = `You are a terminal command assistant inside a Git client.
Translate the user's request into a single shell command.

Request: {{.Input}}
Working directory: {{.WorkingDir}}
{{if .Branch}}Git branch: {{.Branch}}
{{end}}{{if .Recent}}Recent commands:
{{.Recent}}
{{end}}
Respond with ONLY a JSON object, no prose:
{"command": "...", "explanation": "...", "confidence": 0.0, "alternatives": [], "warnings": [], "category": "..."}
Include warnings only for destructive operations.`

const explainPromptTemplate = `A terminal command failed. Explain the likely cause briefly and
suggest a fix in at most three sentences.

Command: {{.Input}}
Exit code: {{.ExitCode}}
{{if .Output}}Output:
{{.Output}}
{{end}}`

type promptData struct {
	Input      string
	WorkingDir string
	Branch     string
	Recent     string
	Output     string
	ExitCode   int
}

// BuildSuggestionPrompt renders the completion prompt for the given input
// and session snapshot.
func BuildSuggestionPrompt(input string, sctx domain.SessionContext) string {
	return render(suggestionPromptTemplate, promptData{
		Input:      input,
		WorkingDir: sctx.WorkingDir,
		Branch:     sctx.Branch,
		Recent:     recentSummary(sctx.RecentCommands),
	})
}

// BuildTranslationPrompt renders the NL-to-command prompt.
func BuildTranslationPrompt(input string, sctx domain.SessionContext) string {
	return render(translationPromptTemplate, promptData{
		Input:      input,
		WorkingDir: sctx.WorkingDir,
		Branch:     sctx.Branch,
		Recent:     recentSummary(sctx.RecentCommands),
	})
}

// BuildExplainPrompt renders the failure-explanation prompt.
func BuildExplainPrompt(command string, output string, exitCode int) string {
	return render(explainPromptTemplate, promptData{
		Input:    command,
		Output:   truncate(output, 2000),
		ExitCode: exitCode,
	})
}

func recentSummary(recent []string) string {
	if len(recent) == 0 {
		return ""
	}
	limit := domain.RecentCommandsInPrompt
	if len(recent) < limit {
		limit = len(recent)
	}
	return strings.Join(recent[len(recent)-limit:], "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}

func render(raw string, data promptData) string {
	tmpl, err := template.New("prompt").Parse(raw)
	if err != nil {
		return data.Input
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return data.Input
	}
	return strings.TrimSpace(buf.String())
}
