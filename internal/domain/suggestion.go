package domain

// AICommandSuggestion is an ephemeral ranked suggestion shown while the user
// types. Suggestions are never persisted.
type AICommandSuggestion struct {
	Command       string  `json:"command"`
	Description   string  `json:"description"`
	Confidence    float64 `json:"confidence"`
	FromInference bool    `json:"-"`
	Category      string  `json:"category,omitempty"`
}

// NLCommandResponse is the result of translating free-form natural language
// into a shell command. Command may still contain unresolved {{placeholders}}
// the caller must prompt for. Warnings are non-empty only for destructive
// operations.
type NLCommandResponse struct {
	Command      string   `json:"command"`
	Explanation  string   `json:"explanation"`
	Confidence   float64  `json:"confidence"`
	Alternatives []string `json:"alternatives,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// HasUnresolvedPlaceholders reports whether the command still carries
// {{name}} markers that need user input before execution.
func (r NLCommandResponse) HasUnresolvedPlaceholders() bool {
	return containsPlaceholder(r.Command)
}
