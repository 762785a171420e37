package domain

import "time"

// Config is the root YAML configuration, loaded from
// ~/.termsense/config.yaml (overridable via TERMSENSE_CONFIG).
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Preferences         Preferences        `yaml:"preferences"`
	Models              []ModelDefinition  `yaml:"models"`
	Redaction           RedactionSettings  `yaml:"redaction"`
	History             HistorySettings    `yaml:"history"`
	Suggestions         SuggestionSettings `yaml:"suggestions"`
}

// Preferences selects which configured models serve each role.
type Preferences struct {
	LocalModel string `yaml:"local_model"`
	CloudModel string `yaml:"cloud_model"`
}

// ModelDefinition describes one inference endpoint with its authentication
// and generation parameters.
type ModelDefinition struct {
	Name        string    `yaml:"name"`
	API         string    `yaml:"api,omitempty"` // "ollama" (local generate API) or "chat" (chat completions)
	Endpoint    string    `yaml:"endpoint"`
	AuthEnvVar  string    `yaml:"auth_env_var,omitempty"`
	ModelID     string    `yaml:"model_id"`
	MaxTokens   int       `yaml:"max_tokens,omitempty"`
	Temperature float64   `yaml:"temperature,omitempty"`
	TopP        float64   `yaml:"top_p,omitempty"`
	APIFormat   APIFormat `yaml:"api_format,omitempty"`
}

// Model API kinds.
const (
	ModelAPIOllama = "ollama"
	ModelAPIChat   = "chat"
)

// APIFormat tunes how the generic chat provider constructs requests and
// parses responses. All fields are optional with OpenAI-compatible defaults.
type APIFormat struct {
	// AuthHeaderName specifies the HTTP header carrying credentials.
	// Default: "Authorization".
	AuthHeaderName string `yaml:"auth_header_name,omitempty"`

	// AuthHeaderPrefix is prepended to the API key value.
	// Default: "Bearer " (with trailing space). Set AuthHeaderName to a
	// custom header (e.g. "x-api-key") to get an empty prefix.
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`

	// ResponseJSONPath locates the generated text in the response body.
	// Default: "choices[0].message.content".
	ResponseJSONPath string `yaml:"response_json_path,omitempty"`

	// ExtraHeaders are sent verbatim with each request.
	ExtraHeaders map[string]string `yaml:"extra_headers,omitempty"`
}

// Default values for APIFormat fields.
const (
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "
	DefaultResponsePath     = "choices[0].message.content"
)

// GetAuthHeaderName returns the authentication header name with default fallback.
func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return f.AuthHeaderName
}

// GetAuthHeaderPrefix returns the auth value prefix. An empty prefix is
// intentional when a custom header name was configured.
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderPrefix == "" && f.AuthHeaderName == "" {
		return DefaultAuthHeaderPrefix
	}
	return f.AuthHeaderPrefix
}

// GetResponseJSONPath returns the extraction path with default fallback.
func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath == "" {
		return DefaultResponsePath
	}
	return f.ResponseJSONPath
}

// RedactionSettings points at an optional user rule catalogue.
type RedactionSettings struct {
	RulesFile string `yaml:"rules_file,omitempty"`
}

// HistorySettings bounds the in-memory history and the durable archive.
type HistorySettings struct {
	Cap           int `yaml:"cap,omitempty"`
	RetentionDays int `yaml:"retention_days,omitempty"`
}

// SuggestionSettings tunes the orchestrator.
type SuggestionSettings struct {
	Debounce        string `yaml:"debounce,omitempty"`
	CacheCapacity   int    `yaml:"cache_capacity,omitempty"`
	AvailabilityTTL string `yaml:"availability_ttl,omitempty"`
}

// DebounceDelay parses the configured debounce, falling back to the default.
func (s SuggestionSettings) DebounceDelay() time.Duration {
	return parseDurationOr(s.Debounce, DefaultDebounceDelay)
}

// TTL parses the configured availability TTL, falling back to the default.
func (s SuggestionSettings) TTL() time.Duration {
	return parseDurationOr(s.AvailabilityTTL, DefaultAvailabilityTTL)
}

// FindModel looks up a model definition by name.
func (c Config) FindModel(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// LocalModel resolves the preferred local inference model.
func (c Config) LocalModel() (ModelDefinition, bool) {
	return c.modelForRole(c.Preferences.LocalModel, ModelAPIOllama)
}

// CloudModel resolves the preferred cloud fallback model.
func (c Config) CloudModel() (ModelDefinition, bool) {
	return c.modelForRole(c.Preferences.CloudModel, ModelAPIChat)
}

func (c Config) modelForRole(name string, api string) (ModelDefinition, bool) {
	if name != "" {
		return c.FindModel(name)
	}
	for _, model := range c.Models {
		if model.API == api {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
