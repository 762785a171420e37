package domain

import "time"

// File permission constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultProbeTimeout bounds the local-engine availability probe.
	DefaultProbeTimeout = 2 * time.Second
	// DefaultGenerateTimeout bounds an actual inference call.
	DefaultGenerateTimeout = 15 * time.Second
	// DefaultAvailabilityTTL is how long a probe result is trusted.
	DefaultAvailabilityTTL = time.Minute
	// DefaultDebounceDelay coalesces rapid keystrokes before fetching.
	DefaultDebounceDelay = 300 * time.Millisecond
	// DefaultBranchLookupTimeout bounds the git branch subprocess call.
	DefaultBranchLookupTimeout = 2 * time.Second
)

// Limit constants
const (
	// DefaultHistoryCap is the in-memory command history bound (FIFO eviction).
	DefaultHistoryCap = 100
	// MaxPathSuggestions caps filesystem completion results.
	MaxPathSuggestions = 8
	// MinSuggestInputLength is the shortest input worth suggesting for.
	MinSuggestInputLength = 2
	// DefaultSuggestionCacheCapacity bounds the per-input suggestion cache.
	DefaultSuggestionCacheCapacity = 256
	// MaxMaskDots caps the dot run inside a redaction token.
	MaxMaskDots = 20
	// RecentCommandsInPrompt is how many history entries enrich a prompt.
	RecentCommandsInPrompt = 3
	// DefaultHistoryRetainDays is the default archive retention.
	DefaultHistoryRetainDays = 30
)

// Persistence keys (whole-collection snapshots in the state store)
const (
	HistorySnapshotKey = "command_history"
	WorkflowsKey       = "workflows"
)

// Model configuration constants
const (
	// DefaultMaxTokens is the default generation budget.
	DefaultMaxTokens = 512
	// DefaultTemperature keeps suggestions close to deterministic.
	DefaultTemperature = 0.2
	// DefaultTopP is the nucleus-sampling default.
	DefaultTopP = 0.9
)
