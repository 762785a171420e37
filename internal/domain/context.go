package domain

// SessionContext is the small environmental snapshot passed by value into
// the suggestion pipeline and prompt builders. No component holds a mutable
// reference into another component's collections; recent commands are copies.
type SessionContext struct {
	WorkingDir     string
	Branch         string
	RecentCommands []string
}
