package domain

// SecretCategory enumerates the kinds of secrets the redaction engine knows
// how to mask.
type SecretCategory string

const (
	SecretAPIKey           SecretCategory = "API Key"
	SecretPassword         SecretCategory = "Password"
	SecretToken            SecretCategory = "Token"
	SecretPrivateKey       SecretCategory = "Private Key"
	SecretCloudCredential  SecretCategory = "Cloud Credential"
	SecretVCSToken         SecretCategory = "VCS Token"
	SecretJWT              SecretCategory = "JWT"
	SecretConnectionString SecretCategory = "Connection String"
	SecretPaymentCard      SecretCategory = "Payment Card"
	SecretNationalID       SecretCategory = "National ID"
)

// RedactedSecret describes one masked occurrence. Start and End are byte
// offsets into the redacted text (not the original, since earlier
// replacements shift positions). Original is kept in memory only so an
// explicit reveal action can restore it; it must never be persisted.
type RedactedSecret struct {
	Category SecretCategory `json:"category"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
	Original string         `json:"-"`
	Revealed bool           `json:"-"`
}
