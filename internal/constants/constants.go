package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Validation minimums for registration and profile updates
const (
	MinNameLength     = 8
	MinEmailLength    = 10
	MinPasswordLength = 8
)

// DefaultTokenTTLMinutes is the bearer token lifetime used when
// TOKEN_TTL_MINUTES is not set.
const DefaultTokenTTLMinutes = 120
