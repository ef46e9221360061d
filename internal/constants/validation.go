package constants

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	MinNameLength     = 1
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxURLLength      = 2048
)

// One-time verification code issued with a phishing alert.
const VerificationCodeLength = 6
