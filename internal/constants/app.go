package constants

import "time"

// Application Information
const (
	AppName    = "PhishGuard API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Cache key namespaces. The value layouts behind these keys are owned by
// the services that write them; the store can always rebuild any entry.
const (
	CacheKeySession         = "session:"          // + token -> {valid, user?}
	CacheKeyPhishingURL     = "phishing:url:"     // + raw URL -> {isPhishing, explanation?}
	CacheKeyPhishingCode    = "phishing:code:"    // + code -> originating URL
	CacheKeyUserData        = "user_data:"        // + userId -> profile response body
	CacheKeyNotifications   = "notifications:"    // + userId -> notification list response body
	CacheKeyBlockedPhishing = "blocked_phishing:" // + userId -> block event list response body
)

// Cache TTL policy. Positive and negative session TTLs differ: a false
// negative self-heals within an hour, while a false positive on a deleted
// session is capped by the positive TTL acting as the session lifetime.
const (
	SessionPositiveTTL  = 24 * time.Hour
	SessionNegativeTTL  = time.Hour
	VerdictTTL          = 24 * time.Hour
	SubmittedVerdictTTL = time.Hour
	VerificationCodeTTL = 5 * time.Minute
	UserDataTTL         = 15 * time.Minute
	NotificationListTTL = time.Minute
	BlockedListTTL      = 5 * time.Minute
)

// Session token entropy in bytes; hex-encoded to twice this length.
const SessionTokenBytes = 32
