package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXAPIKey       = "x-api-key"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized       = "Unauthorized"
	MsgForbidden          = "Access forbidden"
	MsgNotFound           = "Resource not found"
	MsgBadRequest         = "Invalid request"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgConflict           = "Resource already exists"
	MsgTimeout            = "Request timeout"
)
