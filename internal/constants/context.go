package constants

// ContextKey is the type used for request-scoped context values.
type ContextKey string

const (
	CtxKeyRequestID ContextKey = "request_id"
	CtxKeyUserID    ContextKey = "user_id"
	CtxKeyClientIP  ContextKey = "client_ip"
	CtxKeyUserAgent ContextKey = "user_agent"
	CtxKeyStartTime ContextKey = "start_time"
	CtxKeyModule    ContextKey = "module"
	CtxKeyFunction  ContextKey = "function"
)

// Gin context keys set by the session middleware.
const (
	GinKeyUser   = "auth_user"
	GinKeyUserID = "user_id"
	GinKeyToken  = "session_token"
)
