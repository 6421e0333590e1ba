package constants

// Context keys shared between middleware and handlers
const (
	ContextKeyUserID      = "user_id"
	ContextKeyCurrentUser = "current_user"
	ContextKeyRequestID   = "request_id"
)

// SessionName is the cookie name used by the session middleware
const SessionName = "task_session"

// HeaderRequestID carries the request ID back to the client
const HeaderRequestID = "X-Request-ID"

// Username constraints
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// DefaultMinPasswordLength is used when PASSWORD_MIN_LENGTH is not configured
const DefaultMinPasswordLength = 8

// MaxTaskNameLength bounds the task name column
const MaxTaskNameLength = 255
