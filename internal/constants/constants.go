package constants

// Context and session keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
	SessionName      = "timeline_session"
)

// Validation limits
const (
	MinPasswordLength  = 8
	TempPasswordLength = 10
	MaxContentLength   = 256
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Wire formats. Dates cross the API boundary as YYYY-MM-DD;
// timestamps keep time-of-day precision internally.
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04"
)

// MaxSuggestedTasks bounds how many drafts the AI helper may return.
const MaxSuggestedTasks = 20
