package constants

// Session
const (
	SessionCookieName    = "feedback_session"
	ContextKeyUserID     = "user_id"
	SessionKeyOAuthState = "oauth_state"
	SessionMaxAgeSeconds = 86400 * 7
)

// Validation bounds
const (
	MinRating = 1
	MaxRating = 5

	MaxCommentLength = 500

	MaxTemplateNameLength = 100
	MinTemplateCategories = 1
	MaxTemplateCategories = 10
)

// TrendWindowSize is the number of most recent feedback records the
// dashboard trend series considers.
const TrendWindowSize = 30

// Pagination
const (
	DefaultPageSize = 20
	MinPageSize     = 1
	MaxPageSize     = 100
)
