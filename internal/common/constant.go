package common

// AuthorizationHeader carries the session token as "Bearer <token>" on every
// protected API call.
const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
)
