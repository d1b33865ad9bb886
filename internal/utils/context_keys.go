package utils

// contextKey is a type used for context keys to avoid conflicts with other packages' context keys.
type contextKey struct {
	name string
}

// String returns the string representation of the context key.
func (c *contextKey) String() string {
	return c.name
}

// UserKey is the context key used for storing the authenticated user in a request context.
var UserKey = &contextKey{"authenticatedUser"}

// ClaimsKey is the context key used for storing JWT claims in a request context.
var ClaimsKey = &contextKey{"claims"}

var TraceIdKey = &contextKey{"traceId"}
var SanitizedPayloadKey = &contextKey{"sanitizedPayload"}
