// Package ctxkeys defines typed context keys to prevent key collisions
// across packages.
package ctxkeys

// Key is a typed context key.
type Key string

// Claims stored on the request context by the auth middleware.
const (
	KeyUserID Key = "user_id"
	KeyEmail  Key = "email"
	KeyRole   Key = "role"
	KeyTier   Key = "tier"
)
