package auth

import "context"

// User is the canonical requester identity. A nil *User is the anonymous
// sentinel: no uid, non-admin.
type User struct {
	UID   string `json:"uid"`
	Admin bool   `json:"admin"`
}

// Authenticator turns an inbound credential into a canonical User.
// Implementations must fail with an auth-class error for bad credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*User, error)
}
