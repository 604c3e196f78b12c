package model

import "strings"

// Owner is the verified identity of the user a request acts for.
//
// Only the authentication middleware mints Owners, after it has verified an
// access token. Handlers must never build one from request input.
type Owner struct {
	id string
}

// TrustedOwner wraps a user id that has already been authenticated.
func TrustedOwner(id string) Owner {
	return Owner{id: strings.TrimSpace(id)}
}

func (o Owner) ID() string {
	return o.id
}

// IsZero reports whether no identity is present.
func (o Owner) IsZero() bool {
	return o.id == ""
}
