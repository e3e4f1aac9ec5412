package security

import (
	"context"
	"strings"
)

// WildcardPermission grants every resource.
const WildcardPermission = "*"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	Subject     string
	Permissions map[string]struct{}
}

// NewIdentity builds an identity holding the given permissions. Blank
// permissions are skipped.
func NewIdentity(subject string, permissions ...string) Identity {
	set := make(map[string]struct{}, len(permissions))
	for _, perm := range permissions {
		if trimmed := strings.TrimSpace(perm); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return Identity{Subject: strings.TrimSpace(subject), Permissions: set}
}

// Anonymous reports whether the identity has no subject.
func (i Identity) Anonymous() bool {
	return i.Subject == ""
}

// Can reports whether the identity holds permission, honouring the wildcard.
func (i Identity) Can(permission string) bool {
	if _, ok := i.Permissions[WildcardPermission]; ok {
		return true
	}
	_, ok := i.Permissions[permission]
	return ok
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity stored in ctx. ok is false when the
// request is anonymous.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}
