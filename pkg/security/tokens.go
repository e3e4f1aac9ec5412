package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

// TokenGrant binds a hashed bearer token to an identity.
type TokenGrant struct {
	Subject     string
	TokenHash   string
	Permissions []string
}

// TokenResolver resolves bearer tokens to identities. Tokens are stored as
// lowercase hex SHA-256 digests, never in clear text.
type TokenResolver struct {
	grants []TokenGrant
}

// NewTokenResolver builds a resolver over grants.
func NewTokenResolver(grants ...TokenGrant) *TokenResolver {
	clean := make([]TokenGrant, 0, len(grants))
	for _, grant := range grants {
		grant.TokenHash = strings.ToLower(strings.TrimSpace(grant.TokenHash))
		if grant.TokenHash == "" {
			continue
		}
		clean = append(clean, grant)
	}
	return &TokenResolver{grants: clean}
}

// HashToken returns the digest format stored in TokenGrant.TokenHash.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum[:])
}

// Resolve returns the identity bound to token.
func (r *TokenResolver) Resolve(token string) (Identity, bool) {
	token = strings.TrimSpace(token)
	if r == nil || token == "" {
		return Identity{}, false
	}
	hash := HashToken(token)
	for _, grant := range r.grants {
		if subtle.ConstantTimeCompare([]byte(grant.TokenHash), []byte(hash)) == 1 {
			return NewIdentity(grant.Subject, grant.Permissions...), true
		}
	}
	return Identity{}, false
}

// ResolveRequest reads an "Authorization: Bearer <token>" header.
func (r *TokenResolver) ResolveRequest(req *http.Request) (Identity, bool) {
	if req == nil {
		return Identity{}, false
	}
	header := strings.TrimSpace(req.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return Identity{}, false
	}
	return r.Resolve(token)
}
