package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const claimSub = "sub"

// Credential is the decoded credential context attached to a request. A nil
// *Credential means the caller is anonymous.
type Credential struct {
	Type Type
	// TokenPayload holds the decoded bearer token claims. Empty for basic
	// credentials.
	TokenPayload jwt.MapClaims
}

// Resolver extracts a stable subject identifier from a credential. The claim
// list is operator-configured; resolution walks it in order and always falls
// through to the "sub" claim.
type Resolver struct {
	identityKeys []string
}

func NewResolver(identityKeys []string) *Resolver {
	keys := make([]string, 0, len(identityKeys)+1)
	keys = append(keys, identityKeys...)
	keys = append(keys, claimSub)
	return &Resolver{identityKeys: keys}
}

// CurrentSubject returns the first non-empty identity claim, or defaultValue
// when the credential is absent, not a bearer credential, or carries none of
// the configured claims. It never fails.
func (r *Resolver) CurrentSubject(cred *Credential, defaultValue string) string {
	if cred == nil || cred.Type != TypeBearer {
		return defaultValue
	}
	for _, key := range r.identityKeys {
		if v, ok := cred.TokenPayload[key].(string); ok && v != "" {
			return v
		}
	}
	return defaultValue
}

// CurrentClaim returns one named claim from a bearer credential, or
// defaultValue for anything else.
func (r *Resolver) CurrentClaim(cred *Credential, claim, defaultValue string) string {
	if cred == nil || cred.Type != TypeBearer {
		return defaultValue
	}
	if v, ok := cred.TokenPayload[claim].(string); ok && v != "" {
		return v
	}
	return defaultValue
}

// SubjectID resolves the current subject as a UUID. The second return is
// false for anonymous callers, basic credentials and malformed subject
// claims; the decision engine treats all three as missing identity.
func (r *Resolver) SubjectID(cred *Credential) (uuid.UUID, bool) {
	raw := r.CurrentSubject(cred, "")
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// AuthType reports the credential type, or the zero Type for anonymous
// callers.
func AuthType(cred *Credential) Type {
	if cred == nil {
		return ""
	}
	return cred.Type
}
