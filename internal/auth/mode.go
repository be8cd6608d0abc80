package auth

import (
	apperrors "object-gateway/pkg/errors"
)

// Mode is the process-wide policy describing which credential types the
// gateway accepts. It is computed once at startup and never changes for the
// process lifetime.
type Mode string

const (
	ModeNoAuth    Mode = "NOAUTH"
	ModeBasicAuth Mode = "BASICAUTH"
	ModeOIDCAuth  Mode = "OIDCAUTH"
	ModeFullAuth  Mode = "FULLAUTH"
)

// Type is the credential type presented by a caller. The zero value means
// anonymous.
type Type string

const (
	TypeBasic  Type = "BASIC"
	TypeBearer Type = "BEARER"
)

// ResolveMode maps the two independent configuration flags onto the four
// operating modes.
func ResolveMode(basicEnabled, oidcEnabled bool) Mode {
	switch {
	case basicEnabled && oidcEnabled:
		return ModeFullAuth
	case basicEnabled:
		return ModeBasicAuth
	case oidcEnabled:
		return ModeOIDCAuth
	default:
		return ModeNoAuth
	}
}

// CanBasic reports whether basic credentials operate under this mode.
func (m Mode) CanBasic() bool {
	return m == ModeBasicAuth || m == ModeFullAuth
}

// CanOIDC reports whether bearer credentials operate under this mode. Only
// OIDC-capable modes enforce permission checks.
func (m Mode) CanOIDC() bool {
	return m == ModeOIDCAuth || m == ModeFullAuth
}

// CheckCompatible rejects cross-mode credential use: bearer tokens under a
// basic-only mode and basic credentials under an OIDC-only mode. Anonymous
// callers are always compatible; whether they are authorized is a separate
// question.
func CheckCompatible(mode Mode, authType Type) error {
	if mode == ModeBasicAuth && authType == TypeBearer {
		return apperrors.ModeMismatch(string(mode), string(authType))
	}
	if mode == ModeOIDCAuth && authType == TypeBasic {
		return apperrors.ModeMismatch(string(mode), string(authType))
	}
	return nil
}
