package auth

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"object-gateway/internal/config"
)

// Middleware decodes inbound credentials into a *Credential on the echo
// context. Anonymous requests pass through untouched; the mode gate and the
// permission gate downstream decide what anonymity is allowed to do.
type Middleware struct {
	verifier  *TokenVerifier
	basicAuth config.BasicAuthConfig
}

func NewMiddleware(verifier *TokenVerifier, basicAuth config.BasicAuthConfig) *Middleware {
	return &Middleware{verifier: verifier, basicAuth: basicAuth}
}

// Authenticate extracts bearer or basic credentials from the Authorization
// header. A present-but-invalid credential is a 401; an absent credential is
// not.
func (m *Middleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := extractBearerToken(c); token != "" {
				if m.verifier == nil {
					return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
				}
				claims, err := m.verifier.Verify(token)
				if err != nil {
					return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
				}
				c.Set(ContextKeyCredential, &Credential{Type: TypeBearer, TokenPayload: claims})
				return next(c)
			}

			if user, pass, ok := extractBasicCredentials(c); ok {
				if !m.verifyBasic(user, pass) {
					return respondError(c, http.StatusUnauthorized, msgInvalidBasicCredentials)
				}
				c.Set(ContextKeyCredential, &Credential{Type: TypeBasic})
				return next(c)
			}

			return next(c)
		}
	}
}

func (m *Middleware) verifyBasic(user, pass string) bool {
	if !m.basicAuth.Enabled || user != m.basicAuth.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(m.basicAuth.PasswordHash), []byte(pass)) == nil
}

// CurrentCredential returns the decoded credential, or nil for anonymous
// callers.
func CurrentCredential(c echo.Context) *Credential {
	cred, _ := c.Get(ContextKeyCredential).(*Credential)
	return cred
}

func extractBearerToken(c echo.Context) string {
	parts := splitAuthHeader(c)
	if parts == nil || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}
	return parts[1]
}

func extractBasicCredentials(c echo.Context) (string, string, bool) {
	parts := splitAuthHeader(c)
	if parts == nil || strings.ToLower(parts[0]) != basicScheme {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", false
	}
	user, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return user, pass, true
}

func splitAuthHeader(c echo.Context) []string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return nil
	}
	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts {
		return nil
	}
	return parts
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
