package auth

const (
	ContextKeyCredential = "credential"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	basicScheme     = "basic"
	authHeaderParts = 2
)

const (
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgInvalidBasicCredentials = "invalid basic credentials"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
)
