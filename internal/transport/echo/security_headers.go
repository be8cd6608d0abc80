package echo

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeaders adds security headers to all responses.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Prevent MIME type sniffing
			c.Response().Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking attacks
			c.Response().Header().Set("X-Frame-Options", "DENY")

			// Force HTTPS for 1 year, including subdomains
			c.Response().Header().Set("Strict-Transport-Security",
				"max-age=31536000; includeSubDomains")

			// Control referrer information
			c.Response().Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Remove server identification header
			c.Response().Header().Del("Server")
			c.Response().Header().Del("X-Powered-By")

			return next(c)
		}
	}
}
