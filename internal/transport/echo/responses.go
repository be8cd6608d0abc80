package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "object-gateway/pkg/errors"
)

const (
	// msgDenied is the one denial body every protected route returns. It is
	// identical for missing resources, missing grants and missing identity.
	msgDenied = "User lacks permission to complete this action"

	msgModeMismatch = "Current application mode does not support incoming authentication type"
)

func respondDenied(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{"detail": msgDenied})
}

func respondModeMismatch(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]string{"detail": msgModeMismatch})
}

// respondServiceError maps service-layer errors onto transport statuses.
// Message content stays generic; internals are never echoed back.
func respondServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request"})
	case errors.Is(err, apperrors.ErrDenied):
		return respondDenied(c)
	case errors.Is(err, apperrors.ErrNotFound):
		// Not-found leaks existence; protected routes deny instead.
		return respondDenied(c)
	case errors.Is(err, apperrors.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"detail": "resource already exists"})
	default:
		return c.JSON(http.StatusBadGateway, map[string]string{"detail": "upstream operation failed"})
	}
}
