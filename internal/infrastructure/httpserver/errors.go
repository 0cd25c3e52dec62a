package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/storefront-api/internal/core/ports"
)

// httpError translates a service error into an echo HTTP error using the
// domain error kind. Unknown errors collapse to a generic 500 so internal
// detail never leaks to clients.
func httpError(err error) *echo.HTTPError {
	switch ports.KindOf(err) {
	case ports.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case ports.KindInvalidCredentials:
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case ports.KindInvalidToken:
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	case ports.KindInvalidCode:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid or expired code")
	case ports.KindDuplicateEmail:
		return echo.NewHTTPError(http.StatusConflict, "email already in use")
	case ports.KindForbidden:
		return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
	case ports.KindTimeout:
		return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
