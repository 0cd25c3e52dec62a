package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/httpserver/helpers"
)

type RoleMiddleware struct {
	accessControl ports.AccessControlService
}

func NewRoleMiddleware(accessControl ports.AccessControlService) *RoleMiddleware {
	return &RoleMiddleware{accessControl: accessControl}
}

// RequireRole creates middleware that gates a route on the required role.
// The admin role is never satisfied by the role flag alone; the account's
// email must also be on the configured allow-list.
func (m *RoleMiddleware) RequireRole(required account.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := helpers.GetClaimsFromContext(c)
			if err != nil {
				return err
			}

			if err := m.accessControl.RequireRole(claims, required); err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}

			return next(c)
		}
	}
}

// RequireAdmin gates a route on the admin role plus the email allow-list
func (m *RoleMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return m.RequireRole(account.RoleAdmin)
}
