package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/httpserver/helpers"
)

type JWTMiddleware struct {
	authService ports.AuthService
	logger      *logrus.Logger
}

func NewJWTMiddleware(authService ports.AuthService, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, logger: logger}
}

// RequireJWT creates middleware that validates JWT tokens and sets the account context
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetJWTTokenFromContext(c)
			if err != nil {
				return err
			}

			claims, err := m.authService.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("JWT validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			helpers.SetAccountID(c, claims.AccountID)
			helpers.SetAccountRole(c, claims.Role)
			helpers.SetAccountEmail(c, claims.Email)
			helpers.SetClaims(c, claims)

			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"account_id": claims.AccountID, "role": claims.Role}).Debug("jwt validated and account context set")
			}

			return next(c)
		}
	}
}
