package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/audit"
	"github.com/marketbay/storefront-api/internal/core/domain/auth"
	"github.com/marketbay/storefront-api/internal/infrastructure/httpserver/helpers"
)

// Auth handlers
func (s *Server) register(c echo.Context) error {
	var req account.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	acc, err := s.accountSvc.Register(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
			AccountID:  &acc.ID,
			Action:     audit.ActionRegister,
			Resource:   audit.ResourceAccount,
			ResourceID: &acc.ID,
			IPAddress:  c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
		})
	}

	return c.JSON(http.StatusCreated, acc)
}

func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	tokens, err := s.authSvc.Login(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}

	if s.auditSvc != nil {
		if acc, accErr := s.accountSvc.GetAccountByEmail(c.Request().Context(), req.Email); accErr == nil {
			_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
				AccountID:  &acc.ID,
				Action:     audit.ActionLogin,
				Resource:   audit.ResourceAccount,
				ResourceID: &acc.ID,
				Details:    map[string]any{"method": "password"},
				IPAddress:  c.RealIP(),
				UserAgent:  c.Request().UserAgent(),
			})
		}
	}

	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) refreshToken(c echo.Context) error {
	var req auth.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token is required")
	}

	tokens, err := s.authSvc.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) logout(c echo.Context) error {
	token, err := helpers.GetJWTTokenFromContext(c)
	if err != nil {
		return err
	}

	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	if err := s.authSvc.Logout(c.Request().Context(), accountID, token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to logout")
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
			AccountID:  &accountID,
			Action:     audit.ActionLogout,
			Resource:   audit.ResourceToken,
			ResourceID: &accountID,
			Details:    map[string]any{"token_hash": s.authSvc.TokenHash(token)},
			IPAddress:  c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
		})
	}

	return c.NoContent(http.StatusOK)
}

// verifyEmail consumes a verification code. The code may arrive as a query
// parameter (email link) or in the request body.
func (s *Server) verifyEmail(c echo.Context) error {
	var req account.VerifyEmailRequest
	req.Code = c.QueryParam("code")
	if req.Code == "" {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	acc, err := s.accountSvc.CompleteVerification(c.Request().Context(), req.Code)
	if err != nil {
		return httpError(err)
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
			AccountID:  &acc.ID,
			Action:     audit.ActionVerifyEmail,
			Resource:   audit.ResourceAccount,
			ResourceID: &acc.ID,
			IPAddress:  c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "email verified successfully",
	})
}

func (s *Server) resendVerificationEmail(c echo.Context) error {
	var req account.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	// Do not reveal whether the email exists
	if err := s.accountSvc.ResendVerification(c.Request().Context(), req.Email); err != nil {
		s.logger.WithError(err).Debug("resend verification failed")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "if the email exists, a verification message has been sent",
	})
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req account.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	// Do not reveal whether the email exists
	if _, err := s.accountSvc.StartPasswordReset(c.Request().Context(), req.Email); err != nil {
		s.logger.WithError(err).Debug("password reset start failed")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "if the email exists, a reset message has been sent",
	})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req account.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Code == "" || req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code and new_password are required")
	}

	acc, err := s.accountSvc.CompletePasswordReset(c.Request().Context(), req.Code, req.NewPassword)
	if err != nil {
		return httpError(err)
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
			AccountID:  &acc.ID,
			Action:     audit.ActionPasswordReset,
			Resource:   audit.ResourceAccount,
			ResourceID: &acc.ID,
			IPAddress:  c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password reset successfully",
	})
}
