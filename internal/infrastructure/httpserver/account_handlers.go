package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/audit"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/infrastructure/httpserver/helpers"
)

// Account handlers
func (s *Server) getOwnProfile(c echo.Context) error {
	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	acc, err := s.accountSvc.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		return httpError(err)
	}

	return c.JSON(http.StatusOK, acc)
}

func (s *Server) updateOwnProfile(c echo.Context) error {
	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	var req account.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	acc, err := s.accountSvc.UpdateProfile(c.Request().Context(), accountID, &req)
	if err != nil {
		return httpError(err)
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
			AccountID:  &accountID,
			Action:     audit.ActionUpdate,
			Resource:   audit.ResourceAccount,
			ResourceID: &accountID,
			IPAddress:  c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
		})
	}

	return c.JSON(http.StatusOK, acc)
}

func (s *Server) deleteOwnAccount(c echo.Context) error {
	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	if err := s.accountSvc.DeleteAccount(c.Request().Context(), accountID); err != nil {
		return httpError(err)
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
			AccountID:  &accountID,
			Action:     audit.ActionDelete,
			Resource:   audit.ResourceAccount,
			ResourceID: &accountID,
			IPAddress:  c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
		})
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) changePassword(c echo.Context) error {
	accountID, err := helpers.GetAccountIDFromContext(c)
	if err != nil {
		return err
	}

	var req account.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "old_password and new_password are required")
	}

	if err := s.accountSvc.ChangePassword(c.Request().Context(), accountID, req.OldPassword, req.NewPassword); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}

// listAccounts is admin only
func (s *Server) listAccounts(c echo.Context) error {
	limit := 50
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	accounts, total, err := s.accountSvc.ListAccounts(c.Request().Context(), limit, offset)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// getAuditLogs is admin only
func (s *Server) getAuditLogs(c echo.Context) error {
	filter := &audit.AuditLogFilter{Limit: 50}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}
	if v := c.QueryParam("action"); v != "" {
		action := audit.AuditAction(v)
		filter.Action = &action
	}

	logs, err := s.auditSvc.GetLogs(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"count": len(logs),
	})
}
