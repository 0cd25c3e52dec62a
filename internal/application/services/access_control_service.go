package services

import (
	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/auth"
	"github.com/marketbay/storefront-api/internal/core/ports"
)

// AccessControlService implements ports.AccessControlService as a pure
// decision over verified claims plus a fixed admin email allow-list.
type AccessControlService struct {
	adminEmails map[string]struct{}
}

// NewAccessControlService builds the gate from the configured allow-list.
// Emails are compared case-insensitively, matching email normalization.
func NewAccessControlService(adminEmails []string) ports.AccessControlService {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		allowed[account.NormalizeEmail(e)] = struct{}{}
	}
	return &AccessControlService{adminEmails: allowed}
}

// IsAdmin reports whether claims carry the admin role AND the email is on the
// allow-list. A compromised role flag alone never grants admin.
func (a *AccessControlService) IsAdmin(claims *auth.Claims) bool {
	if claims == nil || claims.Role != account.RoleAdmin {
		return false
	}
	_, ok := a.adminEmails[account.NormalizeEmail(claims.Email)]
	return ok
}

// RequireRole returns nil if the identity may perform an operation requiring
// the given role, or a forbidden error. Admin identities satisfy any required
// role; requiring admin additionally checks the allow-list.
func (a *AccessControlService) RequireRole(claims *auth.Claims, required account.Role) error {
	if claims == nil {
		return ports.NewForbiddenError("no identity")
	}
	if !required.IsValid() {
		return ports.NewForbiddenError("unknown required role")
	}

	if required == account.RoleAdmin {
		if a.IsAdmin(claims) {
			return nil
		}
		return ports.NewForbiddenError("administrator access required")
	}

	if claims.Role == required || a.IsAdmin(claims) {
		return nil
	}

	return ports.NewForbiddenError("insufficient role")
}
