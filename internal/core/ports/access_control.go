package ports

import (
	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/auth"
)

// AccessControlService decides whether a verified identity may perform an
// operation requiring a given role. The decision is pure: no side effects, no
// storage access, safe for concurrent use. Administrator identities must
// additionally appear on the configured email allow-list; the role flag alone
// never grants admin.
type AccessControlService interface {
	RequireRole(claims *auth.Claims, required account.Role) error
	IsAdmin(claims *auth.Claims) bool
}
