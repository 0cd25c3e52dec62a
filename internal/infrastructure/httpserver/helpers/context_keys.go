package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/auth"
)

type ctxKey string

const (
	keyAccountID    ctxKey = "account_id"
	keyAccountRole  ctxKey = "account_role"
	keyAccountEmail ctxKey = "account_email"
	keyClaims       ctxKey = "claims"
)

func SetAccountID(c echo.Context, id uuid.UUID) { c.Set(string(keyAccountID), id) }
func GetAccountIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keyAccountID))
	id, ok := v.(uuid.UUID)
	return id, ok
}

func SetAccountRole(c echo.Context, r account.Role) { c.Set(string(keyAccountRole), r) }
func GetAccountRoleRaw(c echo.Context) (account.Role, bool) {
	v := c.Get(string(keyAccountRole))
	r, ok := v.(account.Role)
	return r, ok
}

func SetAccountEmail(c echo.Context, email string) { c.Set(string(keyAccountEmail), email) }
func GetAccountEmailRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyAccountEmail))
	s, ok := v.(string)
	return s, ok
}

func SetClaims(c echo.Context, claims *auth.Claims) { c.Set(string(keyClaims), claims) }
func GetClaimsRaw(c echo.Context) (*auth.Claims, bool) {
	v := c.Get(string(keyClaims))
	cl, ok := v.(*auth.Claims)
	return cl, ok
}
