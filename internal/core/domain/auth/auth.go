package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
)

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthTokens represents the authentication token pair
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims represents JWT claims. Only the account identifier, email and role
// are embedded; the secret or its hash never leaves the credential store.
type Claims struct {
	AccountID uuid.UUID    `json:"account_id"`
	Email     string       `json:"email"`
	Role      account.Role `json:"role"`

	jwt.RegisteredClaims
}

// TokenType represents the type of token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)
