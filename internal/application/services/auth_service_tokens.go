package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/auth"
	"github.com/marketbay/storefront-api/internal/core/ports"
)

var (
	errTokenExpired = errors.New("token expired")
	errBadSignature = errors.New("invalid token signature")
	errWrongIssuer  = errors.New("wrong token issuer")
	errMalformed    = errors.New("malformed token")
	errBlacklisted  = errors.New("token revoked")
)

func (s *AuthService) TokenHash(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// GenerateTokens mints a signed access token and a persisted refresh token.
// Claims carry only the account identifier, email and role.
func (s *AuthService) GenerateTokens(ctx context.Context, accountID uuid.UUID, email string, role string) (*auth.AuthTokens, error) {
	now := time.Now()

	claims := &auth.Claims{
		AccountID: accountID,
		Email:     email,
		Role:      account.Role(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    s.jwtConfig.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, ports.NewInternalError("failed to sign access token", err)
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   accountID.String(),
		Issuer:    s.jwtConfig.Issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.RefreshTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	refreshTokenString, err := refreshToken.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, ports.NewInternalError("failed to sign refresh token", err)
	}

	err = s.tokenRepo.StoreRefreshToken(ctx, accountID, refreshTokenString, now.Add(s.jwtConfig.RefreshTokenTTL))
	if err != nil {
		return nil, ports.NewStorageError(err)
	}

	return &auth.AuthTokens{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.jwtConfig.AccessTokenTTL.Seconds()),
	}, nil
}

// ValidateToken verifies signature, issuer and expiry. The external outcome is
// a single invalid-token kind; the wrapped cause distinguishes expiry from a
// bad signature or wrong issuer for logging and retry decisions.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithIssuer(s.jwtConfig.Issuer))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ports.NewInvalidTokenError(errTokenExpired)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ports.NewInvalidTokenError(errBadSignature)
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ports.NewInvalidTokenError(errWrongIssuer)
		default:
			return nil, ports.NewInvalidTokenError(errMalformed)
		}
	}

	if !token.Valid {
		return nil, ports.NewInvalidTokenError(errMalformed)
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, ports.NewInvalidTokenError(errMalformed)
	}

	isBlacklisted, err := s.tokenRepo.IsTokenBlacklisted(ctx, tokenString)
	if err != nil {
		return nil, ports.NewStorageError(err)
	}

	if isBlacklisted {
		return nil, ports.NewInvalidTokenError(errBlacklisted)
	}

	return claims, nil
}
