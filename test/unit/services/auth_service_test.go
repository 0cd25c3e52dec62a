package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	config "github.com/marketbay/storefront-api/configs"
	impl "github.com/marketbay/storefront-api/internal/application/services"
	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/auth"
	"github.com/marketbay/storefront-api/internal/core/ports"
	"github.com/marketbay/storefront-api/internal/utils"
	"github.com/marketbay/storefront-api/test/mocks"
)

func jwtConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "storefront-api",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}
}

func testAccount(t *testing.T, hasher ports.PasswordHasher, password string) *account.Account {
	t.Helper()
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	return &account.Account{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: hash,
		Role:         account.RoleUser,
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	acc := testAccount(t, hasher, "correct-horse")
	repo := &mocks.AccountRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*account.Account, error) {
		return acc, nil
	}}

	svc := impl.NewAuthService(repo, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)
	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "shopper@example.com", Password: "wrong"})
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindInvalidCredentials))
}

func TestLogin_UnknownEmailSameFailure(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	acc := testAccount(t, hasher, "correct-horse")
	repo := &mocks.AccountRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*account.Account, error) {
		if email == acc.Email {
			return acc, nil
		}
		return nil, ports.ErrNotFound
	}}

	svc := impl.NewAuthService(repo, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)

	_, errUnknown := svc.Login(context.Background(), &auth.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	_, errWrongPass := svc.Login(context.Background(), &auth.LoginRequest{Email: acc.Email, Password: "wrong"})

	// Unknown email and wrong password must be indistinguishable to callers
	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	require.Equal(t, errUnknown.Error(), errWrongPass.Error())
	require.Equal(t, ports.KindOf(errUnknown), ports.KindOf(errWrongPass))
}

func TestLogin_NormalizesEmail(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	acc := testAccount(t, hasher, "correct-horse")
	var lookedUp string
	repo := &mocks.AccountRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*account.Account, error) {
		lookedUp = email
		return acc, nil
	}}

	svc := impl.NewAuthService(repo, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)
	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "  Shopper@Example.COM ", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "shopper@example.com", lookedUp)
}

func TestGenerateAndValidateToken_Roundtrip(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	accountID := uuid.New()

	svc := impl.NewAuthService(nil, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)
	tokens, err := svc.GenerateTokens(context.Background(), accountID, "shopper@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Equal(t, int64((15 * time.Minute).Seconds()), tokens.ExpiresIn)

	claims, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, accountID, claims.AccountID)
	require.Equal(t, "shopper@example.com", claims.Email)
	require.Equal(t, account.RoleUser, claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	issuing := impl.NewAuthService(nil, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)
	tokens, err := issuing.GenerateTokens(context.Background(), uuid.New(), "a@b.com", "user")
	require.NoError(t, err)

	otherCfg := jwtConfig()
	otherCfg.Secret = "different-secret"
	validating := impl.NewAuthService(nil, &mocks.TokenRepositoryMock{}, hasher, otherCfg, nil)

	_, err = validating.ValidateToken(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindInvalidToken))
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	issuingCfg := jwtConfig()
	issuingCfg.Issuer = "someone-else"
	issuing := impl.NewAuthService(nil, &mocks.TokenRepositoryMock{}, hasher, issuingCfg, nil)
	tokens, err := issuing.GenerateTokens(context.Background(), uuid.New(), "a@b.com", "user")
	require.NoError(t, err)

	validating := impl.NewAuthService(nil, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)
	_, err = validating.ValidateToken(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindInvalidToken))
}

func TestValidateToken_Expired(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	cfg := jwtConfig()
	cfg.AccessTokenTTL = -time.Minute
	issuing := impl.NewAuthService(nil, &mocks.TokenRepositoryMock{}, hasher, cfg, nil)
	tokens, err := issuing.GenerateTokens(context.Background(), uuid.New(), "a@b.com", "user")
	require.NoError(t, err)

	validating := impl.NewAuthService(nil, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)
	_, err = validating.ValidateToken(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindInvalidToken))
}

func TestValidateToken_Blacklisted(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	tokenRepo := &mocks.TokenRepositoryMock{IsTokenBlacklistedFn: func(ctx context.Context, token string) (bool, error) {
		return true, nil
	}}
	svc := impl.NewAuthService(nil, tokenRepo, hasher, jwtConfig(), nil)
	tokens, err := svc.GenerateTokens(context.Background(), uuid.New(), "a@b.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindInvalidToken))
}

func TestRefreshTokens_OldTokenValidUntilRevoked(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	acc := testAccount(t, hasher, "pw-123456")

	stored := map[string]*ports.RefreshToken{}
	tokenRepo := &mocks.TokenRepositoryMock{
		StoreRefreshTokenFn: func(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
			stored[token] = &ports.RefreshToken{ID: uuid.New(), AccountID: accountID, ExpiresAt: expiresAt}
			return nil
		},
		GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
			rt, ok := stored[token]
			if !ok {
				return nil, ports.ErrNotFound
			}
			return rt, nil
		},
		DeleteAccountTokensFn: func(ctx context.Context, accountID uuid.UUID) error {
			for k := range stored {
				delete(stored, k)
			}
			return nil
		},
	}
	accountRepo := &mocks.AccountRepositoryMock{GetByIDFn: func(ctx context.Context, id uuid.UUID) (*account.Account, error) {
		return acc, nil
	}}

	svc := impl.NewAuthService(accountRepo, tokenRepo, hasher, jwtConfig(), nil)
	first, err := svc.GenerateTokens(context.Background(), acc.ID, acc.Email, "user")
	require.NoError(t, err)

	second, err := svc.RefreshTokens(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old refresh token stays valid after a successful exchange
	_, err = svc.RefreshTokens(context.Background(), first.RefreshToken)
	require.NoError(t, err)

	// Explicit revocation is what kills it
	require.NoError(t, svc.RevokeAccountTokens(context.Background(), acc.ID))
	_, err = svc.RefreshTokens(context.Background(), first.RefreshToken)
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindInvalidToken))
}

func TestRefreshTokens_ExpiredToken(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	tokenRepo := &mocks.TokenRepositoryMock{GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
		return &ports.RefreshToken{ID: uuid.New(), AccountID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}, nil
	}}

	svc := impl.NewAuthService(nil, tokenRepo, hasher, jwtConfig(), nil)
	_, err := svc.RefreshTokens(context.Background(), "stale")
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindInvalidToken))
}

func TestLogin_StorageTimeoutIsNotCredentialFailure(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	repo := &mocks.AccountRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*account.Account, error) {
		return nil, ports.NewStorageError(context.DeadlineExceeded)
	}}

	svc := impl.NewAuthService(repo, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)
	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "shopper@example.com", Password: "correct-horse"})
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindTimeout))
	require.False(t, ports.IsKind(err, ports.KindInvalidCredentials))
}

func TestLogin_StorageOutageIsNotCredentialFailure(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	repo := &mocks.AccountRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*account.Account, error) {
		return nil, ports.NewStorageError(errors.New("connection refused"))
	}}

	svc := impl.NewAuthService(repo, &mocks.TokenRepositoryMock{}, hasher, jwtConfig(), nil)
	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "shopper@example.com", Password: "correct-horse"})
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindStorage))
}

func TestRefreshTokens_StorageFailureIsNotInvalidToken(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	tokenRepo := &mocks.TokenRepositoryMock{GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
		return nil, ports.NewStorageError(errors.New("connection refused"))
	}}

	svc := impl.NewAuthService(nil, tokenRepo, hasher, jwtConfig(), nil)
	_, err := svc.RefreshTokens(context.Background(), "some-token")
	require.Error(t, err)
	require.True(t, ports.IsKind(err, ports.KindStorage))
	require.False(t, ports.IsKind(err, ports.KindInvalidToken))
}

func TestLogout_BlacklistsAndRevokes(t *testing.T) {
	hasher := utils.NewBcryptHasher(4)
	accountID := uuid.New()

	blacklisted := false
	revoked := false
	tokenRepo := &mocks.TokenRepositoryMock{
		BlacklistTokenFn: func(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
			require.Equal(t, accountID, id)
			blacklisted = true
			return nil
		},
		DeleteAccountTokensFn: func(ctx context.Context, id uuid.UUID) error {
			require.Equal(t, accountID, id)
			revoked = true
			return nil
		},
	}

	svc := impl.NewAuthService(nil, tokenRepo, hasher, jwtConfig(), nil)
	require.NoError(t, svc.Logout(context.Background(), accountID, "access-token"))
	require.True(t, blacklisted)
	require.True(t, revoked)
}
