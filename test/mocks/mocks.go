package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marketbay/storefront-api/internal/core/domain/account"
	"github.com/marketbay/storefront-api/internal/core/domain/audit"
	"github.com/marketbay/storefront-api/internal/core/domain/cart"
	"github.com/marketbay/storefront-api/internal/core/ports"
)

// AccountRepositoryMock is a lightweight mock for AccountRepository
type AccountRepositoryMock struct {
	CreateFn     func(ctx context.Context, a *account.Account) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByEmailFn func(ctx context.Context, email string) (*account.Account, error)
	UpdateFn     func(ctx context.Context, a *account.Account) error
	SoftDeleteFn func(ctx context.Context, id uuid.UUID) error
	ListFn       func(ctx context.Context, limit, offset int) ([]*account.Account, error)
	CountFn      func(ctx context.Context) (int, error)
}

func (m *AccountRepositoryMock) Create(ctx context.Context, a *account.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}
func (m *AccountRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("account: %w", ports.ErrNotFound)
}
func (m *AccountRepositoryMock) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("account: %w", ports.ErrNotFound)
}
func (m *AccountRepositoryMock) Update(ctx context.Context, a *account.Account) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, a)
	}
	return nil
}
func (m *AccountRepositoryMock) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id)
	}
	return nil
}
func (m *AccountRepositoryMock) List(ctx context.Context, limit, offset int) ([]*account.Account, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, limit, offset)
	}
	return nil, nil
}
func (m *AccountRepositoryMock) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}

// TokenRepositoryMock is a lightweight mock for TokenRepository
type TokenRepositoryMock struct {
	StoreRefreshTokenFn   func(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshTokenFn     func(ctx context.Context, token string) (*ports.RefreshToken, error)
	DeleteRefreshTokenFn  func(ctx context.Context, token string) error
	DeleteAccountTokensFn func(ctx context.Context, accountID uuid.UUID) error
	IsTokenBlacklistedFn  func(ctx context.Context, token string) (bool, error)
	BlacklistTokenFn      func(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error

	DeleteExpiredRefreshTokensFn     func(ctx context.Context) error
	DeleteExpiredBlacklistedTokensFn func(ctx context.Context) error
}

func (m *TokenRepositoryMock) StoreRefreshToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	if m.StoreRefreshTokenFn != nil {
		return m.StoreRefreshTokenFn(ctx, accountID, token, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	if m.GetRefreshTokenFn != nil {
		return m.GetRefreshTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("refresh token: %w", ports.ErrNotFound)
}
func (m *TokenRepositoryMock) DeleteRefreshToken(ctx context.Context, token string) error {
	if m.DeleteRefreshTokenFn != nil {
		return m.DeleteRefreshTokenFn(ctx, token)
	}
	return nil
}
func (m *TokenRepositoryMock) DeleteAccountTokens(ctx context.Context, accountID uuid.UUID) error {
	if m.DeleteAccountTokensFn != nil {
		return m.DeleteAccountTokensFn(ctx, accountID)
	}
	return nil
}
func (m *TokenRepositoryMock) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if m.IsTokenBlacklistedFn != nil {
		return m.IsTokenBlacklistedFn(ctx, token)
	}
	return false, nil
}
func (m *TokenRepositoryMock) BlacklistToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	if m.BlacklistTokenFn != nil {
		return m.BlacklistTokenFn(ctx, accountID, token, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) DeleteExpiredRefreshTokens(ctx context.Context) error {
	if m.DeleteExpiredRefreshTokensFn != nil {
		return m.DeleteExpiredRefreshTokensFn(ctx)
	}
	return nil
}
func (m *TokenRepositoryMock) DeleteExpiredBlacklistedTokens(ctx context.Context) error {
	if m.DeleteExpiredBlacklistedTokensFn != nil {
		return m.DeleteExpiredBlacklistedTokensFn(ctx)
	}
	return nil
}

// ActionCodeRepositoryMock is an in-memory mock for ActionCodeRepository that
// honors the replace and consume-once contracts.
type ActionCodeRepositoryMock struct {
	ReplaceFn          func(ctx context.Context, code *account.ActionCode, ttl time.Duration) error
	ConsumeFn          func(ctx context.Context, flow account.CodeFlow, code string) (*account.ActionCode, error)
	DeleteForAccountFn func(ctx context.Context, flow account.CodeFlow, accountID uuid.UUID) error

	codes map[string]*account.ActionCode
}

func key(flow account.CodeFlow, code string) string { return string(flow) + ":" + code }

func (m *ActionCodeRepositoryMock) Replace(ctx context.Context, code *account.ActionCode, ttl time.Duration) error {
	if m.ReplaceFn != nil {
		return m.ReplaceFn(ctx, code, ttl)
	}
	if m.codes == nil {
		m.codes = make(map[string]*account.ActionCode)
	}
	for k, v := range m.codes {
		if v.AccountID == code.AccountID && v.Flow == code.Flow {
			delete(m.codes, k)
		}
	}
	m.codes[key(code.Flow, code.Code)] = code
	return nil
}
func (m *ActionCodeRepositoryMock) Consume(ctx context.Context, flow account.CodeFlow, code string) (*account.ActionCode, error) {
	if m.ConsumeFn != nil {
		return m.ConsumeFn(ctx, flow, code)
	}
	c, ok := m.codes[key(flow, code)]
	if !ok || c.IsExpired() {
		return nil, fmt.Errorf("action code not found or expired: %w", ports.ErrNotFound)
	}
	delete(m.codes, key(flow, code))
	return c, nil
}
func (m *ActionCodeRepositoryMock) DeleteForAccount(ctx context.Context, flow account.CodeFlow, accountID uuid.UUID) error {
	if m.DeleteForAccountFn != nil {
		return m.DeleteForAccountFn(ctx, flow, accountID)
	}
	for k, v := range m.codes {
		if v.AccountID == accountID && v.Flow == flow {
			delete(m.codes, k)
		}
	}
	return nil
}

// CartRepositoryMock is an in-memory mock for CartRepository
type CartRepositoryMock struct {
	GetFn        func(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error)
	AddItemFn    func(ctx context.Context, accountID uuid.UUID, productRef string, quantity int) (*cart.Cart, error)
	RemoveItemFn func(ctx context.Context, accountID uuid.UUID, productRef string) (*cart.Cart, error)
	ClearFn      func(ctx context.Context, accountID uuid.UUID) error

	carts map[uuid.UUID]cart.Cart
}

func (m *CartRepositoryMock) cartFor(accountID uuid.UUID) cart.Cart {
	if m.carts == nil {
		m.carts = make(map[uuid.UUID]cart.Cart)
	}
	ct, ok := m.carts[accountID]
	if !ok {
		ct = cart.Cart{AccountID: accountID}
	}
	return ct
}

func (m *CartRepositoryMock) Get(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, accountID)
	}
	ct := m.cartFor(accountID)
	return &ct, nil
}
func (m *CartRepositoryMock) AddItem(ctx context.Context, accountID uuid.UUID, productRef string, quantity int) (*cart.Cart, error) {
	if m.AddItemFn != nil {
		return m.AddItemFn(ctx, accountID, productRef, quantity)
	}
	ct := m.cartFor(accountID).Add(productRef, quantity)
	m.carts[accountID] = ct
	return &ct, nil
}
func (m *CartRepositoryMock) RemoveItem(ctx context.Context, accountID uuid.UUID, productRef string) (*cart.Cart, error) {
	if m.RemoveItemFn != nil {
		return m.RemoveItemFn(ctx, accountID, productRef)
	}
	ct := m.cartFor(accountID).Remove(productRef)
	m.carts[accountID] = ct
	return &ct, nil
}
func (m *CartRepositoryMock) Clear(ctx context.Context, accountID uuid.UUID) error {
	if m.ClearFn != nil {
		return m.ClearFn(ctx, accountID)
	}
	if m.carts != nil {
		delete(m.carts, accountID)
	}
	return nil
}

// SentEmail captures one delivery made through the EmailServiceMock.
type SentEmail struct {
	Email string
	Code  string
	Name  string
}

// EmailServiceMock records sent emails. Set FailSends to simulate a delivery
// provider outage.
type EmailServiceMock struct {
	SendVerificationEmailFn  func(ctx context.Context, email, code, name string) error
	SendPasswordResetEmailFn func(ctx context.Context, email, code, name string) error

	FailSends         bool
	VerificationSent  []SentEmail
	PasswordResetSent []SentEmail
}

func (m *EmailServiceMock) SendVerificationEmail(ctx context.Context, email, code, name string) error {
	if m.SendVerificationEmailFn != nil {
		return m.SendVerificationEmailFn(ctx, email, code, name)
	}
	if m.FailSends {
		return fmt.Errorf("email provider unavailable")
	}
	m.VerificationSent = append(m.VerificationSent, SentEmail{Email: email, Code: code, Name: name})
	return nil
}
func (m *EmailServiceMock) SendPasswordResetEmail(ctx context.Context, email, code, name string) error {
	if m.SendPasswordResetEmailFn != nil {
		return m.SendPasswordResetEmailFn(ctx, email, code, name)
	}
	if m.FailSends {
		return fmt.Errorf("email provider unavailable")
	}
	m.PasswordResetSent = append(m.PasswordResetSent, SentEmail{Email: email, Code: code, Name: name})
	return nil
}

// AuditRepositoryMock records audit log entries
type AuditRepositoryMock struct {
	CreateFn func(ctx context.Context, log *audit.AuditLog) error
	ListFn   func(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error)

	Created []*audit.AuditLog
}

func (m *AuditRepositoryMock) Create(ctx context.Context, log *audit.AuditLog) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, log)
	}
	m.Created = append(m.Created, log)
	return nil
}
func (m *AuditRepositoryMock) List(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return m.Created, nil
}

// RateLimitRepositoryMock counts increments per account
type RateLimitRepositoryMock struct {
	IncrementWindowFn func(ctx context.Context, accountID uuid.UUID, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)

	counts map[uuid.UUID]int
}

func (m *RateLimitRepositoryMock) IncrementWindow(ctx context.Context, accountID uuid.UUID, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, accountID, window, keyPrefix, ttl)
	}
	if m.counts == nil {
		m.counts = make(map[uuid.UUID]int)
	}
	m.counts[accountID]++
	return m.counts[accountID], time.Now().Truncate(window), nil
}
