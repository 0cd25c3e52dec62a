package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	FirstName     string     `json:"first_name" db:"first_name"`
	LastName      string     `json:"last_name" db:"last_name"`
	Role          Role       `json:"role" db:"role"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	IsDeleted     bool       `json:"-" db:"is_deleted"`
	LastLoginAt   *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleGuide Role = "guide"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleAdmin:
		return true
	default:
		return false
	}
}

// NormalizeEmail canonicalizes an email for storage and comparison.
// Uniqueness and the admin allow-list are both case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterRequest represents the request to register a new account
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=40"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// UpdateProfileRequest represents the request to update profile fields.
// The password is never updated through this path; secret changes go
// through the explicit reset / change-password operations.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// ChangePasswordRequest represents the request to change the password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=40"`
}

// CodeFlow distinguishes the two independent single-use code flows.
// Codes from one flow are never valid in the other.
type CodeFlow string

const (
	FlowEmailVerification CodeFlow = "email_verification"
	FlowPasswordReset     CodeFlow = "password_reset"
)

func (f CodeFlow) IsValid() bool {
	return f == FlowEmailVerification || f == FlowPasswordReset
}

// ActionCode is a single-use, time-bounded code bound to one account and one flow.
type ActionCode struct {
	AccountID uuid.UUID `json:"account_id"`
	Flow      CodeFlow  `json:"flow"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the code has passed its expiry.
func (c *ActionCode) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// VerifyEmailRequest represents the request to complete email verification
type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required"`
}

// ForgotPasswordRequest represents the request to start a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request to complete a password reset
type ResetPasswordRequest struct {
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=40"`
}
