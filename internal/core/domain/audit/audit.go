package audit

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	AccountID  *uuid.UUID `json:"account_id" db:"account_id"`
	Action     string     `json:"action" db:"action"`
	Resource   string     `json:"resource" db:"resource"`
	ResourceID *uuid.UUID `json:"resource_id" db:"resource_id"`
	Details    any        `json:"details" db:"details"`
	IPAddress  string     `json:"ip_address" db:"ip_address"`
	UserAgent  string     `json:"user_agent" db:"user_agent"`
	Timestamp  time.Time  `json:"timestamp" db:"timestamp"`
}

type AuditAction string

const (
	ActionRegister      AuditAction = "register"
	ActionLogin         AuditAction = "login"
	ActionLogout        AuditAction = "logout"
	ActionVerifyEmail   AuditAction = "verify_email"
	ActionPasswordReset AuditAction = "password_reset"
	ActionUpdate        AuditAction = "update"
	ActionDelete        AuditAction = "delete"
)

type AuditResource string

const (
	ResourceAccount AuditResource = "account"
	ResourceCart    AuditResource = "cart"
	ResourceToken   AuditResource = "token"
)

// CreateAuditLogRequest represents the request to create an audit log entry
type CreateAuditLogRequest struct {
	AccountID  *uuid.UUID    `json:"account_id,omitempty"`
	Action     AuditAction   `json:"action"`
	Resource   AuditResource `json:"resource"`
	ResourceID *uuid.UUID    `json:"resource_id,omitempty"`
	Details    any           `json:"details,omitempty"`
	IPAddress  string        `json:"ip_address"`
	UserAgent  string        `json:"user_agent"`
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	AccountID *uuid.UUID   `json:"account_id,omitempty"`
	Action    *AuditAction `json:"action,omitempty"`
	From      *time.Time   `json:"from,omitempty"`
	To        *time.Time   `json:"to,omitempty"`
	Limit     int          `json:"limit"`
	Offset    int          `json:"offset"`
}
