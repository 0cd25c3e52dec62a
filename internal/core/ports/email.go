package ports

import (
	"context"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendVerificationEmail(ctx context.Context, email, code, name string) error
	SendPasswordResetEmail(ctx context.Context, email, code, name string) error
}

// EmailTemplate represents email template data
type EmailTemplate struct {
	Subject string
	Body    string
	IsHTML  bool
}
