package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/domain/audit"
	"github.com/marketbay/storefront-api/internal/core/ports"
)

type AuditService struct {
	repo   ports.AuditRepository
	logger *logrus.Logger
}

func NewAuditService(repo ports.AuditRepository, logger *logrus.Logger) ports.AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

func (s *AuditService) LogAction(ctx context.Context, req *audit.CreateAuditLogRequest) error {
	auditLog := &audit.AuditLog{
		ID:         uuid.New(),
		AccountID:  req.AccountID,
		Action:     string(req.Action),
		Resource:   string(req.Resource),
		ResourceID: req.ResourceID,
		Details:    req.Details,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		Timestamp:  time.Now(),
	}

	if err := s.repo.Create(ctx, auditLog); err != nil {
		// Audit failures never fail the audited operation
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"action": req.Action, "resource": req.Resource}).WithError(err).Error("failed to write audit log")
		}
		return err
	}

	return nil
}

func (s *AuditService) GetLogs(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	return s.repo.List(ctx, filter)
}
