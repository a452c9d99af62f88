package service

import (
	"context"
	"fmt"

	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/pkg/apperror"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 100
)

// LogServiceImpl implements ports.LogService.
type LogServiceImpl struct {
	repo ports.IntegrationLogRepository
}

// NewLogService creates a new LogServiceImpl.
func NewLogService(repo ports.IntegrationLogRepository) *LogServiceImpl {
	return &LogServiceImpl{repo: repo}
}

// List returns a tenant's integration logs, newest first. The limit is
// clamped to a page-sized window.
func (s *LogServiceImpl) List(ctx context.Context, params ports.LogListParams) ([]domain.IntegrationLog, error) {
	if params.MemberID == "" {
		return nil, apperror.ErrMemberIDRequired()
	}
	if params.Limit <= 0 {
		params.Limit = defaultLogLimit
	}
	if params.Limit > maxLogLimit {
		params.Limit = maxLogLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	logs, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list logs: %w", err))
	}
	return logs, nil
}
