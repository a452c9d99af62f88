package service

import (
	"context"
	"fmt"

	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/pkg/apperror"

	"github.com/rs/zerolog"
)

// SettingsServiceImpl implements ports.SettingsService.
type SettingsServiceImpl struct {
	repo ports.SettingsRepository
	log  zerolog.Logger
}

// NewSettingsService creates a new SettingsServiceImpl.
func NewSettingsService(repo ports.SettingsRepository, log zerolog.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{repo: repo, log: log}
}

// Get returns one tenant's settings.
func (s *SettingsServiceImpl) Get(ctx context.Context, memberID string) (*domain.TenantSettings, error) {
	if memberID == "" {
		return nil, apperror.ErrMemberIDRequired()
	}

	settings, err := s.repo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load settings: %w", err))
	}
	if settings == nil {
		return nil, apperror.ErrSettingsNotFound()
	}
	return settings, nil
}

// Create registers a tenant. The secret code is generated when the
// caller did not supply one.
func (s *SettingsServiceImpl) Create(ctx context.Context, req ports.CreateSettingsRequest) (*ports.SettingsCreated, error) {
	if req.MemberID == "" {
		return nil, apperror.ErrMemberIDRequired()
	}

	existing, err := s.repo.GetByMemberID(ctx, req.MemberID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check settings: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrSettingsExist()
	}

	secretCode := req.SecretCode
	if secretCode == "" {
		secretCode = domain.NewSecretCode()
	}

	created, err := s.repo.Create(ctx, &domain.TenantSettings{
		MemberID:        req.MemberID,
		SecretCode:      secretCode,
		GatewayLogin:    req.Update.GatewayLogin,
		GatewayPassword: req.Update.GatewayPassword,
		GatewayKassaID:  req.Update.GatewayKassaID,
		PaymentObject:   req.Update.PaymentObject,
		PaymentMethod:   req.Update.PaymentMethod,
		ReceiptEmail:    req.Update.ReceiptEmail,
		VATFull:         req.Update.VATFull,
		VATShipment:     req.Update.VATShipment,
		VATOrder:        req.Update.VATOrder,
		CompanyEmail:    req.Update.CompanyEmail,
		CompanySNO:      req.Update.CompanySNO,
		CompanyINN:      req.Update.CompanyINN,
		CompanyAddress:  req.Update.CompanyAddress,
		WebhookURL:      req.Update.WebhookURL,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create settings: %w", err))
	}

	s.log.Info().Str("member_id", created.MemberID).Msg("tenant settings created")
	return &ports.SettingsCreated{
		ID:         created.ID,
		MemberID:   created.MemberID,
		SecretCode: created.SecretCode,
	}, nil
}

// Update applies a partial settings change. Omitted fields keep their
// stored values.
func (s *SettingsServiceImpl) Update(ctx context.Context, memberID string, upd domain.SettingsUpdate) error {
	if memberID == "" {
		return apperror.ErrMemberIDRequired()
	}

	updated, err := s.repo.Update(ctx, memberID, upd)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("update settings: %w", err))
	}
	if !updated {
		return apperror.ErrSettingsNotFound()
	}

	s.log.Info().Str("member_id", memberID).Msg("tenant settings updated")
	return nil
}
