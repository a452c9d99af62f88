package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/internal/monitoring"
	"fiscal-payment-bridge/pkg/apperror"

	"github.com/rs/zerolog"
)

// PaymentConfig carries the tunables the payment flow needs.
type PaymentConfig struct {
	// PublicURL is the externally reachable base of this service,
	// embedded into the callback URL handed to the gateway.
	PublicURL      string
	AuthTimeout    time.Duration
	PaymentTimeout time.Duration
	TokenTTL       time.Duration
}

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	settingsRepo ports.SettingsRepository
	billRepo     ports.BillRepository
	logRepo      ports.IntegrationLogRepository
	tokenCache   ports.TokenCache
	gateway      ports.GatewayClient
	cfg          PaymentConfig
	log          zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	settingsRepo ports.SettingsRepository,
	billRepo ports.BillRepository,
	logRepo ports.IntegrationLogRepository,
	tokenCache ports.TokenCache,
	gateway ports.GatewayClient,
	cfg PaymentConfig,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		settingsRepo: settingsRepo,
		billRepo:     billRepo,
		logRepo:      logRepo,
		tokenCache:   tokenCache,
		gateway:      gateway,
		cfg:          cfg,
		log:          log,
	}
}

// CreatePayment runs the payment-initiation flow: validate the caller,
// queue the payment with the fiscal gateway and record a pending bill.
func (s *PaymentServiceImpl) CreatePayment(ctx context.Context, req ports.CreatePaymentRequest) (*ports.CreatePaymentResult, error) {
	s.sweepOldLogs(ctx)

	if req.MemberID == "" || req.PaymentID == 0 || req.DealID == 0 || req.SecretCode == "" || req.Amount <= 0 {
		monitoring.PaymentsCreated.WithLabelValues("validation_error").Inc()
		return nil, apperror.ErrMissingFields()
	}

	settings, err := s.settingsRepo.GetByMemberID(ctx, req.MemberID)
	if err != nil {
		monitoring.PaymentsCreated.WithLabelValues("internal_error").Inc()
		return nil, apperror.InternalError(fmt.Errorf("load settings: %w", err))
	}
	if settings == nil {
		monitoring.PaymentsCreated.WithLabelValues("validation_error").Inc()
		return nil, apperror.ErrTenantNotFound()
	}
	if settings.SecretCode != "" && settings.SecretCode != req.SecretCode {
		monitoring.PaymentsCreated.WithLabelValues("validation_error").Inc()
		return nil, apperror.ErrInvalidSecretCode()
	}

	externalID := domain.NewExternalID()
	secret := domain.NewBillSecret()
	callbackURL := fmt.Sprintf("%s/api/v1/callback?external_id=%s&secret=%s",
		s.cfg.PublicURL, externalID, secret)

	token, err := s.acquireToken(ctx, settings)
	if err != nil {
		monitoring.PaymentsCreated.WithLabelValues("upstream_error").Inc()
		return nil, apperror.ErrGatewayAuth(err)
	}

	gwReq := ports.GatewayPaymentRequest{
		KassaID:     deref(settings.GatewayKassaID),
		Token:       token,
		ExternalID:  externalID,
		Amount:      req.Amount,
		Description: fmt.Sprintf("Оплата по сделке #%d", req.DealID),
		Receipt:     s.buildReceipt(settings, req),
		CallbackURL: callbackURL,
	}

	s.auditGatewayRequest(ctx, req, externalID, gwReq)

	start := time.Now()
	gwCtx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	defer cancel()
	result, err := s.gateway.CreatePayment(gwCtx, gwReq)
	monitoring.GatewayRequestDuration.WithLabelValues("create_payment").Observe(time.Since(start).Seconds())
	if err != nil {
		s.auditGatewayResponse(ctx, req, externalID, "", err)
		monitoring.PaymentsCreated.WithLabelValues("upstream_error").Inc()
		return nil, apperror.ErrGatewayRequest(err)
	}
	s.auditGatewayResponse(ctx, req, externalID, result.PaymentURL, nil)

	billID, err := s.billRepo.Create(ctx, &domain.Bill{
		MemberID:    req.MemberID,
		PaymentID:   req.PaymentID,
		PaySystemID: req.PaySystemID,
		DealID:      req.DealID,
		ExternalID:  externalID,
		Secret:      secret,
		Status:      domain.BillStatusPending,
	})
	if err != nil {
		monitoring.PaymentsCreated.WithLabelValues("internal_error").Inc()
		return nil, apperror.InternalError(fmt.Errorf("store bill: %w", err))
	}

	s.log.Info().
		Str("member_id", req.MemberID).
		Str("external_id", externalID).
		Int64("bill_id", billID).
		Msg("payment queued")
	monitoring.PaymentsCreated.WithLabelValues("success").Inc()

	return &ports.CreatePaymentResult{
		PaymentURL: result.PaymentURL,
		PaymentID:  result.PaymentID,
		ExternalID: externalID,
		BillID:     billID,
	}, nil
}

// acquireToken resolves the gateway token: a token stored on the
// settings row wins, then the redis cache, then a fresh login. Fresh
// tokens are cached best effort.
func (s *PaymentServiceImpl) acquireToken(ctx context.Context, settings *domain.TenantSettings) (string, error) {
	if t := deref(settings.GatewayToken); t != "" {
		return t, nil
	}

	cached, err := s.tokenCache.Get(ctx, settings.MemberID)
	if err != nil {
		s.log.Warn().Err(err).Str("member_id", settings.MemberID).Msg("token cache read failed")
	}
	if cached != "" {
		return cached, nil
	}

	login := deref(settings.GatewayLogin)
	password := deref(settings.GatewayPassword)
	if login == "" || password == "" {
		return "", fmt.Errorf("gateway credentials not configured for member %s", settings.MemberID)
	}

	authCtx, cancel := context.WithTimeout(ctx, s.cfg.AuthTimeout)
	defer cancel()

	start := time.Now()
	token, err := s.gateway.Login(authCtx, login, password)
	monitoring.GatewayRequestDuration.WithLabelValues("login").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}

	if err := s.tokenCache.Set(ctx, settings.MemberID, token, s.cfg.TokenTTL); err != nil {
		s.log.Warn().Err(err).Str("member_id", settings.MemberID).Msg("token cache write failed")
	}
	return token, nil
}

func (s *PaymentServiceImpl) buildReceipt(settings *domain.TenantSettings, req ports.CreatePaymentRequest) ports.Receipt {
	email := req.ClientEmail
	if email == "" {
		email = deref(settings.ReceiptEmail)
	}
	if email == "" {
		email = deref(settings.CompanyEmail)
	}

	name := fmt.Sprintf("Оплата по сделке #%d", req.DealID)
	return ports.Receipt{
		Email:          email,
		Taxation:       settings.Taxation(),
		INN:            deref(settings.CompanyINN),
		PaymentAddress: deref(settings.CompanyAddress),
		Items: []ports.ReceiptItem{{
			Name:          name,
			Price:         req.Amount,
			Quantity:      1,
			Sum:           req.Amount,
			Tax:           settings.ItemVAT(),
			PaymentMethod: settings.ItemPaymentMethod(),
			PaymentObject: settings.ItemPaymentObject(),
		}},
	}
}

// sweepOldLogs opportunistically enforces log retention. Failures never
// surface to the caller.
func (s *PaymentServiceImpl) sweepOldLogs(ctx context.Context) {
	deleted, err := s.logRepo.DeleteOlderThan(ctx, domain.LogRetention)
	if err != nil {
		s.log.Warn().Err(err).Msg("log retention sweep failed")
		return
	}
	if deleted > 0 {
		s.log.Debug().Int64("deleted", deleted).Msg("old integration logs removed")
	}
}

func (s *PaymentServiceImpl) auditGatewayRequest(ctx context.Context, req ports.CreatePaymentRequest, externalID string, gwReq ports.GatewayPaymentRequest) {
	// Token stays out of the audit record.
	data, _ := json.Marshal(map[string]any{
		"kassaid":      gwReq.KassaID,
		"external_id":  gwReq.ExternalID,
		"amount":       gwReq.Amount,
		"description":  gwReq.Description,
		"receipt":      gwReq.Receipt,
		"callback_url": gwReq.CallbackURL,
	})

	s.appendLog(ctx, &domain.IntegrationLog{
		LogType:     domain.LogTypeGatewayRequest,
		MemberID:    req.MemberID,
		DealID:      strconv.FormatInt(req.DealID, 10),
		ExternalID:  externalID,
		RequestData: string(data),
		Status:      "sent",
	})
}

func (s *PaymentServiceImpl) auditGatewayResponse(ctx context.Context, req ports.CreatePaymentRequest, externalID, paymentURL string, gwErr error) {
	entry := &domain.IntegrationLog{
		LogType:    domain.LogTypeGatewayResponse,
		MemberID:   req.MemberID,
		DealID:     strconv.FormatInt(req.DealID, 10),
		ExternalID: externalID,
	}
	if gwErr != nil {
		msg := gwErr.Error()
		entry.Status = "error"
		entry.ErrorMessage = &msg
	} else {
		entry.Status = "success"
		entry.ResponseData = fmt.Sprintf(`{"payment_url":%q}`, paymentURL)
	}
	s.appendLog(ctx, entry)
}

func (s *PaymentServiceImpl) appendLog(ctx context.Context, entry *domain.IntegrationLog) {
	if err := s.logRepo.Append(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("log_type", string(entry.LogType)).Msg("audit log write failed")
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
