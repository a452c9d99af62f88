package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/internal/core/ports/mocks"
	"fiscal-payment-bridge/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentTestDeps struct {
	svc          *PaymentServiceImpl
	settingsRepo *mocks.MockSettingsRepository
	billRepo     *mocks.MockBillRepository
	logRepo      *mocks.MockIntegrationLogRepository
	tokenCache   *mocks.MockTokenCache
	gateway      *mocks.MockGatewayClient
	ctrl         *gomock.Controller
}

func setupPaymentService(t *testing.T) *paymentTestDeps {
	ctrl := gomock.NewController(t)
	d := &paymentTestDeps{
		settingsRepo: mocks.NewMockSettingsRepository(ctrl),
		billRepo:     mocks.NewMockBillRepository(ctrl),
		logRepo:      mocks.NewMockIntegrationLogRepository(ctrl),
		tokenCache:   mocks.NewMockTokenCache(ctrl),
		gateway:      mocks.NewMockGatewayClient(ctrl),
		ctrl:         ctrl,
	}
	d.svc = NewPaymentService(
		d.settingsRepo, d.billRepo, d.logRepo, d.tokenCache, d.gateway,
		PaymentConfig{
			PublicURL:      "https://bridge.example.com",
			AuthTimeout:    10 * time.Second,
			PaymentTimeout: 15 * time.Second,
			TokenTTL:       12 * time.Hour,
		},
		zerolog.Nop(),
	)
	return d
}

// expectSweep matches the retention sweep that opens every request.
func (d *paymentTestDeps) expectSweep() {
	d.logRepo.EXPECT().DeleteOlderThan(gomock.Any(), domain.LogRetention).Return(int64(0), nil)
}

func paymentRequest() ports.CreatePaymentRequest {
	return ports.CreatePaymentRequest{
		MemberID:    "member-1",
		PaymentID:   501,
		PaySystemID: 7,
		DealID:      42,
		SecretCode:  "tenant-secret",
		Amount:      1500.50,
		ClientEmail: "client@example.com",
	}
}

func tenantSettings() *domain.TenantSettings {
	return &domain.TenantSettings{
		ID:              1,
		MemberID:        "member-1",
		SecretCode:      "tenant-secret",
		GatewayLogin:    strPtr("kassa_login"),
		GatewayPassword: strPtr("kassa_pass"),
		GatewayKassaID:  strPtr("kassa-42"),
		CompanyINN:      strPtr("7707083893"),
		CompanyAddress:  strPtr("example.com"),
	}
}

func strPtr(s string) *string { return &s }

// ==================== CreatePayment Tests ====================

func TestPaymentService_CreatePayment_Success(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := paymentRequest()

	d.expectSweep()
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(tenantSettings(), nil)
	d.tokenCache.EXPECT().Get(gomock.Any(), "member-1").Return("", nil)
	d.gateway.EXPECT().Login(gomock.Any(), "kassa_login", "kassa_pass").Return("tok_fresh", nil)
	d.tokenCache.EXPECT().Set(gomock.Any(), "member-1", "tok_fresh", 12*time.Hour).Return(nil)

	var captured ports.GatewayPaymentRequest
	d.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, gwReq ports.GatewayPaymentRequest) (*ports.GatewayPaymentResult, error) {
			captured = gwReq
			return &ports.GatewayPaymentResult{PaymentURL: "https://pay.example.com/p/1", PaymentID: "gw-1"}, nil
		})

	// request + response audit records
	d.logRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	d.billRepo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, b *domain.Bill) (int64, error) {
			assert.Equal(t, "member-1", b.MemberID)
			assert.Equal(t, int64(501), b.PaymentID)
			assert.Equal(t, int64(42), b.DealID)
			assert.Equal(t, domain.BillStatusPending, b.Status)
			assert.True(t, strings.HasPrefix(b.ExternalID, domain.ExternalIDPrefix))
			assert.Len(t, b.Secret, 32)
			return 99, nil
		})

	result, err := d.svc.CreatePayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/p/1", result.PaymentURL)
	assert.Equal(t, "gw-1", result.PaymentID)
	assert.Equal(t, int64(99), result.BillID)
	assert.True(t, strings.HasPrefix(result.ExternalID, domain.ExternalIDPrefix))

	// Gateway payload is derived from settings + request.
	assert.Equal(t, "kassa-42", captured.KassaID)
	assert.Equal(t, "tok_fresh", captured.Token)
	assert.Equal(t, 1500.50, captured.Amount)
	assert.Equal(t, "Оплата по сделке #42", captured.Description)
	assert.Equal(t, "client@example.com", captured.Receipt.Email)
	assert.Equal(t, domain.DefaultTaxation, captured.Receipt.Taxation)
	require.Len(t, captured.Receipt.Items, 1)
	assert.Equal(t, domain.DefaultVAT, captured.Receipt.Items[0].Tax)
	assert.Contains(t, captured.CallbackURL, "https://bridge.example.com/api/v1/callback?external_id="+captured.ExternalID)
	assert.Contains(t, captured.CallbackURL, "&secret=")
}

func TestPaymentService_CreatePayment_MissingFields(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	cases := []struct {
		name   string
		mutate func(*ports.CreatePaymentRequest)
	}{
		{"no member_id", func(r *ports.CreatePaymentRequest) { r.MemberID = "" }},
		{"no payment_id", func(r *ports.CreatePaymentRequest) { r.PaymentID = 0 }},
		{"no deal_id", func(r *ports.CreatePaymentRequest) { r.DealID = 0 }},
		{"no secret_code", func(r *ports.CreatePaymentRequest) { r.SecretCode = "" }},
		{"zero amount", func(r *ports.CreatePaymentRequest) { r.Amount = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d.expectSweep()
			req := paymentRequest()
			tc.mutate(&req)

			_, err := d.svc.CreatePayment(context.Background(), req)
			require.Error(t, err)

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "Missing required fields", appErr.Message)
		})
	}
}

func TestPaymentService_CreatePayment_TenantNotFound(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.expectSweep()
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(nil, nil)

	_, err := d.svc.CreatePayment(ctx, paymentRequest())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "User settings not found", appErr.Message)
}

func TestPaymentService_CreatePayment_InvalidSecret(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.expectSweep()
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(tenantSettings(), nil)

	req := paymentRequest()
	req.SecretCode = "wrong"
	_, err := d.svc.CreatePayment(ctx, req)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid secret code", appErr.Message)
	assert.Equal(t, 403, appErr.HTTPStatus)
}

func TestPaymentService_CreatePayment_TokenFromSettings(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	settings := tenantSettings()
	settings.GatewayToken = strPtr("tok_stored")

	d.expectSweep()
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(settings, nil)
	// No cache lookup and no login when the settings row carries a token.
	d.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, gwReq ports.GatewayPaymentRequest) (*ports.GatewayPaymentResult, error) {
			assert.Equal(t, "tok_stored", gwReq.Token)
			return &ports.GatewayPaymentResult{PaymentURL: "u", PaymentID: "p"}, nil
		})
	d.logRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.billRepo.EXPECT().Create(ctx, gomock.Any()).Return(int64(1), nil)

	_, err := d.svc.CreatePayment(ctx, paymentRequest())
	require.NoError(t, err)
}

func TestPaymentService_CreatePayment_TokenFromCache(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.expectSweep()
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(tenantSettings(), nil)
	d.tokenCache.EXPECT().Get(gomock.Any(), "member-1").Return("tok_cached", nil)
	d.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, gwReq ports.GatewayPaymentRequest) (*ports.GatewayPaymentResult, error) {
			assert.Equal(t, "tok_cached", gwReq.Token)
			return &ports.GatewayPaymentResult{PaymentURL: "u", PaymentID: "p"}, nil
		})
	d.logRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.billRepo.EXPECT().Create(ctx, gomock.Any()).Return(int64(1), nil)

	_, err := d.svc.CreatePayment(ctx, paymentRequest())
	require.NoError(t, err)
}

func TestPaymentService_CreatePayment_LoginFails(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.expectSweep()
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(tenantSettings(), nil)
	d.tokenCache.EXPECT().Get(gomock.Any(), "member-1").Return("", nil)
	d.gateway.EXPECT().Login(gomock.Any(), "kassa_login", "kassa_pass").Return("", errors.New("bad credentials"))

	_, err := d.svc.CreatePayment(ctx, paymentRequest())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Failed to get EcomKassa token", appErr.Message)
	assert.Equal(t, 500, appErr.HTTPStatus)
}

func TestPaymentService_CreatePayment_NoCredentials(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	settings := tenantSettings()
	settings.GatewayLogin = nil
	settings.GatewayPassword = nil

	d.expectSweep()
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(settings, nil)
	d.tokenCache.EXPECT().Get(gomock.Any(), "member-1").Return("", nil)

	_, err := d.svc.CreatePayment(ctx, paymentRequest())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Failed to get EcomKassa token", appErr.Message)
}

func TestPaymentService_CreatePayment_GatewayError(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.expectSweep()
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(tenantSettings(), nil)
	d.tokenCache.EXPECT().Get(gomock.Any(), "member-1").Return("tok", nil)
	d.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(nil, errors.New("queue rejected"))

	// request audit + error audit
	appended := make([]*domain.IntegrationLog, 0, 2)
	d.logRepo.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.IntegrationLog) error {
			appended = append(appended, entry)
			return nil
		}).Times(2)

	_, err := d.svc.CreatePayment(ctx, paymentRequest())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EcomKassa API error", appErr.Message)

	require.Len(t, appended, 2)
	assert.Equal(t, domain.LogTypeGatewayRequest, appended[0].LogType)
	assert.Equal(t, domain.LogTypeGatewayResponse, appended[1].LogType)
	assert.Equal(t, "error", appended[1].Status)
	require.NotNil(t, appended[1].ErrorMessage)
	assert.Contains(t, *appended[1].ErrorMessage, "queue rejected")
}

func TestPaymentService_CreatePayment_SweepFailureIgnored(t *testing.T) {
	d := setupPaymentService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.logRepo.EXPECT().DeleteOlderThan(gomock.Any(), domain.LogRetention).Return(int64(0), errors.New("db busy"))
	d.settingsRepo.EXPECT().GetByMemberID(ctx, "member-1").Return(tenantSettings(), nil)
	d.tokenCache.EXPECT().Get(gomock.Any(), "member-1").Return("tok", nil)
	d.gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
		Return(&ports.GatewayPaymentResult{PaymentURL: "u", PaymentID: "p"}, nil)
	d.logRepo.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.billRepo.EXPECT().Create(ctx, gomock.Any()).Return(int64(1), nil)

	_, err := d.svc.CreatePayment(ctx, paymentRequest())
	require.NoError(t, err)
}
