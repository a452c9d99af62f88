package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/internal/core/ports/mocks"
	"fiscal-payment-bridge/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupSettingsService(t *testing.T) (*SettingsServiceImpl, *mocks.MockSettingsRepository, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSettingsRepository(ctrl)
	return NewSettingsService(repo, zerolog.Nop()), repo, ctrl
}

func TestSettingsService_Get(t *testing.T) {
	svc, repo, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo.EXPECT().GetByMemberID(ctx, "member-1").Return(tenantSettings(), nil)

	settings, err := svc.Get(ctx, "member-1")
	require.NoError(t, err)
	assert.Equal(t, "member-1", settings.MemberID)
}

func TestSettingsService_Get_MemberIDRequired(t *testing.T) {
	svc, _, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	_, err := svc.Get(context.Background(), "")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "member_id is required", appErr.Message)
	assert.Equal(t, 400, appErr.HTTPStatus)
}

func TestSettingsService_Get_NotFound(t *testing.T) {
	svc, repo, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo.EXPECT().GetByMemberID(ctx, "missing").Return(nil, nil)

	_, err := svc.Get(ctx, "missing")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Settings not found", appErr.Message)
	assert.Equal(t, 404, appErr.HTTPStatus)
}

func TestSettingsService_Create_GeneratesSecretCode(t *testing.T) {
	svc, repo, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo.EXPECT().GetByMemberID(ctx, "member-new").Return(nil, nil)
	repo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.TenantSettings) (*domain.TenantSettings, error) {
			assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), s.SecretCode)
			out := *s
			out.ID = 11
			return &out, nil
		})

	created, err := svc.Create(ctx, ports.CreateSettingsRequest{
		MemberID: "member-new",
		Update:   domain.SettingsUpdate{GatewayLogin: strPtr("login")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, "member-new", created.MemberID)
	assert.Len(t, created.SecretCode, 32)
}

func TestSettingsService_Create_KeepsSuppliedSecretCode(t *testing.T) {
	svc, repo, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo.EXPECT().GetByMemberID(ctx, "member-new").Return(nil, nil)
	repo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.TenantSettings) (*domain.TenantSettings, error) {
			assert.Equal(t, "chosen-secret", s.SecretCode)
			return s, nil
		})

	created, err := svc.Create(ctx, ports.CreateSettingsRequest{
		MemberID:   "member-new",
		SecretCode: "chosen-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "chosen-secret", created.SecretCode)
}

func TestSettingsService_Create_Conflict(t *testing.T) {
	svc, repo, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo.EXPECT().GetByMemberID(ctx, "member-1").Return(tenantSettings(), nil)

	_, err := svc.Create(ctx, ports.CreateSettingsRequest{MemberID: "member-1"})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Settings already exist for this member_id", appErr.Message)
	assert.Equal(t, 409, appErr.HTTPStatus)
}

func TestSettingsService_Update(t *testing.T) {
	svc, repo, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	upd := domain.SettingsUpdate{WebhookURL: strPtr("https://portal.bitrix24.ru/rest/12/key/")}
	repo.EXPECT().Update(ctx, "member-1", upd).Return(true, nil)

	require.NoError(t, svc.Update(ctx, "member-1", upd))
}

func TestSettingsService_Update_NotFound(t *testing.T) {
	svc, repo, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo.EXPECT().Update(ctx, "missing", gomock.Any()).Return(false, nil)

	err := svc.Update(ctx, "missing", domain.SettingsUpdate{})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Settings not found", appErr.Message)
}

func TestSettingsService_Update_RepoError(t *testing.T) {
	svc, repo, ctrl := setupSettingsService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	repo.EXPECT().Update(ctx, "member-1", gomock.Any()).Return(false, errors.New("db down"))

	err := svc.Update(ctx, "member-1", domain.SettingsUpdate{})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.HTTPStatus)
}
