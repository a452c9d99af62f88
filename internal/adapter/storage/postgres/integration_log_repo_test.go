package postgres

import (
	"context"
	"testing"
	"time"

	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logColumns() []string {
	return []string{
		"id", "log_type", "member_id", "deal_id", "external_id",
		"request_data", "response_data", "status", "error_message", "created_at",
	}
}

func TestIntegrationLogRepo_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIntegrationLogRepo(mock)
	entry := &domain.IntegrationLog{
		LogType:      domain.LogTypeGatewayRequest,
		MemberID:     "b24_member_001",
		DealID:       "42",
		ExternalID:   "bitrix24_payment_a1b2c3d4e5f6",
		RequestData:  `{"amount":1500}`,
		ResponseData: "",
		Status:       "sent",
	}

	mock.ExpectExec("INSERT INTO integration_logs").
		WithArgs(entry.LogType, entry.MemberID, entry.DealID, entry.ExternalID,
			entry.RequestData, entry.ResponseData, entry.Status, entry.ErrorMessage).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Append(context.Background(), entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationLogRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIntegrationLogRepo(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(logColumns()).
		AddRow(int64(2), domain.LogTypeCRMResponse, "b24_member_001", "42", "ext-2", "", "200", "success", (*string)(nil), now).
		AddRow(int64(1), domain.LogTypeCallbackReceived, "b24_member_001", "42", "ext-1", "{}", "", "processing", (*string)(nil), now.Add(-time.Minute))

	mock.ExpectQuery("SELECT .+ FROM integration_logs WHERE member_id").
		WithArgs("b24_member_001", 50, 0).
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), ports.LogListParams{
		MemberID: "b24_member_001",
		Limit:    50,
		Offset:   0,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.LogTypeCRMResponse, entries[0].LogType)
	assert.Equal(t, "success", entries[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationLogRepo_List_FilterByType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIntegrationLogRepo(mock)
	logType := domain.LogTypeGatewayResponse

	mock.ExpectQuery("SELECT .+ FROM integration_logs WHERE member_id .+ AND log_type").
		WithArgs("b24_member_001", logType, 20, 40).
		WillReturnRows(pgxmock.NewRows(logColumns()))

	entries, err := repo.List(context.Background(), ports.LogListParams{
		MemberID: "b24_member_001",
		LogType:  &logType,
		Limit:    20,
		Offset:   40,
	})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationLogRepo_DeleteOlderThan(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIntegrationLogRepo(mock)

	mock.ExpectExec("DELETE FROM integration_logs WHERE created_at").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 13))

	deleted, err := repo.DeleteOlderThan(context.Background(), domain.LogRetention)
	require.NoError(t, err)
	assert.Equal(t, int64(13), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
