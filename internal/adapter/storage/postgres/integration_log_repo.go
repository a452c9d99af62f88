package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fiscal-payment-bridge/internal/core/domain"
	"fiscal-payment-bridge/internal/core/ports"
)

// IntegrationLogRepo implements ports.IntegrationLogRepository.
type IntegrationLogRepo struct {
	pool Pool
}

// NewIntegrationLogRepo creates a new IntegrationLogRepo.
func NewIntegrationLogRepo(pool Pool) *IntegrationLogRepo {
	return &IntegrationLogRepo{pool: pool}
}

// Append inserts an audit record. Records are never updated afterwards.
func (r *IntegrationLogRepo) Append(ctx context.Context, entry *domain.IntegrationLog) error {
	query := `INSERT INTO integration_logs (log_type, member_id, deal_id, external_id,
		request_data, response_data, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		entry.LogType, entry.MemberID, entry.DealID, entry.ExternalID,
		entry.RequestData, entry.ResponseData, entry.Status, entry.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("insert integration log: %w", err)
	}
	return nil
}

// List fetches a tenant's audit records, newest first.
func (r *IntegrationLogRepo) List(ctx context.Context, params ports.LogListParams) ([]domain.IntegrationLog, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("member_id = $%d", argIdx))
	args = append(args, params.MemberID)
	argIdx++

	if params.LogType != nil {
		conditions = append(conditions, fmt.Sprintf("log_type = $%d", argIdx))
		args = append(args, *params.LogType)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")
	query := fmt.Sprintf(`SELECT id, log_type, member_id, deal_id, external_id,
		request_data, response_data, status, error_message, created_at
		FROM integration_logs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list integration logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.IntegrationLog
	for rows.Next() {
		e := domain.IntegrationLog{}
		err := rows.Scan(
			&e.ID, &e.LogType, &e.MemberID, &e.DealID, &e.ExternalID,
			&e.RequestData, &e.ResponseData, &e.Status, &e.ErrorMessage, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan integration log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate integration log rows: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes records older than the retention window and
// returns how many rows went away.
func (r *IntegrationLogRepo) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	query := `DELETE FROM integration_logs WHERE created_at < $1`

	cutoff := time.Now().UTC().Add(-age)
	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old integration logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
