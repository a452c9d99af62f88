package postgres

import (
	"context"
	"errors"
	"fmt"

	"fiscal-payment-bridge/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// BillRepo implements ports.BillRepository.
type BillRepo struct {
	pool Pool
}

// NewBillRepo creates a new BillRepo.
func NewBillRepo(pool Pool) *BillRepo {
	return &BillRepo{pool: pool}
}

// Create inserts a pending bill and returns its generated id.
func (r *BillRepo) Create(ctx context.Context, b *domain.Bill) (int64, error) {
	query := `INSERT INTO bills (member_id, payment_id, paysystem_id, deal_id, external_id, secret, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		b.MemberID, b.PaymentID, b.PaySystemID, b.DealID,
		b.ExternalID, b.Secret, b.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert bill: %w", err)
	}
	return id, nil
}

// GetForSettlement fetches the bill matching BOTH external id and secret,
// joined with the owning tenant's webhook URL. The two predicates form a
// single filter so a miss never reveals which value was wrong.
func (r *BillRepo) GetForSettlement(ctx context.Context, externalID, secret string) (*domain.BillSettlement, error) {
	query := `SELECT b.id, b.member_id, b.payment_id, b.paysystem_id, b.deal_id,
		b.external_id, b.secret, b.status, b.created_at, b.updated_at, s.webhook_url
		FROM bills b
		JOIN tenant_settings s ON b.member_id = s.member_id
		WHERE b.external_id = $1 AND b.secret = $2`

	bs := &domain.BillSettlement{}
	err := r.pool.QueryRow(ctx, query, externalID, secret).Scan(
		&bs.ID, &bs.MemberID, &bs.PaymentID, &bs.PaySystemID, &bs.DealID,
		&bs.ExternalID, &bs.Secret, &bs.Status, &bs.CreatedAt, &bs.UpdatedAt,
		&bs.WebhookURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill for settlement: %w", err)
	}
	return bs, nil
}

// MarkPaid performs the pending->paid transition as a conditional update.
// Zero rows affected means a concurrent callback already settled the
// bill; the caller treats that as idempotent success.
func (r *BillRepo) MarkPaid(ctx context.Context, billID int64) (bool, error) {
	query := `UPDATE bills SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	tag, err := r.pool.Exec(ctx, query, domain.BillStatusPaid, billID, domain.BillStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark bill paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
