package postgres

import (
	"context"
	"errors"
	"fmt"

	"fiscal-payment-bridge/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const settingsColumns = `id, member_id, secret_code, ecom_login, ecom_pass, ecom_kassa_id, token_ecom_kassa,
		payment_object, payment_method, email_def_check, vat_100, vat_shipment, vat_order,
		company_email, company_sno, company_inn, company_payment_address, webhook_url, created_at, updated_at`

// SettingsRepo implements ports.SettingsRepository.
type SettingsRepo struct {
	pool Pool
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(pool Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Create inserts a settings row and returns it with the generated id.
func (r *SettingsRepo) Create(ctx context.Context, s *domain.TenantSettings) (*domain.TenantSettings, error) {
	query := `INSERT INTO tenant_settings (member_id, secret_code, ecom_login, ecom_pass, ecom_kassa_id,
		payment_object, payment_method, email_def_check, vat_100, vat_shipment, vat_order,
		company_email, company_sno, company_inn, company_payment_address, webhook_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`

	created := *s
	err := r.pool.QueryRow(ctx, query,
		s.MemberID, s.SecretCode, s.GatewayLogin, s.GatewayPassword, s.GatewayKassaID,
		s.PaymentObject, s.PaymentMethod, s.ReceiptEmail, s.VATFull, s.VATShipment, s.VATOrder,
		s.CompanyEmail, s.CompanySNO, s.CompanyINN, s.CompanyAddress, s.WebhookURL,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert settings: %w", err)
	}
	return &created, nil
}

// GetByMemberID fetches a tenant's settings. Returns nil, nil when the
// tenant has no settings row.
func (r *SettingsRepo) GetByMemberID(ctx context.Context, memberID string) (*domain.TenantSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM tenant_settings WHERE member_id = $1`

	s := &domain.TenantSettings{}
	err := r.pool.QueryRow(ctx, query, memberID).Scan(
		&s.ID, &s.MemberID, &s.SecretCode, &s.GatewayLogin, &s.GatewayPassword, &s.GatewayKassaID, &s.GatewayToken,
		&s.PaymentObject, &s.PaymentMethod, &s.ReceiptEmail, &s.VATFull, &s.VATShipment, &s.VATOrder,
		&s.CompanyEmail, &s.CompanySNO, &s.CompanyINN, &s.CompanyAddress, &s.WebhookURL,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings by member_id: %w", err)
	}
	return s, nil
}

// Update applies a COALESCE merge: nil fields keep their stored value.
// The merge is a single UPDATE, so concurrent partial updates never
// interleave half-applied.
func (r *SettingsRepo) Update(ctx context.Context, memberID string, upd domain.SettingsUpdate) (bool, error) {
	query := `UPDATE tenant_settings SET
		ecom_login = COALESCE($1, ecom_login),
		ecom_pass = COALESCE($2, ecom_pass),
		ecom_kassa_id = COALESCE($3, ecom_kassa_id),
		payment_object = COALESCE($4, payment_object),
		payment_method = COALESCE($5, payment_method),
		email_def_check = COALESCE($6, email_def_check),
		vat_100 = COALESCE($7, vat_100),
		vat_shipment = COALESCE($8, vat_shipment),
		vat_order = COALESCE($9, vat_order),
		company_email = COALESCE($10, company_email),
		company_sno = COALESCE($11, company_sno),
		company_inn = COALESCE($12, company_inn),
		company_payment_address = COALESCE($13, company_payment_address),
		webhook_url = COALESCE($14, webhook_url),
		updated_at = NOW()
		WHERE member_id = $15`

	tag, err := r.pool.Exec(ctx, query,
		upd.GatewayLogin, upd.GatewayPassword, upd.GatewayKassaID,
		upd.PaymentObject, upd.PaymentMethod, upd.ReceiptEmail,
		upd.VATFull, upd.VATShipment, upd.VATOrder,
		upd.CompanyEmail, upd.CompanySNO, upd.CompanyINN,
		upd.CompanyAddress, upd.WebhookURL, memberID,
	)
	if err != nil {
		return false, fmt.Errorf("update settings: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
