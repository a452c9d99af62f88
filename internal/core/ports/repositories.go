package ports

import (
	"context"
	"time"

	"fiscal-payment-bridge/internal/core/domain"
)

// SettingsRepository defines persistence operations for tenant settings.
type SettingsRepository interface {
	Create(ctx context.Context, s *domain.TenantSettings) (*domain.TenantSettings, error)
	GetByMemberID(ctx context.Context, memberID string) (*domain.TenantSettings, error)
	// Update applies a partial merge: nil fields of upd preserve the
	// stored value. Returns false when no row exists for memberID.
	Update(ctx context.Context, memberID string, upd domain.SettingsUpdate) (bool, error)
}

// BillRepository defines persistence operations for bills.
type BillRepository interface {
	Create(ctx context.Context, b *domain.Bill) (int64, error)
	// GetForSettlement looks a bill up by the AND of external id and
	// secret, joined with the owning tenant's webhook URL. A nil result
	// means no row matched either value; the caller cannot tell which.
	GetForSettlement(ctx context.Context, externalID, secret string) (*domain.BillSettlement, error)
	// MarkPaid flips the bill to paid only while it is still pending.
	// Returns false when another callback already won the transition.
	MarkPaid(ctx context.Context, billID int64) (bool, error)
}

// IntegrationLogRepository defines persistence for audit records.
// Records are append-only; the only deletion path is the retention sweep.
type IntegrationLogRepository interface {
	Append(ctx context.Context, entry *domain.IntegrationLog) error
	List(ctx context.Context, params LogListParams) ([]domain.IntegrationLog, error)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// LogListParams holds filter + pagination for listing integration logs.
type LogListParams struct {
	MemberID string
	LogType  *domain.LogType
	Limit    int
	Offset   int
}

// TokenCache caches gateway auth tokens per tenant.
type TokenCache interface {
	// Get returns the cached token or "" when absent.
	Get(ctx context.Context, memberID string) (string, error)
	Set(ctx context.Context, memberID string, token string, ttl time.Duration) error
}
