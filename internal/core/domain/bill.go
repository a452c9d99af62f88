package domain

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// BillStatus represents the settlement state of a bill.
type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
)

// ExternalIDPrefix is carried on every correlation id handed to the
// fiscal gateway. The CRM-side widget depends on this exact prefix.
const ExternalIDPrefix = "bitrix24_payment_"

// Bill records one payment attempt. The status only ever moves
// pending -> paid, and only through a callback presenting the matching
// (external id, secret) pair.
type Bill struct {
	ID          int64      `json:"id"`
	MemberID    string     `json:"member_id"`
	PaymentID   int64      `json:"payment_id"`
	PaySystemID int64      `json:"paysystem_id"`
	DealID      int64      `json:"deal_id"`
	ExternalID  string     `json:"external_id"`
	Secret      string     `json:"-"` // Required to authorize settlement, never exposed
	Status      BillStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPaid returns true once the bill has been settled.
func (b *Bill) IsPaid() bool {
	return b.Status == BillStatusPaid
}

// BillSettlement is the callback-side view of a bill: the bill row joined
// with the owning tenant's webhook URL. The join is the authorization —
// a row only exists for a correct (external id, secret) pair.
type BillSettlement struct {
	Bill
	WebhookURL *string
}

// NewExternalID generates a correlation id: the fixed prefix plus
// 12 lowercase hex chars.
func NewExternalID() string {
	u := uuid.New()
	return ExternalIDPrefix + hex.EncodeToString(u[:])[:12]
}

// NewBillSecret generates a per-bill secret: 32 lowercase hex chars.
func NewBillSecret() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
