package ports

import (
	"context"

	"fiscal-payment-bridge/internal/core/domain"
)

// --- Outbound client ports ---

// GatewayClient talks to the EcomKassa fiscal gateway.
type GatewayClient interface {
	// Login exchanges tenant credentials for an access token.
	Login(ctx context.Context, login, password string) (string, error)
	// CreatePayment submits a payment with its fiscal receipt and
	// callback URL. Returns the hosted payment page and gateway id.
	CreatePayment(ctx context.Context, req GatewayPaymentRequest) (*GatewayPaymentResult, error)
}

// GatewayPaymentRequest is the payment-creation payload.
type GatewayPaymentRequest struct {
	KassaID     string
	Token       string
	ExternalID  string
	Amount      float64
	Description string
	Receipt     Receipt
	CallbackURL string
}

// Receipt is the fiscal receipt attached to a payment.
type Receipt struct {
	Email          string        `json:"email"`
	Taxation       string        `json:"taxation"`
	INN            string        `json:"inn"`
	PaymentAddress string        `json:"payment_address"`
	Items          []ReceiptItem `json:"items"`
}

// ReceiptItem is one receipt line.
type ReceiptItem struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Sum           float64 `json:"sum"`
	Tax           string  `json:"tax"`
	PaymentMethod string  `json:"payment_method"`
	PaymentObject string  `json:"payment_object"`
}

// GatewayPaymentResult is the gateway's answer to a created payment.
type GatewayPaymentResult struct {
	PaymentURL string
	PaymentID  string
}

// Notifier delivers settlement notifications to the CRM side.
// Both calls return nil only on an HTTP 200 answer.
type Notifier interface {
	// CallWebhook issues a GET to an already-substituted webhook URL.
	CallWebhook(ctx context.Context, url string) error
	// MarkPaymentPaid calls the CRM's pay-payment REST endpoint.
	MarkPaymentPaid(ctx context.Context, crmBaseURL string, paymentID int64) error
}

// --- Service ports (business logic) ---

// PaymentService creates gateway payments and records pending bills.
type PaymentService interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResult, error)
}

// CreatePaymentRequest holds the CRM widget's payment-creation input.
type CreatePaymentRequest struct {
	MemberID    string
	PaymentID   int64
	PaySystemID int64
	DealID      int64
	SecretCode  string
	Amount      float64
	ClientEmail string
}

// CreatePaymentResult is returned once the gateway accepted the payment
// and the pending bill is stored.
type CreatePaymentResult struct {
	PaymentURL string
	PaymentID  string
	ExternalID string
	BillID     int64
}

// CallbackService reconciles gateway settlement callbacks against bills.
type CallbackService interface {
	ProcessCallback(ctx context.Context, externalID, secret string) (*CallbackResult, error)
}

// CallbackResult reports the reconciliation outcome.
// AlreadyProcessed is true when the bill had been settled before this
// callback arrived and no notification was attempted.
type CallbackResult struct {
	AlreadyProcessed bool
	ExternalID       string
}

// SettingsService manages per-tenant integration settings.
type SettingsService interface {
	Get(ctx context.Context, memberID string) (*domain.TenantSettings, error)
	Create(ctx context.Context, req CreateSettingsRequest) (*SettingsCreated, error)
	Update(ctx context.Context, memberID string, upd domain.SettingsUpdate) error
}

// CreateSettingsRequest holds input for settings creation. SecretCode is
// auto-generated when empty.
type CreateSettingsRequest struct {
	MemberID   string
	SecretCode string
	Update     domain.SettingsUpdate
}

// SettingsCreated is the creation result shape.
type SettingsCreated struct {
	ID         int64  `json:"id"`
	MemberID   string `json:"member_id"`
	SecretCode string `json:"secret_code"`
}

// LogService exposes tenant-scoped integration log listing for the
// API monitor.
type LogService interface {
	List(ctx context.Context, params LogListParams) ([]domain.IntegrationLog, error)
}
