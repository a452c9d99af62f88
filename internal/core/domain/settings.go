package domain

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Receipt defaults applied when a tenant has not configured its fiscal
// fields. Values are the gateway's enum members.
const (
	DefaultTaxation      = "usn_income"
	DefaultVAT           = "vat20"
	DefaultPaymentMethod = "full_prepayment"
	DefaultPaymentObject = "service"
)

// TenantSettings is one CRM account's integration configuration.
// Optional columns are pointer-typed; nil means "not configured".
// Gateway credentials never serialize to JSON.
type TenantSettings struct {
	ID              int64     `json:"id"`
	MemberID        string    `json:"member_id"`
	SecretCode      string    `json:"secret_code"`
	GatewayLogin    *string   `json:"ecom_login,omitempty"`
	GatewayPassword *string   `json:"-"`
	GatewayKassaID  *string   `json:"ecom_kassa_id,omitempty"`
	GatewayToken    *string   `json:"-"`
	PaymentObject   *string   `json:"payment_object,omitempty"`
	PaymentMethod   *string   `json:"payment_method,omitempty"`
	ReceiptEmail    *string   `json:"email_def_check,omitempty"`
	VATFull         *string   `json:"vat_100,omitempty"`
	VATShipment     *string   `json:"vat_shipment,omitempty"`
	VATOrder        *string   `json:"vat_order,omitempty"`
	CompanyEmail    *string   `json:"company_email,omitempty"`
	CompanySNO      *string   `json:"company_sno,omitempty"`
	CompanyINN      *string   `json:"company_inn,omitempty"`
	CompanyAddress  *string   `json:"company_payment_address,omitempty"`
	WebhookURL      *string   `json:"webhook_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SettingsUpdate carries a partial settings change. Nil fields are
// preserved on merge, never overwritten with empty values.
type SettingsUpdate struct {
	GatewayLogin    *string
	GatewayPassword *string
	GatewayKassaID  *string
	PaymentObject   *string
	PaymentMethod   *string
	ReceiptEmail    *string
	VATFull         *string
	VATShipment     *string
	VATOrder        *string
	CompanyEmail    *string
	CompanySNO      *string
	CompanyINN      *string
	CompanyAddress  *string
	WebhookURL      *string
}

// Taxation returns the configured tax regime or the gateway default.
func (s *TenantSettings) Taxation() string {
	return orDefault(s.CompanySNO, DefaultTaxation)
}

// ItemVAT returns the configured order VAT rate or the gateway default.
func (s *TenantSettings) ItemVAT() string {
	return orDefault(s.VATOrder, DefaultVAT)
}

// ItemPaymentMethod returns the configured payment method or the default.
func (s *TenantSettings) ItemPaymentMethod() string {
	return orDefault(s.PaymentMethod, DefaultPaymentMethod)
}

// ItemPaymentObject returns the configured payment object or the default.
func (s *TenantSettings) ItemPaymentObject() string {
	return orDefault(s.PaymentObject, DefaultPaymentObject)
}

func orDefault(v *string, def string) string {
	if v != nil && *v != "" {
		return *v
	}
	return def
}

// NewSecretCode generates a tenant secret code: 32 lowercase hex chars.
func NewSecretCode() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
