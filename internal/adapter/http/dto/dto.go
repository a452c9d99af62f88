package dto

import "fiscal-payment-bridge/internal/core/domain"

// CreatePaymentRequest is the payment-creation body. Field names match
// what the CRM widget posts, uppercase keys included.
type CreatePaymentRequest struct {
	MemberID    string  `json:"member_id"`
	PaymentID   int64   `json:"PAYMENT_ID"`
	PaySystemID int64   `json:"PAYSYSTEM_ID"`
	DealID      int64   `json:"dealid"`
	SecretCode  string  `json:"secret_code"`
	Amount      float64 `json:"amount"`
	ClientEmail string  `json:"client_email"`
}

// CreatePaymentResponse is the successful payment-creation answer.
type CreatePaymentResponse struct {
	Success    bool   `json:"success"`
	PaymentURL string `json:"payment_url"`
	PaymentID  string `json:"payment_id"`
	ExternalID string `json:"external_id"`
	BillID     int64  `json:"bill_id"`
}

// CallbackResponse is the settlement-callback success answer.
type CallbackResponse struct {
	Message       string `json:"message"`
	PaymentMarked bool   `json:"payment_marked,omitempty"`
	ExternalID    string `json:"external_id,omitempty"`
}

// SettingsRequest carries tenant settings for create and update. All
// integration fields are optional; keys keep their historical names.
type SettingsRequest struct {
	MemberID       string  `json:"member_id"`
	SecretCode     *string `json:"secret_code,omitempty"`
	GatewayLogin   *string `json:"ecom_login,omitempty"`
	GatewayPass    *string `json:"ecom_pass,omitempty"`
	GatewayKassaID *string `json:"ecom_kassa_id,omitempty"`
	PaymentObject  *string `json:"payment_object,omitempty"`
	PaymentMethod  *string `json:"payment_method,omitempty"`
	ReceiptEmail   *string `json:"email_def_check,omitempty"`
	VATFull        *string `json:"vat_100,omitempty"`
	VATShipment    *string `json:"vat_shipment,omitempty"`
	VATOrder       *string `json:"vat_order,omitempty"`
	CompanyEmail   *string `json:"company_email,omitempty"`
	CompanySNO     *string `json:"company_sno,omitempty"`
	CompanyINN     *string `json:"company_inn,omitempty"`
	CompanyAddress *string `json:"company_payment_address,omitempty"`
	WebhookURL     *string `json:"webhook_url,omitempty"`
}

// ToUpdate converts the request's integration fields into a partial
// settings change.
func (r *SettingsRequest) ToUpdate() domain.SettingsUpdate {
	return domain.SettingsUpdate{
		GatewayLogin:    r.GatewayLogin,
		GatewayPassword: r.GatewayPass,
		GatewayKassaID:  r.GatewayKassaID,
		PaymentObject:   r.PaymentObject,
		PaymentMethod:   r.PaymentMethod,
		ReceiptEmail:    r.ReceiptEmail,
		VATFull:         r.VATFull,
		VATShipment:     r.VATShipment,
		VATOrder:        r.VATOrder,
		CompanyEmail:    r.CompanyEmail,
		CompanySNO:      r.CompanySNO,
		CompanyINN:      r.CompanyINN,
		CompanyAddress:  r.CompanyAddress,
		WebhookURL:      r.WebhookURL,
	}
}

// SettingsMutationResponse is the answer to settings create/update.
// Data is present only on create.
type SettingsMutationResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// LogListResponse wraps the integration-log listing.
type LogListResponse struct {
	Logs   []domain.IntegrationLog `json:"logs"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}
