package domain

import "time"

// LogType classifies an integration audit record.
type LogType string

const (
	LogTypeGatewayRequest   LogType = "ecomkassa_request"
	LogTypeGatewayResponse  LogType = "ecomkassa_response"
	LogTypeCallbackReceived LogType = "callback_received"
	LogTypeCRMRequest       LogType = "bitrix24_request"
	LogTypeCRMResponse      LogType = "bitrix24_response"
	LogTypeWebhookRequest   LogType = "webhook_request"
	LogTypeWebhookResponse  LogType = "webhook_response"
)

// LogRetention is how long integration logs are kept before the
// opportunistic sweep removes them.
const LogRetention = 30 * 24 * time.Hour

// IntegrationLog is an append-only audit record of one integration
// event. Rows are never updated; deletion happens only via the
// time-based retention sweep.
type IntegrationLog struct {
	ID           int64     `json:"id"`
	LogType      LogType   `json:"log_type"`
	MemberID     string    `json:"member_id"`
	DealID       string    `json:"deal_id"`
	ExternalID   string    `json:"external_id"`
	RequestData  string    `json:"request_data"`
	ResponseData string    `json:"response_data"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
