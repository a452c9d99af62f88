package crm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"fiscal-payment-bridge/internal/upstream"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier implements ports.Notifier over Bitrix24 inbound webhooks.
type Notifier struct {
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewNotifier creates a CRM notifier. The http client carries the
// outbound timeout.
func NewNotifier(httpClient HTTPClient, log zerolog.Logger) *Notifier {
	return &Notifier{
		httpClient: httpClient,
		log:        log,
	}
}

// CallWebhook issues a GET against an already-substituted webhook URL.
// Any status other than 200 is an error.
func (n *Notifier) CallWebhook(ctx context.Context, url string) error {
	n.log.Debug().Str("url", url).Msg("calling crm webhook")
	return n.get(ctx, url)
}

// MarkPaymentPaid calls sale.paysystem.pay.payment on the CRM's inbound
// webhook base URL for the given payment.
func (n *Notifier) MarkPaymentPaid(ctx context.Context, crmBaseURL string, paymentID int64) error {
	url := crmBaseURL + "/rest/sale.paysystem.pay.payment?ID=" + strconv.FormatInt(paymentID, 10)
	n.log.Debug().Int64("payment_id", paymentID).Msg("marking crm payment paid")
	return n.get(ctx, url)
}

func (n *Notifier) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return upstream.FromRequestError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return upstream.FromStatus(resp.StatusCode, string(raw))
	}
	return nil
}
