package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"fiscal-payment-bridge/internal/core/ports"
	"fiscal-payment-bridge/internal/upstream"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.GatewayClient against the EcomKassa HTTP API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates an EcomKassa API client. The http client carries the
// outbound timeout; no retries happen here.
func NewClient(baseURL string, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges tenant credentials for a gateway access token.
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Login: login, Password: password})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}

	resp, raw, err := c.post(ctx, c.baseURL+"/login", body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", upstream.FromStatus(resp.StatusCode, string(raw))
	}

	var lr loginResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if lr.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access_token")
	}

	c.log.Debug().Str("login", login).Msg("gateway token obtained")
	return lr.AccessToken, nil
}

type paymentRequest struct {
	KassaID     string        `json:"kassaid"`
	Token       string        `json:"token"`
	ExternalID  string        `json:"external_id"`
	Amount      float64       `json:"amount"`
	Description string        `json:"description"`
	Receipt     ports.Receipt `json:"receipt"`
	CallbackURL string        `json:"callback_url"`
}

type paymentResponse struct {
	PaymentURL string `json:"payment_url"`
	PaymentID  string `json:"payment_id"`
}

// CreatePayment queues a payment with its fiscal receipt. Non-200
// answers surface as a classified upstream error carrying the body.
func (c *Client) CreatePayment(ctx context.Context, req ports.GatewayPaymentRequest) (*ports.GatewayPaymentResult, error) {
	body, err := json.Marshal(paymentRequest{
		KassaID:     req.KassaID,
		Token:       req.Token,
		ExternalID:  req.ExternalID,
		Amount:      req.Amount,
		Description: req.Description,
		Receipt:     req.Receipt,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	resp, raw, err := c.post(ctx, c.baseURL+"/api/v1/queue", body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstream.FromStatus(resp.StatusCode, string(raw))
	}

	var pr paymentResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}

	c.log.Info().
		Str("external_id", req.ExternalID).
		Str("gateway_payment_id", pr.PaymentID).
		Msg("gateway payment created")

	return &ports.GatewayPaymentResult{
		PaymentURL: pr.PaymentURL,
		PaymentID:  pr.PaymentID,
	}, nil
}

// post issues a JSON POST and reads the full response body.
func (c *Client) post(ctx context.Context, url string, body []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, upstream.FromRequestError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp, raw, nil
}
