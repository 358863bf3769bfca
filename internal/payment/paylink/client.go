// Package paylink talks to the third-party payment-link provider: given a
// booking it returns a checkout URL; callbacks are verified with the shared
// HMAC secret.
package paylink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"stayhub-backend/internal/config"
	"stayhub-backend/internal/shared/apperror"
)

const resultCodeSuccess = "00"

type LinkRequest struct {
	Reference string // booking payment reference, unique
	Amount    int64  // minor currency units
	OrderInfo string
}

type Gateway interface {
	CreateCheckoutURL(ctx context.Context, req LinkRequest) (string, error)
	VerifyCallback(params map[string]string) bool
}

type Client struct {
	cfg        config.PayLinkConfig
	httpClient *http.Client
}

func NewClient(cfg config.PayLinkConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateCheckoutURL requests a payment link from the provider. Any upstream
// failure surfaces as BadGateway; there is no retry here.
func (c *Client) CreateCheckoutURL(ctx context.Context, req LinkRequest) (string, error) {
	params := map[string]string{
		"merchantCode": c.cfg.MerchantCode,
		"reference":    req.Reference,
		"amount":       strconv.FormatInt(req.Amount, 10),
		"orderInfo":    req.OrderInfo,
		"returnUrl":    c.cfg.ReturnURL,
		"webhookUrl":   c.cfg.WebhookURL,
		"requestedAt":  strconv.FormatInt(time.Now().Unix(), 10),
	}
	params[signatureParam] = GenerateSignature(params, c.cfg.HashSecret)

	bodyJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIURL+"/v1/links", bytes.NewReader(bodyJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperror.BadGateway("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.BadGateway("payment provider response unreadable", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperror.BadGateway(
			fmt.Sprintf("payment provider returned status %d", resp.StatusCode), nil)
	}

	var respData struct {
		ResultCode string `json:"resultCode"`
		Message    string `json:"message"`
		PayURL     string `json:"payUrl"`
	}
	if err := json.Unmarshal(bodyBytes, &respData); err != nil {
		return "", apperror.BadGateway("payment provider response malformed", err)
	}

	if respData.ResultCode != resultCodeSuccess {
		return "", apperror.BadGateway(
			fmt.Sprintf("payment provider error: %s", respData.Message), nil)
	}
	if respData.PayURL == "" {
		return "", apperror.BadGateway("payment provider returned no payUrl", nil)
	}

	return respData.PayURL, nil
}

// VerifyCallback validates the HMAC signature of a webhook callback.
func (c *Client) VerifyCallback(params map[string]string) bool {
	return VerifySignature(params, c.cfg.HashSecret)
}
