// Package pushinpay is the PIX cash-in gateway adapter.
package pushinpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/LavaJover/shvark-checkout-service/internal/usecase/commission"
)

const (
	cashInPath      = "/api/pix/cashIn"
	transactionPath = "/api/transactions/"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type splitRule struct {
	Value     int64  `json:"value"`
	AccountID string `json:"account_id"`
}

type cashInRequest struct {
	Value      int64       `json:"value"`
	WebhookURL string      `json:"webhook_url,omitempty"`
	SplitRules []splitRule `json:"split_rules,omitempty"`
}

type transactionResponse struct {
	ID           string `json:"id"`
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
	Status       string `json:"status"`
	Value        int64  `json:"value"`
	PaidAt       string `json:"paid_at,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) CreateCharge(ctx context.Context, req *domain.ChargeRequest, creds domain.GatewayCredentials, split domain.PlatformSplit) (*domain.GatewayCharge, error) {
	body := cashInRequest{
		Value:      req.ValueInCents,
		WebhookURL: req.WebhookURL,
	}
	if split.AccountID != "" {
		fee := commission.PlatformFee(req.ValueInCents, split.Percentage, split.FixedFeeInCents)
		if fee > 0 && fee < req.ValueInCents {
			body.SplitRules = []splitRule{{Value: fee, AccountID: split.AccountID}}
		}
	}

	var resp transactionResponse
	if err := c.do(ctx, http.MethodPost, cashInPath, creds.Token, body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: empty charge id", domain.ErrGatewayRejected)
	}

	value := resp.Value
	if value == 0 {
		value = req.ValueInCents
	}
	return &domain.GatewayCharge{
		ID:           resp.ID,
		QRCode:       resp.QRCode,
		QRCodeBase64: resp.QRCodeBase64,
		Status:       domain.ParseGatewayStatus(resp.Status),
		ValueInCents: value,
	}, nil
}

func (c *Client) GetStatus(ctx context.Context, chargeID string, creds domain.GatewayCredentials) (*domain.GatewayChargeStatus, error) {
	var resp transactionResponse
	if err := c.do(ctx, http.MethodGet, transactionPath+chargeID, creds.Token, nil, &resp); err != nil {
		return nil, err
	}

	status := &domain.GatewayChargeStatus{
		ID:           chargeID,
		Status:       domain.ParseGatewayStatus(resp.Status),
		ValueInCents: resp.Value,
	}
	if resp.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, resp.PaidAt); err == nil {
			status.PaidAt = &t
		}
	}
	return status, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := resp.Status
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			msg = e.Message
		}
		return fmt.Errorf("%w: %s", domain.ErrGatewayRejected, msg)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
