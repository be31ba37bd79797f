// Package webhook posts chat reports to an external presentation service.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/output"
)

const (
	// DefaultTimeout bounds a single delivery when the hook sets none.
	DefaultTimeout = config.DefaultWebhookTimeout

	// DeliveryHeader carries a unique ID per delivery so receivers can drop duplicates.
	DeliveryHeader = "X-Chatstat-Delivery"

	maxResponseBody = 1 << 20
)

// Client delivers chat reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a webhook client identifying itself with version.
func NewClient(version string) *Client {
	return &Client{
		httpClient: &http.Client{},
		userAgent:  "chatstat-webhook/" + version,
	}
}

// Response is the outcome of one delivery. Error is set for transport
// failures and for 4xx/5xx replies.
type Response struct {
	Name       string
	DeliveryID string
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success reports a delivery answered with a 2xx status.
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// ShouldSend applies a webhook trigger to a report.
func ShouldSend(trigger config.WebhookTrigger, report *output.Report) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return report.HasEvents()
	}
}

// Deliver sends report to every hook whose trigger fires, in order. The
// payload is encoded once and shared by all deliveries.
func (c *Client) Deliver(ctx context.Context, hooks []config.WebhookConfig, report *output.Report) []*Response {
	var payload []byte
	var encodeErr error
	var responses []*Response

	for _, wh := range hooks {
		if !ShouldSend(wh.Trigger, report) {
			continue
		}
		if payload == nil && encodeErr == nil {
			payload, encodeErr = json.Marshal(report)
		}

		var resp *Response
		if encodeErr != nil {
			resp = &Response{DeliveryID: uuid.NewString(), Error: fmt.Errorf("failed to marshal report: %w", encodeErr)}
		} else {
			resp = c.post(ctx, payload, wh)
		}
		resp.Name = hookName(wh)
		responses = append(responses, resp)
	}
	return responses
}

// post sends one payload to wh. The hook's token goes out as a Bearer token
// and a zero timeout means DefaultTimeout.
func (c *Client) post(ctx context.Context, payload []byte, wh config.WebhookConfig) *Response {
	start := time.Now()
	resp := &Response{DeliveryID: uuid.NewString()}
	defer func() { resp.Duration = time.Since(start) }()

	timeout := wh.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.newRequest(ctx, payload, resp.DeliveryID, wh)
	if err != nil {
		resp.Error = err
		return resp
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		resp.Error = fmt.Errorf("request failed: %w", err)
		return resp
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		resp.Error = fmt.Errorf("failed to read response: %w", err)
		return resp
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return resp
}

func (c *Client) newRequest(ctx context.Context, payload []byte, deliveryID string, wh config.WebhookConfig) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(DeliveryHeader, deliveryID)
	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}
	return req, nil
}

func hookName(wh config.WebhookConfig) string {
	if wh.Name != "" {
		return wh.Name
	}
	return wh.URL
}
