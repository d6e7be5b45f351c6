// Package whatsapp talks to the WhatsApp Business Cloud API: it sends the
// order confirmation template and decodes the webhook deliveries carrying
// customer replies.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

const (
	DefaultBaseURL      = "https://graph.facebook.com"
	DefaultAPIVersion   = "v22.0"
	DefaultLanguageCode = "en"

	maxErrorBody = 4 << 10
)

// Config holds the Cloud API credentials and template settings.
type Config struct {
	BaseURL       string
	APIVersion    string
	PhoneNumberID string
	AccessToken   string
	TemplateName  string
	LanguageCode  string
}

var _ ports.Notifier = (*Client)(nil)

// Client sends template messages.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a client. When httpClient is nil, a client whose transport
// is instrumented with otelhttp is used; the caller's context bounds each call.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = DefaultLanguageCode
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp: api returned %d: %s", e.StatusCode, e.Body)
}

type messageRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         template `json:"template"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	SubType    string      `json:"sub_type,omitempty"`
	Index      *int        `json:"index,omitempty"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// SendConfirmationRequest sends the confirmation template. The brand name
// fills both body variables; the two quick-reply buttons carry the confirm
// and cancel tokens as payloads.
func (c *Client) SendConfirmationRequest(ctx context.Context, req ports.ConfirmationRequest) error {
	body, err := json.Marshal(buildMessage(c.cfg, req))
	if err != nil {
		return fmt.Errorf("whatsapp: encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.APIVersion, c.cfg.PhoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("whatsapp: send to %s: %w", req.Phone, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func buildMessage(cfg Config, req ports.ConfirmationRequest) messageRequest {
	confirmIdx, cancelIdx := 0, 1
	return messageRequest{
		MessagingProduct: "whatsapp",
		To:               req.Phone,
		Type:             "template",
		Template: template{
			Name:     cfg.TemplateName,
			Language: language{Code: cfg.LanguageCode},
			Components: []component{
				{
					Type: "body",
					Parameters: []parameter{
						{Type: "text", Text: req.BrandName},
						{Type: "text", Text: req.BrandName},
					},
				},
				{
					Type:       "button",
					SubType:    "quick_reply",
					Index:      &confirmIdx,
					Parameters: []parameter{{Type: "payload", Payload: req.ConfirmToken}},
				},
				{
					Type:       "button",
					SubType:    "quick_reply",
					Index:      &cancelIdx,
					Parameters: []parameter{{Type: "payload", Payload: req.CancelToken}},
				},
			},
		},
	}
}
