package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

const SignatureHeader = "X-Hub-Signature-256"

var (
	ErrMissingSignature = errors.New("whatsapp: missing signature")
	ErrInvalidSignature = errors.New("whatsapp: signature mismatch")
)

type webhookEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Button    *struct {
		Payload string `json:"payload"`
		Text    string `json:"text"`
	} `json:"button"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// token returns the button payload of a reply. Plain text messages and
// status updates carry none.
func (m inboundMessage) token() string {
	switch {
	case m.Button != nil:
		return m.Button.Payload
	case m.Interactive != nil && m.Interactive.ButtonReply != nil:
		return m.Interactive.ButtonReply.ID
	default:
		return ""
	}
}

// ParseWebhook extracts the button replies from a webhook delivery. Deliveries
// without replies (status updates, text messages) yield no events.
func ParseWebhook(body []byte) ([]ports.CallbackEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("whatsapp: decode webhook: %w", err)
	}

	var events []ports.CallbackEvent
	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				tok := strings.TrimSpace(msg.token())
				if tok == "" {
					continue
				}
				events = append(events, ports.CallbackEvent{
					MessageID: msg.ID,
					From:      msg.From,
					Token:     tok,
					Timestamp: parseUnix(msg.Timestamp),
				})
			}
		}
	}
	return events, nil
}

func parseUnix(s string) time.Time {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// VerifySignature checks the X-Hub-Signature-256 header, "sha256=<hex>", an
// HMAC-SHA256 of the raw body keyed with the app secret.
func VerifySignature(appSecret string, body []byte, header string) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return ErrMissingSignature
	}
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return ErrInvalidSignature
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(got, Sign(appSecret, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the raw HMAC-SHA256 of body.
func Sign(appSecret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return mac.Sum(nil)
}
