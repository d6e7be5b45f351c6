package httpx

import (
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"

	"github.com/Basilalghandour/Bot-Project/internal/notification/whatsapp"
)

// VerifyWebhook answers the provider's subscription handshake by echoing
// hub.challenge when hub.verify_token matches.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("hub.verify_token")
	if h.webhook.VerifyToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.webhook.VerifyToken)) != 1 {
		slog.WarnContext(r.Context(), "webhook verification rejected", "mode", q.Get("hub.mode"))
		WriteError(r.Context(), w, NewError("forbidden", "verification token mismatch", http.StatusForbidden))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, q.Get("hub.challenge"))
}

// ReceiveWebhook processes customer replies. Apart from forged deliveries it
// always answers 200 so the provider does not retry events that were
// already handled or can never be handled.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		slog.WarnContext(ctx, "failed to read webhook body", "error", err)
		writeJSON(w, http.StatusOK, StatusResponse{Status: "received"})
		return
	}

	if h.webhook.AppSecret != "" {
		if err := whatsapp.VerifySignature(h.webhook.AppSecret, body, r.Header.Get(whatsapp.SignatureHeader)); err != nil {
			slog.WarnContext(ctx, "rejected webhook delivery", "error", err)
			WriteError(ctx, w, NewError("invalid_signature", "signature verification failed", http.StatusUnauthorized))
			return
		}
	}

	events, err := whatsapp.ParseWebhook(body)
	if err != nil {
		slog.WarnContext(ctx, "unreadable webhook delivery", "error", err)
		writeJSON(w, http.StatusOK, StatusResponse{Status: "received"})
		return
	}

	if len(events) > 0 {
		report := h.callbacks.HandleEvents(ctx, events)
		slog.InfoContext(ctx, "webhook processed",
			"events", len(events),
			"applied", report.Applied,
			"ignored", report.Ignored+report.Duplicate,
			"rejected", report.Malformed+report.NotFound+report.Failed,
		)
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "received"})
}
