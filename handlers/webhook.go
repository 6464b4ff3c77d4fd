package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"resto-pos-api/config"
	"resto-pos-api/logging"
	"resto-pos-api/models"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the raw request
// body, keyed with the shared webhook secret.
const SignatureHeader = "X-Webhook-Signature"

type WebhookEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Sign computes the signature a caller must send for the given body.
// Exported for tests and for local tooling that replays events.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ProcessorWebhook handles POST /api/webhooks/processor. The signature is
// verified over the raw body with a constant-time compare before anything is
// parsed. Unknown event types are acknowledged and logged, not failed —
// the processor adds types faster than we handle them.
func ProcessorWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", "failed to read request body")
		return
	}

	got, err := hex.DecodeString(c.GetHeader(SignatureHeader))
	if err != nil || len(got) == 0 {
		respondErrorBody(c, http.StatusUnauthorized, "auth", "missing or malformed signature")
		return
	}

	mac := hmac.New(sha256.New, config.WebhookSecret)
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		respondErrorBody(c, http.StatusUnauthorized, "auth", "signature mismatch")
		return
	}

	var envelope WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		respondErrorBody(c, http.StatusBadRequest, "validation", "invalid event envelope")
		return
	}

	log := logging.From(c)
	switch envelope.Type {
	case "payment.updated":
		handlePaymentUpdated(c, envelope.Data)
	case "order.updated":
		// The processor's view of the order changed; ours is authoritative,
		// so we only record that it happened.
		log.Info("processor order update received")
		respondData(c, http.StatusOK, gin.H{"handled": true})
	case "catalog.updated":
		log.Info("processor catalog update received; next catalog sync will pick it up")
		respondData(c, http.StatusOK, gin.H{"handled": true})
	default:
		log.Info("unknown webhook event acknowledged", "type", envelope.Type)
		respondData(c, http.StatusOK, gin.H{"handled": false})
	}
}

type paymentUpdatedEvent struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

func handlePaymentUpdated(c *gin.Context, data json.RawMessage) {
	var ev paymentUpdatedEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.Reference == "" {
		respondErrorBody(c, http.StatusBadRequest, "validation", "invalid payment.updated payload")
		return
	}

	if ev.Status == "failed" {
		res := config.DB.Model(&models.Payment{}).
			Where("external_ref = ?", ev.Reference).
			Update("status", models.PaymentFailed)
		if res.Error != nil {
			respondError(c, res.Error)
			return
		}
		logging.From(c).Warn("payment marked failed by processor", "reference", ev.Reference)
	}
	respondData(c, http.StatusOK, gin.H{"handled": true})
}
