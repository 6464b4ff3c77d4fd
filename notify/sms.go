package notify

import (
	"log/slog"

	"resto-pos-api/config"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier sends out-of-band alerts (payment confirmations, low stock).
// Delivery is always best-effort: callers never propagate a send failure.
type Notifier interface {
	Send(to, body string)
}

// TwilioNotifier sends SMS through Twilio.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	log    *slog.Logger
}

// NewNotifier returns a Twilio-backed notifier, or a no-op one when the
// credentials are not configured.
func NewNotifier(cfg config.SMSConfig, log *slog.Logger) Notifier {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		log.Info("SMS notifications disabled (no Twilio credentials)")
		return NopNotifier{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioNotifier{client: client, from: cfg.From, log: log}
}

func (n *TwilioNotifier) Send(to, body string) {
	if to == "" {
		return
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		// SMS failures are always swallowed; the order flow must not care.
		n.log.Warn("sms send failed", "to", to, "error", err)
	}
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) Send(_, _ string) {}
