// Package gateway adapts external payment providers to the ledger. An adapter
// starts hosted payments, authenticates inbound notifications and normalizes
// their payloads.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v72"

	"ledger/internal/config"
)

// Gateway is the contract every payment provider adapter satisfies.
type Gateway interface {
	Name() string
	// SignatureHeader is the request header carrying the notification signature.
	SignatureHeader() string
	StartPayment(ctx context.Context, payerEmail string, amount int64, reference string) (*Session, error)
	// VerifySignature checks signature against the raw request body.
	VerifySignature(signature string, payload []byte) bool
	ParseNotification(payload []byte) (*Notification, error)
}

// Session describes a hosted payment the payer completes at the provider.
type Session struct {
	Reference        string `json:"reference"`
	SessionHandle    string `json:"session_handle"`
	AuthorizationURL string `json:"authorization_url"`
}

type Kind string

const (
	KindChargeSucceeded Kind = "charge_succeeded"
	KindOther           Kind = "other"
)

// Notification is a provider event reduced to what the ledger acts on.
// Amount is in minor units.
type Notification struct {
	Event     string
	Kind      Kind
	Reference string
	Amount    int64
	Currency  string
	Status    string
}

const (
	ProviderPaystack = "paystack"
	ProviderStripe   = "stripe"
	ProviderRazorpay = "razorpay"
)

// New builds the adapter selected by cfg.Provider.
func New(cfg config.GatewayConfig, currency string, log *slog.Logger) (Gateway, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "gateway", "provider", cfg.Provider)

	switch strings.ToLower(cfg.Provider) {
	case ProviderPaystack:
		return NewPaystack(PaystackOptions{
			SecretKey:   cfg.PaystackSecretKey,
			BaseURL:     cfg.PaystackBaseURL,
			CallbackURL: cfg.PaystackCallbackURL,
			Timeout:     cfg.Timeout,
		}, log), nil
	case ProviderStripe:
		return NewStripe(StripeOptions{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			SuccessURL:    cfg.StripeSuccessURL,
			CancelURL:     cfg.StripeCancelURL,
			Currency:      currency,
			Backend:       stripe.GetBackend(stripe.APIBackend),
		}, log), nil
	case ProviderRazorpay:
		return NewRazorpay(RazorpayOptions{
			KeyID:         cfg.RazorpayKey,
			KeySecret:     cfg.RazorpaySecret,
			WebhookSecret: cfg.RazorpayWebhookSecret,
			Currency:      currency,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown payment gateway %q", cfg.Provider)
	}
}
