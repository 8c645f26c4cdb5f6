package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
	"github.com/stripe/stripe-go/v72/webhook"
	"github.com/tidwall/gjson"
)

const (
	stripeSessionCompleted      = "checkout.session.completed"
	stripeAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

type StripeOptions struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Currency      string
	Backend       stripe.Backend
}

type stripeGateway struct {
	opts   StripeOptions
	client session.Client
	log    *slog.Logger
}

// NewStripe builds a Stripe Checkout adapter. The deposit reference travels
// as the session's client_reference_id.
func NewStripe(opts StripeOptions, log *slog.Logger) Gateway {
	if opts.Backend == nil {
		opts.Backend = stripe.GetBackend(stripe.APIBackend)
	}
	return &stripeGateway{
		opts:   opts,
		client: session.Client{B: opts.Backend, Key: opts.SecretKey},
		log:    log,
	}
}

func (s *stripeGateway) Name() string            { return ProviderStripe }
func (s *stripeGateway) SignatureHeader() string { return "Stripe-Signature" }

func (s *stripeGateway) StartPayment(ctx context.Context, payerEmail string, amount int64, reference string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.opts.SuccessURL),
		CancelURL:         stripe.String(s.opts.CancelURL),
		ClientReferenceID: stripe.String(reference),
		CustomerEmail:     stripe.String(payerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(s.opts.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Wallet deposit"),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("reference", reference)

	cs, err := s.client.New(params)
	if err != nil {
		s.log.Error("stripe checkout session failed", "reference", reference, "error", err)
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &Session{
		Reference:        reference,
		SessionHandle:    cs.ID,
		AuthorizationURL: cs.URL,
	}, nil
}

func (s *stripeGateway) VerifySignature(signature string, payload []byte) bool {
	if signature == "" {
		return false
	}
	return webhook.ValidatePayload(payload, signature, s.opts.WebhookSecret) == nil
}

func (s *stripeGateway) ParseNotification(payload []byte) (*Notification, error) {
	if !gjson.ValidBytes(payload) {
		return nil, ErrMalformedPayload
	}
	root := gjson.ParseBytes(payload)
	event := root.Get("type").String()
	if event == "" {
		return nil, ErrMalformedPayload
	}

	obj := root.Get("data.object")
	n := &Notification{
		Event:     event,
		Kind:      KindOther,
		Reference: obj.Get("client_reference_id").String(),
		Currency:  strings.ToUpper(obj.Get("currency").String()),
		Status:    obj.Get("payment_status").String(),
	}
	if n.Reference == "" {
		n.Reference = obj.Get("metadata.reference").String()
	}

	switch event {
	case stripeSessionCompleted, stripeAsyncPaymentSucceeded:
		// Delayed payment methods complete the session unpaid and follow
		// up with async_payment_succeeded.
		if n.Status != "paid" {
			return n, nil
		}
		if n.Reference == "" {
			return nil, ErrMalformedPayload
		}
		amount, err := minorUnits(obj.Get("amount_total"))
		if err != nil {
			return nil, err
		}
		n.Amount = amount
		n.Kind = KindChargeSucceeded
	}
	return n, nil
}
