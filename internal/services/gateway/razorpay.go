package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
	"github.com/tidwall/gjson"
)

const (
	razorpayPaymentCaptured = "payment.captured"
	razorpayOrderPaid       = "order.paid"
	razorpayCheckoutURL     = "https://api.razorpay.com/v1/checkout/embedded"
)

type RazorpayOptions struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
}

// orderCreator is the part of the razorpay client the adapter uses.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type razorpayGateway struct {
	opts   RazorpayOptions
	orders orderCreator
	log    *slog.Logger
}

// NewRazorpay builds a Razorpay Orders adapter. The deposit reference is the
// order receipt and is copied into the order notes so payment events carry it.
func NewRazorpay(opts RazorpayOptions, log *slog.Logger) Gateway {
	client := razorpay.NewClient(opts.KeyID, opts.KeySecret)
	return &razorpayGateway{opts: opts, orders: client.Order, log: log}
}

func (r *razorpayGateway) Name() string            { return ProviderRazorpay }
func (r *razorpayGateway) SignatureHeader() string { return "X-Razorpay-Signature" }

func (r *razorpayGateway) StartPayment(ctx context.Context, payerEmail string, amount int64, reference string) (*Session, error) {
	orderData := map[string]interface{}{
		"amount":          amount,
		"currency":        strings.ToUpper(r.opts.Currency),
		"receipt":         reference,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"reference": reference,
			"email":     payerEmail,
		},
	}

	type result struct {
		order map[string]interface{}
		err   error
	}
	// The client has no context support; the caller's deadline still bounds the wait.
	done := make(chan result, 1)
	go func() {
		order, err := r.orders.Create(orderData, nil)
		done <- result{order: order, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		r.log.Error("razorpay order creation failed", "reference", reference, "error", res.err)
		return nil, fmt.Errorf("razorpay: create order: %w", res.err)
	}

	orderID := fmt.Sprintf("%v", res.order["id"])
	if orderID == "" || res.order["id"] == nil {
		return nil, fmt.Errorf("razorpay: order response missing id")
	}
	return &Session{
		Reference:        reference,
		SessionHandle:    orderID,
		AuthorizationURL: razorpayCheckoutURL + "?key_id=" + r.opts.KeyID + "&order_id=" + orderID,
	}, nil
}

func (r *razorpayGateway) VerifySignature(signature string, payload []byte) bool {
	if signature == "" {
		return false
	}
	return rzputils.VerifyWebhookSignature(string(payload), signature, r.opts.WebhookSecret)
}

func (r *razorpayGateway) ParseNotification(payload []byte) (*Notification, error) {
	if !gjson.ValidBytes(payload) {
		return nil, ErrMalformedPayload
	}
	root := gjson.ParseBytes(payload)
	event := root.Get("event").String()
	if event == "" {
		return nil, ErrMalformedPayload
	}

	n := &Notification{Event: event, Kind: KindOther}
	switch event {
	case razorpayPaymentCaptured:
		payment := root.Get("payload.payment.entity")
		n.Reference = payment.Get("notes.reference").String()
		n.Currency = strings.ToUpper(payment.Get("currency").String())
		n.Status = payment.Get("status").String()
		if n.Reference == "" {
			return nil, ErrMalformedPayload
		}
		amount, err := minorUnits(payment.Get("amount"))
		if err != nil {
			return nil, err
		}
		n.Amount = amount
		n.Kind = KindChargeSucceeded
	case razorpayOrderPaid:
		order := root.Get("payload.order.entity")
		n.Reference = order.Get("receipt").String()
		n.Currency = strings.ToUpper(order.Get("currency").String())
		n.Status = order.Get("status").String()
		if n.Reference == "" {
			return nil, ErrMalformedPayload
		}
		amount, err := minorUnits(order.Get("amount_paid"))
		if err != nil {
			return nil, err
		}
		n.Amount = amount
		n.Kind = KindChargeSucceeded
	}
	return n, nil
}
