package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"
)

const (
	paystackDefaultBaseURL = "https://api.paystack.co"
	paystackChargeSuccess  = "charge.success"
)

type PaystackOptions struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
	Timeout     time.Duration
}

type paystack struct {
	opts PaystackOptions
	log  *slog.Logger
}

func NewPaystack(opts PaystackOptions, log *slog.Logger) Gateway {
	if opts.BaseURL == "" {
		opts.BaseURL = paystackDefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	return &paystack{opts: opts, log: log}
}

func (p *paystack) Name() string            { return ProviderPaystack }
func (p *paystack) SignatureHeader() string { return "x-paystack-signature" }

type paystackInitRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

func (p *paystack) StartPayment(ctx context.Context, payerEmail string, amount int64, reference string) (*Session, error) {
	timeout := p.opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ctx.Err()
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(p.opts.BaseURL + "/transaction/initialize")
	agent.Set(fiber.HeaderAuthorization, "Bearer "+p.opts.SecretKey)
	agent.JSON(paystackInitRequest{
		Email:       payerEmail,
		Amount:      amount,
		Reference:   reference,
		CallbackURL: p.opts.CallbackURL,
	})
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("paystack: build request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("paystack: initialize: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 || !gjson.GetBytes(body, "status").Bool() {
		p.log.Error("paystack initialize rejected", "status_code", code, "message", gjson.GetBytes(body, "message").String())
		return nil, fmt.Errorf("paystack: initialize returned %d", code)
	}

	data := gjson.GetBytes(body, "data")
	session := &Session{
		Reference:        data.Get("reference").String(),
		SessionHandle:    data.Get("access_code").String(),
		AuthorizationURL: data.Get("authorization_url").String(),
	}
	if session.Reference == "" {
		session.Reference = reference
	}
	if session.AuthorizationURL == "" {
		return nil, fmt.Errorf("paystack: initialize response missing authorization_url")
	}
	return session, nil
}

func (p *paystack) VerifySignature(signature string, payload []byte) bool {
	if signature == "" {
		return false
	}
	return equalHex(SignSHA512(p.opts.SecretKey, payload), strings.ToLower(signature))
}

func (p *paystack) ParseNotification(payload []byte) (*Notification, error) {
	if !gjson.ValidBytes(payload) {
		return nil, ErrMalformedPayload
	}
	root := gjson.ParseBytes(payload)
	event := root.Get("event").String()
	if event == "" {
		return nil, ErrMalformedPayload
	}

	n := &Notification{
		Event:     event,
		Kind:      KindOther,
		Reference: root.Get("data.reference").String(),
		Currency:  strings.ToUpper(root.Get("data.currency").String()),
		Status:    root.Get("data.status").String(),
	}
	amount, amountErr := minorUnits(root.Get("data.amount"))
	if amountErr == nil {
		n.Amount = amount
	}
	if event == paystackChargeSuccess {
		if n.Reference == "" || amountErr != nil {
			return nil, ErrMalformedPayload
		}
		n.Kind = KindChargeSucceeded
	}
	return n, nil
}
