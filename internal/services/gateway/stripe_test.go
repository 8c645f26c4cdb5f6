package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"

	"ledger/internal/logging"
)

const testStripeWebhookSecret = "whsec_test"

func stripeSignature(secret string, payload []byte, ts time.Time) string {
	signed := fmt.Sprintf("%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), SignSHA256(secret, []byte(signed)))
}

func newTestStripe(t *testing.T, handler http.HandlerFunc) Gateway {
	t.Helper()
	opts := StripeOptions{
		SecretKey:     "sk_test_123",
		WebhookSecret: testStripeWebhookSecret,
		SuccessURL:    "https://app/success",
		CancelURL:     "https://app/cancel",
		Currency:      "NGN",
	}
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		opts.Backend = stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL:           stripe.String(srv.URL),
			LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelNull},
		})
	}
	return NewStripe(opts, logging.Discard())
}

func TestStripe_StartPayment(t *testing.T) {
	gw := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "REF-1", r.PostForm.Get("client_reference_id"))
		assert.Equal(t, "5000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "ngn", r.PostForm.Get("line_items[0][price_data][currency]"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`))
	})

	session, err := gw.StartPayment(context.Background(), "payer@example.com", 5000, "REF-1")
	require.NoError(t, err)
	assert.Equal(t, "REF-1", session.Reference)
	assert.Equal(t, "cs_test_1", session.SessionHandle)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", session.AuthorizationURL)
}

func TestStripe_VerifySignature(t *testing.T) {
	gw := newTestStripe(t, nil)
	payload := []byte(`{"type":"checkout.session.completed"}`)

	assert.True(t, gw.VerifySignature(stripeSignature(testStripeWebhookSecret, payload, time.Now()), payload))
	assert.False(t, gw.VerifySignature(stripeSignature("whsec_other", payload, time.Now()), payload))
	assert.False(t, gw.VerifySignature(stripeSignature(testStripeWebhookSecret, payload, time.Now().Add(-time.Hour)), payload))
	assert.False(t, gw.VerifySignature("", payload))
}

func TestStripe_ParseNotification(t *testing.T) {
	gw := newTestStripe(t, nil)

	paid, err := gw.ParseNotification([]byte(`{"type":"checkout.session.completed","data":{"object":{
		"client_reference_id":"REF-1","amount_total":5000,"currency":"ngn","payment_status":"paid"}}}`))
	require.NoError(t, err)
	assert.Equal(t, KindChargeSucceeded, paid.Kind)
	assert.Equal(t, "REF-1", paid.Reference)
	assert.Equal(t, int64(5000), paid.Amount)
	assert.Equal(t, "NGN", paid.Currency)

	unpaid, err := gw.ParseNotification([]byte(`{"type":"checkout.session.completed","data":{"object":{
		"client_reference_id":"REF-1","amount_total":5000,"payment_status":"unpaid"}}}`))
	require.NoError(t, err)
	assert.Equal(t, KindOther, unpaid.Kind)

	expired, err := gw.ParseNotification([]byte(`{"type":"checkout.session.expired","data":{"object":{}}}`))
	require.NoError(t, err)
	assert.Equal(t, KindOther, expired.Kind)

	_, err = gw.ParseNotification([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedPayload)

	_, err = gw.ParseNotification([]byte(`{"type":"checkout.session.completed","data":{"object":{
		"client_reference_id":"REF-1","amount_total":5000.25,"payment_status":"paid"}}}`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
