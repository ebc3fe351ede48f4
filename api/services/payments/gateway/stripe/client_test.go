package stripegw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	gw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway"
)

const testWebhookSecret = "whsec_test_secret"

// newTestGateway points the Stripe SDK at a local fake API.
func newTestGateway(t *testing.T, h http.HandlerFunc) gw.PaymentGateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return New("sk_test_123", testWebhookSecret, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestListProducts(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/products", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		writeJSON(w, `{"object":"list","url":"/v1/products","has_more":false,"data":[
			{"id":"prod_1","object":"product","name":"Starter","active":true},
			{"id":"prod_2","object":"product","name":"Pro","active":true}
		]}`)
	})

	products, err := g.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []gw.Product{{ID: "prod_1", Name: "Starter"}, {ID: "prod_2", Name: "Pro"}}, products)
}

func TestCreateCheckout_RecurringPrice(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/products/prod_1":
			writeJSON(w, `{"id":"prod_1","object":"product","name":"Pro","active":true,
				"default_price":{"id":"price_1","object":"price","type":"recurring"}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/checkout/sessions":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "subscription", r.PostForm.Get("mode"))
			assert.Equal(t, "price_1", r.PostForm.Get("line_items[0][price]"))
			assert.Equal(t, "http://shop.local/", r.PostForm.Get("success_url"))
			writeJSON(w, `{"id":"cs_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_1"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	session, err := g.CreateCheckout(context.Background(), "prod_1", "http://shop.local/")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", session.URL)
}

func TestCreateCheckout_NoDefaultPrice(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id":"prod_1","object":"product","name":"Pro","active":true}`)
	})

	_, err := g.CreateCheckout(context.Background(), "prod_1", "http://shop.local/")
	assert.ErrorContains(t, err, "no default price")
}

func TestListCustomersAndPortal(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/customers":
			assert.Equal(t, "jane@example.com", r.URL.Query().Get("email"))
			writeJSON(w, `{"object":"list","url":"/v1/customers","has_more":false,"data":[
				{"id":"cus_1","object":"customer","email":"jane@example.com"}
			]}`)
		case r.URL.Path == "/v1/billing_portal/sessions":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "cus_1", r.PostForm.Get("customer"))
			writeJSON(w, `{"id":"bps_1","object":"billing_portal.session","url":"https://billing.stripe.com/p/session/test"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	customers, err := g.ListCustomers(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "cus_1", customers[0].ID)

	portal, err := g.CreateCustomerSession(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.com/p/session/test", portal.URL)
}

func TestListProducts_APIError(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`))
	})

	_, err := g.ListProducts(context.Background())
	assert.ErrorContains(t, err, "Invalid API Key provided")
}

func TestValidateEvent(t *testing.T) {
	g := New("sk_test_123", testWebhookSecret, nil)
	body := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","api_version":"2020-08-27","data":{"object":{"id":"cs_1"}}}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: testWebhookSecret})
	headers := http.Header{}
	headers.Set("Stripe-Signature", signed.Header)

	evt, err := g.ValidateEvent(body, headers)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", evt.ID)
	assert.Equal(t, "checkout.session.completed", evt.Type)
	assert.JSONEq(t, string(body), string(evt.Payload))

	bad := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: body, Secret: "whsec_other"})
	headers.Set("Stripe-Signature", bad.Header)
	_, err = g.ValidateEvent(body, headers)
	assert.ErrorIs(t, err, gw.ErrVerification)
}
