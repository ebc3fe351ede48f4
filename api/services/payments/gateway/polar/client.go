package polargw

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	polargo "github.com/polarsource/polar-go"
	"github.com/polarsource/polar-go/models/components"
	"github.com/polarsource/polar-go/models/operations"
	svix "github.com/svix/svix-webhooks/go"

	gw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway"
)

const (
	// Name is the provider name reported by the gateway.
	Name = "polar"
	// ProductionServerURL is the Polar API used by default.
	ProductionServerURL = "https://api.polar.sh"
	// SandboxServerURL is the Polar API used in sandbox mode.
	SandboxServerURL = "https://sandbox-api.polar.sh"

	headerWebhookID = "webhook-id"
)

// client is the polar-go SDK-backed implementation of the gateway.
type client struct {
	sdk       *polargo.Polar
	verifier  *svix.Webhook
	serverURL string
}

// Options configures the Polar gateway.
type Options struct {
	AccessToken   string
	WebhookSecret string
	// Sandbox targets SandboxServerURL instead of the production API.
	Sandbox bool
	// ServerURL overrides the API base URL (tests, self-hosted proxies).
	ServerURL string
}

// New returns a PaymentGateway backed by the official Polar SDK.
func New(opts Options) (gw.PaymentGateway, error) {
	serverURL := ProductionServerURL
	switch {
	case opts.ServerURL != "":
		serverURL = opts.ServerURL
	case opts.Sandbox:
		serverURL = SandboxServerURL
	}

	verifier, err := newVerifier(opts.WebhookSecret)
	if err != nil {
		return nil, err
	}
	sdk := polargo.New(polargo.WithSecurity(opts.AccessToken), polargo.WithServerURL(serverURL))
	return client{sdk: sdk, verifier: verifier, serverURL: serverURL}, nil
}

// newVerifier builds a Standard Webhooks verifier. Polar signs with the raw secret bytes,
// which svix expects base64 encoded.
func newVerifier(secret string) (*svix.Webhook, error) {
	wh, err := svix.NewWebhook(base64.StdEncoding.EncodeToString([]byte(secret)))
	if err != nil {
		return nil, fmt.Errorf("creating webhook verifier: %w", err)
	}
	return wh, nil
}

func (client) Name() string { return Name }

func (c client) ListProducts(ctx context.Context) ([]gw.Product, error) {
	res, err := c.sdk.Products.List(ctx, operations.ProductsListRequest{
		IsArchived: polargo.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	if res == nil || res.ListResourceProduct == nil {
		return nil, nil
	}
	products := make([]gw.Product, 0, len(res.ListResourceProduct.Items))
	for _, p := range res.ListResourceProduct.Items {
		products = append(products, gw.Product{ID: p.ID, Name: p.Name, Archived: p.IsArchived})
	}
	return products, nil
}

func (c client) CreateCheckout(ctx context.Context, productID, successURL string) (gw.CheckoutSession, error) {
	res, err := c.sdk.Checkouts.Create(ctx, components.CheckoutCreate{
		Products:   []string{productID},
		SuccessURL: polargo.String(successURL),
	})
	if err != nil {
		return gw.CheckoutSession{}, err
	}
	if res == nil || res.Checkout == nil {
		return gw.CheckoutSession{}, fmt.Errorf("checkout URL not available")
	}
	return gw.CheckoutSession{ID: res.Checkout.ID, URL: res.Checkout.URL}, nil
}

func (c client) ListCustomers(ctx context.Context, email string) ([]gw.Customer, error) {
	res, err := c.sdk.Customers.List(ctx, operations.CustomersListRequest{
		Email: polargo.String(email),
	})
	if err != nil {
		return nil, err
	}
	if res == nil || res.ListResourceCustomer == nil {
		return nil, nil
	}
	customers := make([]gw.Customer, 0, len(res.ListResourceCustomer.Items))
	for _, cust := range res.ListResourceCustomer.Items {
		customers = append(customers, gw.Customer{ID: cust.ID, Email: cust.Email})
	}
	return customers, nil
}

func (c client) CreateCustomerSession(ctx context.Context, customerID string) (gw.PortalSession, error) {
	res, err := c.sdk.CustomerSessions.Create(ctx, operations.CreateCustomerSessionsCreateCustomerSessionCreateCustomerSessionCustomerIDCreate(
		components.CustomerSessionCustomerIDCreate{CustomerID: customerID},
	))
	if err != nil {
		return gw.PortalSession{}, err
	}
	if res == nil || res.CustomerSession == nil {
		return gw.PortalSession{}, fmt.Errorf("customer portal URL not available")
	}
	return gw.PortalSession{URL: res.CustomerSession.CustomerPortalURL}, nil
}

// ValidateEvent verifies the Standard Webhooks signature headers against the body.
func (c client) ValidateEvent(body []byte, headers http.Header) (gw.Event, error) {
	if err := c.verifier.Verify(body, headers); err != nil {
		return gw.Event{}, fmt.Errorf("%w: %v", gw.ErrVerification, err)
	}
	payload, err := gw.CanonicalJSON(body)
	if err != nil {
		return gw.Event{}, err
	}
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return gw.Event{}, fmt.Errorf("decoding event envelope: %w", err)
	}
	return gw.Event{
		ID:      headers.Get(headerWebhookID),
		Type:    envelope.Type,
		Payload: payload,
	}, nil
}
