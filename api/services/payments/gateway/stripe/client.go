package stripegw

import (
	"context"
	"fmt"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	gw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway"
)

const (
	// Name is the provider name reported by the gateway.
	Name = "stripe"

	headerSignature = "Stripe-Signature"
)

// stripeClient is the Stripe SDK-backed implementation of the gateway.
type stripeClient struct {
	api           *client.API
	webhookSecret string
}

// New returns a PaymentGateway backed by the official Stripe SDK. A nil backends uses the
// live Stripe API.
func New(secretKey, webhookSecret string, backends *stripe.Backends) gw.PaymentGateway {
	return stripeClient{api: client.New(secretKey, backends), webhookSecret: webhookSecret}
}

func (stripeClient) Name() string { return Name }

// ListProducts returns the active products. Stripe has no archived flag; inactive products
// are the archived ones.
func (c stripeClient) ListProducts(ctx context.Context) ([]gw.Product, error) {
	params := &stripe.ProductListParams{Active: stripe.Bool(true)}
	params.Context = ctx

	var products []gw.Product
	it := c.api.Products.List(params)
	for it.Next() {
		p := it.Product()
		products = append(products, gw.Product{ID: p.ID, Name: p.Name, Archived: !p.Active})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateCheckout opens a checkout session for the product's default price. Recurring prices
// start a subscription, anything else a one-off payment.
func (c stripeClient) CreateCheckout(ctx context.Context, productID, successURL string) (gw.CheckoutSession, error) {
	productParams := &stripe.ProductParams{}
	productParams.Context = ctx
	productParams.AddExpand("default_price")
	product, err := c.api.Products.Get(productID, productParams)
	if err != nil {
		return gw.CheckoutSession{}, err
	}
	if product.DefaultPrice == nil || product.DefaultPrice.ID == "" {
		return gw.CheckoutSession{}, fmt.Errorf("product %s has no default price", productID)
	}

	mode := stripe.CheckoutSessionModePayment
	if product.DefaultPrice.Type == stripe.PriceTypeRecurring {
		mode = stripe.CheckoutSessionModeSubscription
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(product.DefaultPrice.ID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
	}
	params.Context = ctx

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return gw.CheckoutSession{}, err
	}
	return gw.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (c stripeClient) ListCustomers(ctx context.Context, email string) ([]gw.Customer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx

	var customers []gw.Customer
	it := c.api.Customers.List(params)
	for it.Next() {
		cust := it.Customer()
		customers = append(customers, gw.Customer{ID: cust.ID, Email: cust.Email})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c stripeClient) CreateCustomerSession(ctx context.Context, customerID string) (gw.PortalSession, error) {
	params := &stripe.BillingPortalSessionParams{Customer: stripe.String(customerID)}
	params.Context = ctx

	session, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return gw.PortalSession{}, err
	}
	return gw.PortalSession{URL: session.URL}, nil
}

// ValidateEvent checks the Stripe-Signature header. Events signed for another API version
// are still accepted since they are relayed verbatim.
func (c stripeClient) ValidateEvent(body []byte, headers http.Header) (gw.Event, error) {
	event, err := webhook.ConstructEventWithOptions(body, headers.Get(headerSignature), c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return gw.Event{}, fmt.Errorf("%w: %v", gw.ErrVerification, err)
	}
	payload, err := gw.CanonicalJSON(body)
	if err != nil {
		return gw.Event{}, err
	}
	return gw.Event{ID: event.ID, Type: string(event.Type), Payload: payload}, nil
}
