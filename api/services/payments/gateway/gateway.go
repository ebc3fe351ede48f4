package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrVerification is returned by ValidateEvent when a webhook payload does not carry a
// valid signature for the configured secret.
var ErrVerification = errors.New("webhook verification failed")

//go:generate mockgen -source=gateway.go -destination=mock/gateway_mock.go

// PaymentGateway abstracts the payment platform operations needed by the app layer.
// Methods return values (not pointers) to keep SDK types out of the public interface.
type PaymentGateway interface {
	// Name returns the provider name (e.g., "polar", "stripe").
	Name() string
	ListProducts(ctx context.Context) ([]Product, error)
	CreateCheckout(ctx context.Context, productID, successURL string) (CheckoutSession, error)
	ListCustomers(ctx context.Context, email string) ([]Customer, error)
	CreateCustomerSession(ctx context.Context, customerID string) (PortalSession, error)
	ValidateEvent(body []byte, headers http.Header) (Event, error)
}

// Product is a catalog entry of the payment platform.
type Product struct {
	ID       string
	Name     string
	Archived bool
}

type Customer struct {
	ID    string
	Email string
}

// CheckoutSession is an in-progress purchase the buyer is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// PortalSession is a short-lived link to the customer billing portal.
type PortalSession struct {
	URL string
}

// Event is a verified webhook delivery. Payload holds the canonical JSON rendering.
type Event struct {
	ID      string
	Type    string
	Payload json.RawMessage
}
