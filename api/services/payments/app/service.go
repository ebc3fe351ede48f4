package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	gw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway"
)

// Service defines the operations behind the four HTTP routes.
type Service interface {
	ListProducts(ctx context.Context) ([]gw.Product, error)
	CreateCheckout(ctx context.Context, products, host string) (string, error)
	OpenPortal(ctx context.Context, email string) (string, error)
	RelayWebhook(ctx context.Context, body []byte, headers http.Header) (json.RawMessage, error)
}

type Option func(*serviceImpl)

// WithSuccessURL overrides the post-checkout redirect derived from the request host.
func WithSuccessURL(url string) Option {
	return func(s *serviceImpl) { s.successURL = url }
}

// WithRecorder journals every verified webhook delivery.
func WithRecorder(r EventRecorder) Option {
	return func(s *serviceImpl) { s.recorder = r }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *serviceImpl) { s.logger = logger }
}

type serviceImpl struct {
	gw         gw.PaymentGateway
	successURL string
	recorder   EventRecorder
	logger     *slog.Logger
}

func NewService(g gw.PaymentGateway, opts ...Option) Service {
	s := &serviceImpl{gw: g, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListProducts returns the non-archived catalog.
func (s *serviceImpl) ListProducts(ctx context.Context) ([]gw.Product, error) {
	products, err := s.gw.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: error fetching products: %v", ErrGateway, err)
	}
	return products, nil
}

// CreateCheckout creates a checkout session for the first product of the list and returns
// the URL to redirect the buyer to.
func (s *serviceImpl) CreateCheckout(ctx context.Context, products, host string) (string, error) {
	if products == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, ParamProducts)
	}
	productID := FirstProductID(products)
	successURL := SuccessURL(s.successURL, host)

	session, err := s.gw.CreateCheckout(ctx, productID, successURL)
	if err != nil {
		return "", fmt.Errorf("%w: error creating checkout: %v", ErrGateway, err)
	}
	s.logger.Info("checkout created", "product_id", productID, "checkout_id", session.ID)
	return session.URL, nil
}

// OpenPortal looks the customer up by email and returns a customer portal URL.
func (s *serviceImpl) OpenPortal(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, ParamEmail)
	}
	customers, err := s.gw.ListCustomers(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%w: error fetching customer: %v", ErrGateway, err)
	}
	if len(customers) == 0 {
		return "", fmt.Errorf("%w: customer", ErrNotFound)
	}

	session, err := s.gw.CreateCustomerSession(ctx, customers[0].ID)
	if err != nil {
		return "", fmt.Errorf("%w: error creating portal session: %v", ErrGateway, err)
	}
	return session.URL, nil
}

// RelayWebhook verifies a webhook delivery and returns the canonical JSON of the event.
func (s *serviceImpl) RelayWebhook(ctx context.Context, body []byte, headers http.Header) (json.RawMessage, error) {
	event, err := s.gw.ValidateEvent(body, headers)
	if err != nil {
		if errors.Is(err, ErrVerification) {
			s.logger.Warn("webhook verification failed", "provider", s.gw.Name(), "err", err)
			return nil, err
		}
		return nil, fmt.Errorf("%w: error validating webhook: %v", ErrGateway, err)
	}
	s.logger.Info("webhook received", "provider", s.gw.Name(), "event_id", event.ID, "event_type", event.Type)

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, s.gw.Name(), event); err != nil {
			s.logger.Error("failed to record webhook event", "event_id", event.ID, "err", err)
		}
	}
	return event.Payload, nil
}
