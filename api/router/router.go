package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	paymentsapp "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/app"
)

// Route paths of the HTTP surface.
const (
	PathHome     = "/"
	PathCheckout = "/checkout"
	PathPortal   = "/portal"
	PathWebhooks = "/polar/webhooks"
)

// NewRouter returns the central HTTP router for the API using grpc-gateway's ServeMux.
// The webhook route is exempt from cross-origin protection since its caller is the payment
// platform, not a browser.
func NewRouter(svc paymentsapp.Service, logger *slog.Logger) (http.Handler, error) {
	h := &handlers{svc: svc, logger: logger}

	mux := runtime.NewServeMux(runtime.WithRoutingErrorHandler(h.routingError))
	routes := []struct {
		method string
		path   string
		handle routeHandler
	}{
		{http.MethodGet, PathHome, h.home},
		{http.MethodGet, PathCheckout, h.checkout},
		{http.MethodGet, PathPortal, h.portal},
		{http.MethodPost, PathWebhooks, h.webhook},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.path, rt.handle.serve); err != nil {
			return nil, err
		}
	}

	cop := http.NewCrossOriginProtection()
	cop.AddInsecureBypassPattern(http.MethodPost + " " + PathWebhooks)

	return withMiddleware(logger, cop.Handler(mux)), nil
}

// routingError answers requests no route matches (404, 405) with a plain text status.
func (h *handlers) routingError(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, r *http.Request, status int) {
	h.logger.Debug("no route", "method", r.Method, "path", r.URL.Path, "status", status)
	http.Error(w, http.StatusText(status), status)
}
