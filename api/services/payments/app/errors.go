package app

import (
	"errors"
	"net/http"

	gw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway"
)

// Typed errors for the payments app layer. These enable HTTP mapping without
// relying on SDK-specific error types at the transport layer.
var (
	// ErrMissingParameter indicates a required query parameter was absent or empty.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrNotFound indicates the requested entity does not exist on the payment platform.
	ErrNotFound = errors.New("not found")
	// ErrVerification indicates a webhook payload failed signature verification.
	ErrVerification = gw.ErrVerification
	// ErrGateway indicates a failure from the payment gateway / API calls.
	ErrGateway = errors.New("gateway error")
)

// StatusFor maps an app error to its HTTP status code. Unclassified errors are upstream
// failures.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingParameter):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrVerification):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
