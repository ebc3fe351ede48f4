package app

import (
	"context"

	gw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway"
)

// Parameter names of the HTTP surface.
const (
	ParamProducts = "products"
	ParamEmail    = "email"
)

// EventRecorder keeps a journal of verified webhook deliveries.
type EventRecorder interface {
	Record(ctx context.Context, provider string, event gw.Event) error
}
