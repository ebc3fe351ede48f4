package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tbeaudouin05/polar-checkout-gateway/api/config"
	"github.com/tbeaudouin05/polar-checkout-gateway/api/database"
	"github.com/tbeaudouin05/polar-checkout-gateway/api/grpcserver"
	"github.com/tbeaudouin05/polar-checkout-gateway/api/router"
	paymentsapp "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/app"
	paymentsdb "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/db"
	gw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway"
	polargw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway/polar"
	stripegw "github.com/tbeaudouin05/polar-checkout-gateway/api/services/payments/gateway/stripe"
)

// App holds the wired components of a running gateway.
type App struct {
	Config  *config.Config
	Gateway gw.PaymentGateway
	Service paymentsapp.Service
	Handler http.Handler
	GRPC    *grpcserver.Server

	db *sql.DB
}

// New initializes the payment gateway client, the optional webhook journal and the
// HTTP/gRPC surfaces from cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	g, err := NewGateway(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Gateway: g}
	opts := []paymentsapp.Option{
		paymentsapp.WithSuccessURL(cfg.PolarSuccessURL),
		paymentsapp.WithLogger(logger.With("component", "payments")),
	}

	if cfg.DatabaseURL != "" {
		app.db, err = database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.EnsureSchema(ctx, app.db); err != nil {
			_ = app.db.Close()
			return nil, err
		}
		journal := paymentsdb.NewJournal(app.db)
		n, err := journal.Count(ctx, g.Name())
		if err != nil {
			app.Close()
			return nil, err
		}
		opts = append(opts, paymentsapp.WithRecorder(journal))
		logger.Info("webhook journal enabled", "journaled_events", n)
	}

	app.Service = paymentsapp.NewService(g, opts...)
	app.Handler, err = router.NewRouter(app.Service, logger.With("component", "http"))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to build router: %w", err)
	}
	app.GRPC = grpcserver.New(logger.With("component", "grpc"))

	logger.Info("payment gateway initialized", "provider", g.Name(), "mode", cfg.PolarMode)
	return app, nil
}

// NewGateway builds the payment platform client selected by cfg.PaymentProvider.
func NewGateway(cfg *config.Config) (gw.PaymentGateway, error) {
	switch cfg.PaymentProvider {
	case config.ProviderStripe:
		return stripegw.New(cfg.AccessToken(), cfg.WebhookSecret(), nil), nil
	case config.ProviderPolar, "":
		g, err := polargw.New(polargw.Options{
			AccessToken:   cfg.AccessToken(),
			WebhookSecret: cfg.WebhookSecret(),
			Sandbox:       cfg.PolarMode == config.ModeSandbox,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create polar client: %w", err)
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported payment provider: %s", cfg.PaymentProvider)
	}
}

// Close releases the database connection, if any.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
