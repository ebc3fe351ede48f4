package config

const (
	// ProviderPolar selects the Polar-backed payment gateway
	ProviderPolar = "polar"
	// ProviderStripe selects the Stripe-backed payment gateway
	ProviderStripe = "stripe"

	// ModeProduction targets the live Polar API
	ModeProduction = "production"
	// ModeSandbox targets the Polar sandbox API
	ModeSandbox = "sandbox"

	DefaultHTTPPort = "8080"
	DefaultGRPCPort = "50051"
)

// Environment variable names. They double as viper keys so flags can be bound to them.
const (
	EnvPaymentProvider     = "PAYMENT_PROVIDER"
	EnvPolarMode           = "POLAR_MODE"
	EnvPolarSuccessURL     = "POLAR_SUCCESS_URL"
	EnvPolarAccessToken    = "POLAR_ACCESS_TOKEN"
	EnvPolarWebhookSecret  = "POLAR_WEBHOOK_SECRET"
	EnvStripeSecretKey     = "STRIPE_SECRET_KEY"
	EnvStripeWebhookSecret = "STRIPE_WEBHOOK_SECRET"
	EnvDatabaseURL         = "DATABASE_URL"
	EnvIntegrationBaseURL  = "INTEGRATION_BASE_URL"
	EnvHTTPPort            = "PORT"
	EnvGRPCPort            = "GRPC_PORT"
)
