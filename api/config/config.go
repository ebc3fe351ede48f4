package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	PaymentProvider string
	// Polar settings. PolarMode selects the backend environment the client targets.
	PolarMode          string
	PolarSuccessURL    string
	PolarAccessToken   string
	PolarWebhookSecret string
	// Stripe settings, only read when PaymentProvider is "stripe"
	StripeSecretKey     string
	StripeWebhookSecret string
	// Optional: enables the webhook journal when set
	DatabaseURL string
	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string
	// Server ports
	HTTPPort string
	GRPCPort string
}

type envVar struct {
	name     string
	envVar   string
	display  string
	required bool
}

// LoadConfig loads configuration from environment variables, an optional .env file and
// any flags bound to v. A nil v reads the environment only.
func LoadConfig(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	config := &Config{}
	config.PaymentProvider = v.GetString(EnvPaymentProvider)
	if config.PaymentProvider == "" {
		config.PaymentProvider = ProviderPolar
	}
	if config.PaymentProvider != ProviderPolar && config.PaymentProvider != ProviderStripe {
		return nil, fmt.Errorf("invalid payment provider: %s", config.PaymentProvider)
	}
	isPolar := config.PaymentProvider == ProviderPolar

	vars := []envVar{
		{"PolarMode", EnvPolarMode, "Polar Mode", false},
		{"PolarSuccessURL", EnvPolarSuccessURL, "Polar Success URL", false},
		{"PolarAccessToken", EnvPolarAccessToken, "Polar Access Token", isPolar},
		{"PolarWebhookSecret", EnvPolarWebhookSecret, "Polar Webhook Secret", isPolar},
		{"StripeSecretKey", EnvStripeSecretKey, "Stripe Secret Key", !isPolar},
		{"StripeWebhookSecret", EnvStripeWebhookSecret, "Stripe Webhook Secret", !isPolar},
		// Optional webhook journal
		{"DatabaseURL", EnvDatabaseURL, "Database URL", false},
		// Optional integration base URL for remote tests
		{"IntegrationBaseURL", EnvIntegrationBaseURL, "Integration Base URL", false},
		// Optional server ports
		{"HTTPPort", EnvHTTPPort, "HTTP Port", false},
		{"GRPCPort", EnvGRPCPort, "gRPC Port", false},
	}

	for _, ev := range vars {
		value := v.GetString(ev.envVar)
		if ev.required && value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", ev.display)
		}
		configField := reflect.ValueOf(config).Elem().FieldByName(ev.name)
		configField.SetString(value)
	}

	// Defaults
	if config.PolarMode == "" {
		config.PolarMode = ModeProduction
	}
	if config.PolarMode != ModeProduction && config.PolarMode != ModeSandbox {
		return nil, fmt.Errorf("invalid %s: %s", EnvPolarMode, config.PolarMode)
	}
	if config.HTTPPort == "" {
		config.HTTPPort = DefaultHTTPPort
	}
	if config.GRPCPort == "" {
		config.GRPCPort = DefaultGRPCPort
	}

	return config, nil
}

// AccessToken returns the credential of the selected payment provider.
func (c *Config) AccessToken() string {
	if c.PaymentProvider == ProviderStripe {
		return c.StripeSecretKey
	}
	return c.PolarAccessToken
}

// WebhookSecret returns the webhook shared secret of the selected payment provider.
func (c *Config) WebhookSecret() string {
	if c.PaymentProvider == ProviderStripe {
		return c.StripeWebhookSecret
	}
	return c.PolarWebhookSecret
}

// loadDotEnv loads the first .env file found in the current directory or its parents.
// Variables already present in the environment are not overridden.
func loadDotEnv() error {
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("failed to load .env file: %v", err)
			}
			return nil
		}
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}
	return nil
}
