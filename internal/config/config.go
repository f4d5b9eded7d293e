package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Stripe     StripeConfig     `yaml:"stripe"`
	SendGrid   SendGridConfig   `yaml:"sendgrid"`
	Firestore  FirestoreConfig  `yaml:"firestore"`
	Admin      AdminConfig      `yaml:"admin"`
	Notify     NotifyConfig     `yaml:"notify"`
	QuickBooks QuickBooksConfig `yaml:"quickbooks"`
	Rates      map[string]Rate  `yaml:"rates"`
	Reviews    []ApprovedReview `yaml:"reviews"`
	Log        LogConfig        `yaml:"log"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StripeConfig contains payment provider settings
type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
}

// SendGridConfig contains email provider settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// FirestoreConfig contains record store settings. Credentials hold the
// service-account JSON; when empty the record store is disabled and
// persistence is skipped with a warning.
type FirestoreConfig struct {
	ProjectID   string `yaml:"project_id"`
	Credentials string `yaml:"credentials"`
}

// AdminConfig contains the shared-secret settings for admin endpoints.
// Secret may be a plaintext value or a bcrypt hash (prefixed "$2").
type AdminConfig struct {
	Secret             string `yaml:"secret"`
	TokenSecret        string `yaml:"token_secret"`
	TokenExpiryMinutes int    `yaml:"token_expiry_minutes"`
}

// NotifyConfig contains notification recipient settings
type NotifyConfig struct {
	Recipient string `yaml:"recipient"`
}

// QuickBooksConfig contains accounting integration settings. The
// integration is disabled when ClientID is empty.
type QuickBooksConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	Environment  string `yaml:"environment"` // "sandbox" or "production"
}

// Rate is a per-trailer-model set of unit prices in whole dollars
type Rate struct {
	Hourly  int64 `yaml:"hourly"`
	Daily   int64 `yaml:"daily"`
	Weekly  int64 `yaml:"weekly"`
	Monthly int64 `yaml:"monthly"`
}

// ApprovedReview is a curated customer review served by the reviews endpoint
type ApprovedReview struct {
	Name    string `yaml:"name"`
	Rating  int    `yaml:"rating"`
	Trailer string `yaml:"trailer"`
	Review  string `yaml:"review"`
	Date    string `yaml:"date"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	DailyBookingSummary string `yaml:"daily_booking_summary"`
	PruneWebhookDedup   string `yaml:"prune_webhook_dedup"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Stripe
	if val := os.Getenv("STRIPE_SECRET_KEY"); val != "" {
		c.Stripe.SecretKey = val
	}
	if val := os.Getenv("STRIPE_WEBHOOK_SECRET"); val != "" {
		c.Stripe.WebhookSecret = val
	}
	if val := os.Getenv("CHECKOUT_SUCCESS_URL"); val != "" {
		c.Stripe.SuccessURL = val
	}
	if val := os.Getenv("CHECKOUT_CANCEL_URL"); val != "" {
		c.Stripe.CancelURL = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}
	if val := os.Getenv("SENDGRID_FROM_NAME"); val != "" {
		c.SendGrid.FromName = val
	}

	// Firestore
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Firestore.ProjectID = val
	}
	if val := os.Getenv("FIREBASE_SERVICE_ACCOUNT"); val != "" {
		c.Firestore.Credentials = val
	}

	// Admin
	if val := os.Getenv("ADMIN_PASSWORD"); val != "" {
		c.Admin.Secret = val
	}
	if val := os.Getenv("ADMIN_TOKEN_SECRET"); val != "" {
		c.Admin.TokenSecret = val
	}

	// Notifications
	if val := os.Getenv("NOTIFY_RECIPIENT"); val != "" {
		c.Notify.Recipient = val
	}

	// QuickBooks
	if val := os.Getenv("QB_CLIENT_ID"); val != "" {
		c.QuickBooks.ClientID = val
	}
	if val := os.Getenv("QB_CLIENT_SECRET"); val != "" {
		c.QuickBooks.ClientSecret = val
	}
	if val := os.Getenv("QB_REDIRECT_URI"); val != "" {
		c.QuickBooks.RedirectURL = val
	}
	if val := os.Getenv("QB_ENVIRONMENT"); val != "" {
		c.QuickBooks.Environment = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Stripe validation
	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("stripe secret key is required")
	}
	if c.Stripe.SuccessURL == "" {
		return fmt.Errorf("checkout success URL is required")
	}
	if c.Stripe.CancelURL == "" {
		return fmt.Errorf("checkout cancel URL is required")
	}

	// SendGrid validation
	if c.SendGrid.APIKey == "" {
		return fmt.Errorf("sendgrid API key is required")
	}
	if c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from address is required")
	}

	// Admin validation
	if c.Admin.Secret == "" {
		return fmt.Errorf("admin secret is required")
	}
	if c.Admin.TokenSecret == "" {
		return fmt.Errorf("admin token secret is required")
	}
	if len(c.Admin.TokenSecret) < 32 {
		return fmt.Errorf("admin token secret must be at least 32 characters")
	}
	if c.Admin.TokenExpiryMinutes == 0 {
		c.Admin.TokenExpiryMinutes = 60
	}

	// Notification validation
	if c.Notify.Recipient == "" {
		return fmt.Errorf("notification recipient is required")
	}

	// Rate validation: a configured rate must carry all four unit prices
	for model, rate := range c.Rates {
		if rate.Hourly <= 0 || rate.Daily <= 0 || rate.Weekly <= 0 || rate.Monthly <= 0 {
			return fmt.Errorf("rate for %q must have positive hourly, daily, weekly and monthly prices", model)
		}
	}

	// QuickBooks defaults
	if c.QuickBooks.ClientID != "" && c.QuickBooks.Environment == "" {
		c.QuickBooks.Environment = "sandbox"
	}

	// Scheduler defaults
	if c.Scheduler.DailyBookingSummary == "" {
		c.Scheduler.DailyBookingSummary = "0 0 7 * * *" // 7 AM UTC
	}
	if c.Scheduler.PruneWebhookDedup == "" {
		c.Scheduler.PruneWebhookDedup = "0 30 3 * * *" // 3:30 AM UTC
	}

	return nil
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
