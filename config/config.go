package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Stripe
	StripeSecretKey string

	// Hosted backend (database + auth)
	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseAnonKey        string

	// Direct database access (optional, takes precedence over the REST data store)
	DatabaseURL       string
	DBSSLMode         string
	DBSSLCertPath     string
	DBSSLKeyPath      string
	DBSSLRootCertPath string

	// Redis (auth-state signals)
	RedisURL string

	// Frontend
	FrontendURL string
	PlatformURL string

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Pricing
	TokenUnitPrice int

	// Signup wizard
	SignupConfirmationTimeout time.Duration
	SignupSessionTTL          time.Duration
	AuthHookSecret            string
	SupabaseJWTSecret         string

	// Logging
	LogLevel string

	// Sentry
	SentryDSN         string
	SentryEnvironment string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "8080"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Stripe
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),

		// Hosted backend
		SupabaseURL:            strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseAnonKey:        getEnv("SUPABASE_ANON_KEY", ""),

		// Database
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBSSLMode:         getEnv("DB_SSL_MODE", ""),
		DBSSLCertPath:     getEnv("DB_SSL_CERT_PATH", ""),
		DBSSLKeyPath:      getEnv("DB_SSL_KEY_PATH", ""),
		DBSSLRootCertPath: getEnv("DB_SSL_ROOT_CERT_PATH", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Frontend
		FrontendURL: getEnv("FRONTEND_URL", ""),
		PlatformURL: getEnv("URL", ""),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 10),

		// Pricing
		TokenUnitPrice: getEnvAsInt("TOKEN_UNIT_PRICE", 5),

		// Signup wizard
		SignupConfirmationTimeout: getEnvAsDuration("SIGNUP_CONFIRMATION_TIMEOUT", 5*time.Minute),
		SignupSessionTTL:          getEnvAsDuration("SIGNUP_SESSION_TTL", 30*time.Minute),
		AuthHookSecret:            getEnv("AUTH_HOOK_SECRET", ""),
		SupabaseJWTSecret:         getEnv("SUPABASE_JWT_SECRET", ""),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),
	}
}

// HasDataStore reports whether a plan data store is configured, either a direct
// database connection or the hosted backend URL plus its privileged key.
func (c *Config) HasDataStore() bool {
	if c.DatabaseURL != "" {
		return true
	}
	return c.SupabaseURL != "" && c.SupabaseServiceRoleKey != ""
}

// CheckoutConfigured reports whether both the payment gateway and a data store are configured.
func (c *Config) CheckoutConfigured() bool {
	return c.StripeSecretKey != "" && c.HasDataStore()
}

// SignupKey returns the key used for account creation requests.
func (c *Config) SignupKey() string {
	if c.SupabaseAnonKey != "" {
		return c.SupabaseAnonKey
	}
	return c.SupabaseServiceRoleKey
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}

	return values
}
