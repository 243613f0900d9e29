package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Anthropic AnthropicConfig
	Stripe    StripeConfig
	Pexels    PexelsConfig
	R2        R2Config
	Auth      AuthConfig
}

type ServerConfig struct {
	Port      string
	PublicURL string
}

type DatabaseConfig struct {
	URL string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type StripeConfig struct {
	SecretKey       string
	WebhookSecret   string
	StarterPriceID  string
	BusinessPriceID string
	AgencyPriceID   string
}

type PexelsConfig struct {
	APIKey string
}

type R2Config struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	CDNBase    string
}

type AuthConfig struct {
	// JWTSecret enables bearer-token verification. When empty, the opaque
	// userId in the request body/query is trusted as the caller identity
	// and verification stays with the external auth provider.
	JWTSecret string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "3000"),
			PublicURL: getEnv("PUBLIC_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Anthropic: AnthropicConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		},
		Stripe: StripeConfig{
			SecretKey:       getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:   getEnv("STRIPE_WEBHOOK_SECRET", ""),
			StarterPriceID:  getEnv("STRIPE_PRICE_STARTER", ""),
			BusinessPriceID: getEnv("STRIPE_PRICE_BUSINESS", ""),
			AgencyPriceID:   getEnv("STRIPE_PRICE_AGENCY", ""),
		},
		Pexels: PexelsConfig{
			APIKey: getEnv("PEXELS_API_KEY", ""),
		},
		R2: R2Config{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			CDNBase:    getEnv("R2_CDN_BASE", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
