package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pawfect-care/service-marketplace/internal/platform/database"
)

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker connection settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// StripeConfig holds payment provider settings.
type StripeConfig struct {
	APIKey     string
	SuccessURL string
	CancelURL  string
}

// GeminiConfig holds triage assistant settings.
type GeminiConfig struct {
	APIKey string
}

// ServiceConfig holds all configuration for the marketplace service.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	DBConfig     database.PostgresConfig
	JWTConfig    JWTConfig
	KafkaConfig  KafkaConfig
	StripeConfig StripeConfig
	GeminiConfig GeminiConfig
}

// Load reads configuration from MARKETPLACE_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("MARKETPLACE")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "marketplace")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "pawfect.")
	v.SetDefault("STRIPE_SUCCESS_URL", "http://localhost:3000/payments/success")
	v.SetDefault("STRIPE_CANCEL_URL", "http://localhost:3000/payments/cancel")

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("MARKETPLACE_JWT_SECRET is required")
	}

	return &ServiceConfig{
		Port:   ":" + strings.TrimPrefix(v.GetString("SERVICE_PORT"), ":"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{Secret: secret},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		StripeConfig: StripeConfig{
			APIKey:     v.GetString("STRIPE_API_KEY"),
			SuccessURL: v.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:  v.GetString("STRIPE_CANCEL_URL"),
		},
		GeminiConfig: GeminiConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
		},
	}, nil
}
