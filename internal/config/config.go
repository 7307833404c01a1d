package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	LogFile       string
	JWTSecret     string
	PaymentAPIURL string
	PaymentAPIKey string
	WebhookSecret string
}

func Load() Config {
	// Best-effort .env load for local development; real deployments set env.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBDSN:         getenv("DB_DSN", "paddyseed.db"), // sqlite file in project root
		LogFile:       getenv("LOG_FILE", "./paddyseed.log"),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret"),
		PaymentAPIURL: getenv("PAYMENT_API_URL", "https://api.stripe.com/v1"),
		PaymentAPIKey: os.Getenv("PAYMENT_API_KEY"),
		WebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
