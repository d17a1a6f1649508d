package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Client holds configuration for the storefront SDK and CLI.
type Client struct {
	BackendURL      string
	HTTPTimeout     time.Duration
	RefreshInterval time.Duration
	CredentialFile  string
	Env             string
}

// Stub holds configuration for the local stub backend.
type Stub struct {
	Port         string
	JWTSecret    string
	RedisURL     string
	KafkaBrokers string
	KafkaTopic   string
	StripeKey    string
	UploadDir    string
	Env          string
}

// LoadClient reads client configuration from the environment (a .env file is
// honored when present).
func LoadClient() Client {
	_ = godotenv.Load()
	return Client{
		BackendURL:      getEnv("BACKEND_URI", "http://localhost:5000"),
		HTTPTimeout:     getDuration("HTTP_TIMEOUT", 15*time.Second),
		RefreshInterval: getDuration("TOKEN_REFRESH_INTERVAL", 10*time.Minute),
		CredentialFile:  getEnv("CREDENTIAL_FILE", defaultCredentialFile()),
		Env:             getEnv("APP_ENV", "development"),
	}
}

// LoadStub reads stub-server configuration from the environment. Redis, Kafka
// and Stripe are optional; the server falls back to in-memory stores and a
// built-in payment stub when they are unset.
func LoadStub() Stub {
	_ = godotenv.Load()
	return Stub{
		Port:         getEnv("PORT", "5000"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		RedisURL:     getEnv("REDIS_URL", ""),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order.placed"),
		StripeKey:    getEnv("STRIPE_SECRET_KEY", ""),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		Env:          getEnv("APP_ENV", "development"),
	}
}

func defaultCredentialFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront-credentials.json"
	}
	return dir + "/storefront/credentials.json"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultVal
}
