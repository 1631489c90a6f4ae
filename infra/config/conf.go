package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// App holds the runtime configuration of the payment service, read from
// the environment once at startup.
type App struct {
	Port            string
	DatabasePath    string
	OpenSearchURL   string
	OpenSearchUser  string
	OpenSearchPass  string
	EnableAudit     bool
	DefaultTestMode bool
}

var (
	appInstance *App
	validate    = validator.New()
)

// Get returns the process-wide application configuration.
func Get() *App {
	if appInstance == nil {
		appInstance = &App{
			Port:            GetEnv("APP_PORT", "9999"),
			DatabasePath:    GetEnv("DATABASE_PATH", "data/payment.db"),
			OpenSearchURL:   GetEnv("OPENSEARCH_URL", "http://localhost:9200"),
			OpenSearchUser:  GetEnv("OPENSEARCH_USER", ""),
			OpenSearchPass:  GetEnv("OPENSEARCH_PASSWORD", ""),
			EnableAudit:     GetBoolEnv("ENABLE_AUDIT_LOGGING", true),
			DefaultTestMode: GetBoolEnv("DEFAULT_TEST_MODE", true),
		}
	}
	return appInstance
}

// Validator returns the shared struct validator used by the HTTP layer.
func Validator() *validator.Validate {
	return validate
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetIntEnv returns the integer value of an environment variable or a default value
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
