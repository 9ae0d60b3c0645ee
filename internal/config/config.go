package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	CORSAllowedOrigins []string
	AdminJWTSecret     string

	// CRM (GoHighLevel) Configuration
	CRMAPIKey     string
	CRMBaseURL    string
	CRMLocationID string
	CRMCalendarID string
	CRMWebhookURL string

	// Property data providers
	AttomAPIKey       string
	AttomBaseURL      string
	RealtyMoleAPIKey  string
	RealtyMoleBaseURL string

	// SendGrid Email Configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Funnel / scarcity settings
	SlotAllocation     int
	ProgressTTL        time.Duration
	UpstreamTimeout    time.Duration
	SchedulingDays     int
	SchedulingSlotMins int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),

		// CRM (GoHighLevel) Configuration
		CRMAPIKey:     getEnv("CRM_API_KEY", ""),
		CRMBaseURL:    getEnv("CRM_BASE_URL", "https://rest.gohighlevel.com/v1"),
		CRMLocationID: getEnv("CRM_LOCATION_ID", ""),
		CRMCalendarID: getEnv("CRM_CALENDAR_ID", ""),
		CRMWebhookURL: getEnv("CRM_WEBHOOK_URL", ""),

		// Property data providers
		AttomAPIKey:       getEnv("ATTOM_API_KEY", ""),
		AttomBaseURL:      getEnv("ATTOM_BASE_URL", "https://api.gateway.attomdata.com/propertyapi/v1.0.0"),
		RealtyMoleAPIKey:  getEnv("REALTYMOLE_API_KEY", ""),
		RealtyMoleBaseURL: getEnv("REALTYMOLE_BASE_URL", "https://realty-mole-property-api.p.rapidapi.com"),

		// SendGrid Email Configuration
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "SwiftHomeOffer"),

		// Funnel / scarcity settings
		SlotAllocation:     getEnvAsInt("SLOT_ALLOCATION", 10),
		ProgressTTL:        getEnvAsDuration("PROGRESS_TTL", 24*time.Hour),
		UpstreamTimeout:    getEnvAsDuration("UPSTREAM_TIMEOUT", 12*time.Second),
		SchedulingDays:     getEnvAsInt("SCHEDULING_DAYS", 14),
		SchedulingSlotMins: getEnvAsInt("SCHEDULING_SLOT_MINS", 30),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
