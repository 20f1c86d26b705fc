package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port        string
	Environment string

	// Salesforce record store
	SFLoginURL      string
	SFClientID      string
	SFClientSecret  string
	SFUsername      string
	SFPassword      string
	SFSecurityToken string
	SFAPIVersion    string

	// OpenAI judgment collaborator
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Reference data
	BadDomainsPath string

	// Batch analysis
	BatchWorkers  int
	MaxAnalyzeIDs int

	// Security configuration
	AllowedOrigins string
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		SFLoginURL:      getEnv("SF_LOGIN_URL", "https://login.salesforce.com"),
		SFClientID:      getEnv("SF_CLIENT_ID", ""),
		SFClientSecret:  getEnv("SF_CLIENT_SECRET", ""),
		SFUsername:      getEnv("SF_USERNAME", ""),
		SFPassword:      getEnv("SF_PASSWORD", ""),
		SFSecurityToken: getEnv("SF_SECURITY_TOKEN", ""),
		SFAPIVersion:    getEnv("SF_API_VERSION", "v59.0"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),

		BadDomainsPath: getEnv("BAD_DOMAINS_PATH", "docs/bad_domains_latest.csv"),

		BatchWorkers:  getEnvAsInt("BATCH_WORKERS", 5),
		MaxAnalyzeIDs: getEnvAsInt("MAX_ANALYZE_IDS", 500),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasSalesforceCredentials returns true if the record-store credentials are configured
func (c *Config) HasSalesforceCredentials() bool {
	return c.SFClientID != "" && c.SFClientSecret != "" && c.SFUsername != "" && c.SFPassword != ""
}

// HasOpenAIKey returns true if the judgment collaborator is configured
func (c *Config) HasOpenAIKey() bool {
	return c.OpenAIAPIKey != ""
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{}
	}
	return strings.Split(c.AllowedOrigins, ",")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
