// Package config loads process-wide settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dharmasatrya/flyhigh/internal/models"
)

type Config struct {
	Server        ServerConfig
	Proxy         ProxyConfig
	Scraper       ScraperConfig
	Provider      ProviderConfig
	Redis         RedisConfig
	TxLog         TxLogConfig
	LLM           LLMConfig
	Timezone      string
	DefaultOrigin string
	SessionTTL    time.Duration
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

// ProxyConfig holds the forward proxy every scrape is tunnelled through.
type ProxyConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

type ScraperConfig struct {
	UserAgent      string
	AcceptLanguage string
	Accept         string
	Referer        string
	// MaxBodyBytes of 0 leaves the response body unbounded.
	MaxBodyBytes      int
	RequestsPerSecond float64
	Burst             int
}

type ProviderConfig struct {
	Name    string
	BaseURL string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type TxLogConfig struct {
	MaxEntries      int
	MaxContentBytes int
}

type LLMConfig struct {
	APIKey      string
	APIBase     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Enabled     bool
}

const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	DefaultReferer        = "https://www.google.com/"
)

// Load reads configuration from environment variables, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Proxy: ProxyConfig{
			Host:     getEnv("PROXY_HOST", ""),
			Port:     getEnv("PROXY_PORT", ""),
			Username: getEnv("PROXY_USER", ""),
			Password: getEnv("PROXY_PASSWORD", ""),
		},
		Scraper: ScraperConfig{
			UserAgent:         getEnv("SCRAPER_USER_AGENT", DefaultUserAgent),
			AcceptLanguage:    getEnv("SCRAPER_ACCEPT_LANGUAGE", DefaultAcceptLanguage),
			Accept:            getEnv("SCRAPER_ACCEPT", DefaultAccept),
			Referer:           getEnv("SCRAPER_REFERER", DefaultReferer),
			MaxBodyBytes:      getEnvAsInt("SCRAPER_MAX_BODY_BYTES", 0),
			RequestsPerSecond: getEnvAsFloat("SCRAPER_RPS", 2),
			Burst:             getEnvAsInt("SCRAPER_BURST", 4),
		},
		Provider: ProviderConfig{
			Name:    getEnv("PROVIDER_NAME", "Google Flights"),
			BaseURL: getEnv("PROVIDER_BASE_URL", "https://www.google.com"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("TXLOG_REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		TxLog: TxLogConfig{
			MaxEntries:      getEnvAsInt("TXLOG_MAX_ENTRIES", 5),
			MaxContentBytes: getEnvAsInt("TXLOG_MAX_CONTENT_BYTES", 64*1024),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("LLM_API_KEY", ""),
			APIBase:     getEnv("LLM_API_BASE", "https://api.openai.com/v1"),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			Timeout:     getEnvDuration("LLM_TIMEOUT", 60*time.Second),
			Enabled:     getEnv("LLM_API_KEY", "") != "",
		},
		Timezone:      getEnv("APP_TIMEZONE", "Europe/London"),
		DefaultOrigin: getEnv("DEFAULT_ORIGIN", "Glasgow"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*time.Minute),
	}

	return cfg, nil
}

// Validate reports every missing proxy setting at once.
func (p ProxyConfig) Validate() error {
	var missing []string
	if p.Host == "" {
		missing = append(missing, "PROXY_HOST")
	}
	if p.Port == "" {
		missing = append(missing, "PROXY_PORT")
	}
	if p.Username == "" {
		missing = append(missing, "PROXY_USER")
	}
	if p.Password == "" {
		missing = append(missing, "PROXY_PASSWORD")
	}
	if len(missing) > 0 {
		return &models.ConfigurationError{Missing: missing}
	}
	return nil
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
