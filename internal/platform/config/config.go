// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the console service configuration
type Config struct {
	Server       ServerConfig       `json:"server"`
	Database     DatabaseConfig     `json:"database"`
	JWT          JWTConfig          `json:"jwt"`
	Email        EmailConfig        `json:"email"`
	Notification NotificationConfig `json:"notification"`
	Cache        CacheConfig        `json:"cache"`
	Escalation   EscalationConfig   `json:"escalation"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	BaseRoute string `json:"baseRoute"`
	WebDomain string `json:"webDomain"`
	Debug     bool   `json:"debug"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Type     string           `json:"type"`
	Postgres PostgreSQLConfig `json:"postgres"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration
type PostgreSQLConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	SSLMode         string        `json:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
	ConnectTimeout  int           `json:"connectTimeout"`
}

// JWTConfig holds the key used to verify console access tokens
type JWTConfig struct {
	PublicKey string `json:"publicKey"`
	ClaimKey  string `json:"claimKey"`
}

// EmailConfig holds email-related configuration.
// BackendURL takes precedence; SMTP is used when no backend is configured.
type EmailConfig struct {
	BackendURL string        `json:"backendUrl"`
	Timeout    time.Duration `json:"timeout"`
	SMTPEmail  string        `json:"smtpEmail"`
	SMTPHost   string        `json:"smtpHost"`
	SMTPPort   int           `json:"smtpPort"`
	SMTPUser   string        `json:"smtpUser"`
	SMTPPass   string        `json:"smtpPass"`
}

// NotificationConfig holds push notification backend configuration
type NotificationConfig struct {
	BackendURL string        `json:"backendUrl"`
	Timeout    time.Duration `json:"timeout"`
	ActorID    string        `json:"actorId"`
	ActorName  string        `json:"actorName"`
}

// CacheConfig holds dashboard statistics cache configuration
type CacheConfig struct {
	Backend   string        `json:"backend"`
	Path      string        `json:"path"`
	Namespace string        `json:"namespace"`
	TTL       time.Duration `json:"ttl"`
	Redis     RedisConfig   `json:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address      string `json:"address"`
	Password     string `json:"password"`
	Database     int    `json:"database"`
	PoolSize     int    `json:"poolSize"`
	MinIdleConns int    `json:"minIdleConns"`
}

// EscalationConfig holds status escalation configuration
type EscalationConfig struct {
	NotificationTimeout time.Duration `json:"notificationTimeout"`
	ReportedPostsLimit  int           `json:"reportedPostsLimit"`
}

var validCacheBackends = []string{"bolt", "redis", "memory"}

// LoadFromEnv loads configuration from the environment.
// It follows a clear precedence:
// 1. Explicit Environment Variables (e.g., set in the shell or by CI)
// 2. Values from the .env file (if it exists)
// 3. Hardcoded defaults
func LoadFromEnv() (*Config, error) {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	var loadErr error
	for _, envPath := range envPaths {
		loadErr = godotenv.Load(envPath)
		if loadErr == nil {
			break
		}
	}
	if loadErr != nil {
		fmt.Println("INFO: .env file not found, using environment variables and defaults.")
	}

	return build(func(key string) (string, bool) {
		value := os.Getenv(key)
		return value, value != ""
	})
}

// LoadFromMap loads configuration from an in-memory map.
// This is the primary helper for testing configuration logic in isolation
// without manipulating global environment variables.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	return build(func(key string) (string, bool) {
		value, ok := envMap[key]
		return value, ok
	})
}

type lookupFunc func(key string) (string, bool)

func build(lookup lookupFunc) (*Config, error) {
	get := func(key, defaultValue string) string {
		if value, ok := lookup(key); ok {
			return value
		}
		return defaultValue
	}
	getInt := func(key string, defaultValue int) int {
		if value, ok := lookup(key); ok {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		return defaultValue
	}
	getBool := func(key string, defaultValue bool) bool {
		if value, ok := lookup(key); ok {
			if boolValue, err := strconv.ParseBool(value); err == nil {
				return boolValue
			}
		}
		return defaultValue
	}
	getDuration := func(key string, defaultValue time.Duration) time.Duration {
		if value, ok := lookup(key); ok {
			if duration, err := time.ParseDuration(value); err == nil {
				return duration
			}
		}
		return defaultValue
	}

	config := &Config{
		Server: ServerConfig{
			Host:      get("HOST", "0.0.0.0"),
			Port:      getInt("SERVER_PORT", 8080),
			BaseRoute: get("BASE_ROUTE", "/admin"),
			WebDomain: get("WEB_DOMAIN", "http://localhost:3000"),
			Debug:     getBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Type: get("DB_TYPE", "postgresql"),
			Postgres: PostgreSQLConfig{
				Host:            get("POSTGRES_HOST", "localhost"),
				Port:            getInt("POSTGRES_PORT", 5432),
				Username:        get("POSTGRES_USERNAME", ""),
				Password:        get("POSTGRES_PASSWORD", ""),
				Database:        get("POSTGRES_DATABASE", "telar"),
				SSLMode:         get("POSTGRES_SSL_MODE", "disable"),
				MaxOpenConns:    getInt("POSTGRES_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getInt("POSTGRES_MAX_IDLE_CONNS", 25),
				ConnMaxLifetime: time.Duration(getInt("POSTGRES_CONN_MAX_LIFETIME", 300)) * time.Second,
				ConnectTimeout:  getInt("POSTGRES_CONNECT_TIMEOUT", 10),
			},
		},
		JWT: JWTConfig{
			PublicKey: get("JWT_PUBLIC_KEY", ""),
			ClaimKey:  get("JWT_CLAIM_KEY", "claim"),
		},
		Email: EmailConfig{
			BackendURL: get("EMAIL_BACKEND_URL", ""),
			Timeout:    getDuration("EMAIL_TIMEOUT", 10*time.Second),
			SMTPEmail:  get("SMTP_EMAIL", ""),
			SMTPHost:   get("SMTP_HOST", ""),
			SMTPPort:   getInt("SMTP_PORT", 587),
			SMTPUser:   get("SMTP_USER", ""),
			SMTPPass:   get("SMTP_PASS", ""),
		},
		Notification: NotificationConfig{
			BackendURL: get("NOTIFICATION_BACKEND_URL", ""),
			Timeout:    getDuration("NOTIFICATION_TIMEOUT", 10*time.Second),
			ActorID:    get("NOTIFICATION_ACTOR_ID", "system"),
			ActorName:  get("NOTIFICATION_ACTOR_NAME", "Moderation Team"),
		},
		Cache: CacheConfig{
			Backend:   get("CACHE_BACKEND", "bolt"),
			Path:      get("CACHE_PATH", "data/console-cache.db"),
			Namespace: get("CACHE_NAMESPACE", "dashboard_cache"),
			TTL:       getDuration("CACHE_TTL", 5*time.Minute),
			Redis: RedisConfig{
				Address:      get("REDIS_ADDRESS", "localhost:6379"),
				Password:     get("REDIS_PASSWORD", ""),
				Database:     getInt("REDIS_DATABASE", 0),
				PoolSize:     getInt("REDIS_POOL_SIZE", 10),
				MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			},
		},
		Escalation: EscalationConfig{
			NotificationTimeout: getDuration("ESCALATION_NOTIFICATION_TIMEOUT", 15*time.Second),
			ReportedPostsLimit:  getInt("ESCALATION_REPORTED_POSTS_LIMIT", 5),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.JWT.PublicKey) == "" {
		errors = append(errors, "JWT_PUBLIC_KEY is required")
	}

	validDbTypes := []string{"postgresql"}
	if !contains(validDbTypes, c.Database.Type) {
		errors = append(errors, fmt.Sprintf("DB_TYPE must be one of: %s", strings.Join(validDbTypes, ", ")))
	}

	if !contains(validCacheBackends, c.Cache.Backend) {
		errors = append(errors, fmt.Sprintf("CACHE_BACKEND must be one of: %s", strings.Join(validCacheBackends, ", ")))
	}
	if c.Cache.TTL <= 0 {
		errors = append(errors, "CACHE_TTL must be positive")
	}
	if c.Cache.Backend == "bolt" && strings.TrimSpace(c.Cache.Path) == "" {
		errors = append(errors, "CACHE_PATH is required for the bolt backend")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// SMTPEnabled reports whether an SMTP fallback transport is configured
func (e EmailConfig) SMTPEnabled() bool {
	return e.SMTPHost != ""
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
