package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	ServerPort    string `yaml:"server_port"`
	DatabaseType  string `yaml:"database_type"`
	DatabasePath  string `yaml:"database_path"`
	DatabaseURL   string `yaml:"database_url"`
	UploadMaxSize int64  `yaml:"upload_max_size"`

	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`

	// Bearer tokens are issued by the external identity provider.
	// An empty secret disables authentication (local development only).
	JWTSecret string `yaml:"jwt_secret"`

	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`

	GeminiAPIKey     string        `yaml:"gemini_api_key"`
	GeminiModel      string        `yaml:"gemini_model"`
	AIMaxAttempts    int           `yaml:"ai_max_attempts"`
	AIBaseDelay      time.Duration `yaml:"ai_base_delay"`
	AIMaxInputChars  int           `yaml:"ai_max_input_chars"`
	AIMaxComparisons int           `yaml:"ai_max_comparisons"`

	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUser     string `yaml:"neo4j_user"`
	Neo4jPassword string `yaml:"neo4j_password"`
	Neo4jDatabase string `yaml:"neo4j_database"`

	AWSRegion    string `yaml:"aws_region"`
	SESFromEmail string `yaml:"ses_from_email"`
	SESFromName  string `yaml:"ses_from_name"`
	AppBaseURL   string `yaml:"app_base_url"`
}

const maxAIAttempts = 10

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		ServerPort:        "8080",
		DatabaseType:      "sqlite",
		DatabasePath:      "./kinship.db",
		UploadMaxSize:     5 * 1024 * 1024, // 5MB
		LogLevel:          "info",
		RateLimitRequests: 20,
		RateLimitWindow:   time.Minute,
		GeminiModel:       "gemini-1.5-flash",
		AIMaxAttempts:     2,
		AIBaseDelay:       500 * time.Millisecond,
		AIMaxInputChars:   100000,
		AIMaxComparisons:  50,
		Neo4jDatabase:     "neo4j",
		AWSRegion:         "us-east-1",
		SESFromName:       "Kinship",
		AppBaseURL:        "http://localhost:8080",
	}
}

// Load reads configuration from an optional YAML file (CONFIG_FILE) and then
// environment variables, which take precedence
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerPort = getEnv("PORT", cfg.ServerPort)
	cfg.DatabaseType = getEnv("DATABASE_TYPE", cfg.DatabaseType)
	cfg.DatabasePath = getEnv("DB_PATH", cfg.DatabasePath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.UploadMaxSize = getEnvInt64("UPLOAD_MAX_SIZE", cfg.UploadMaxSize)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Debug = getEnvBool("DEBUG", cfg.Debug)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.RateLimitRequests = int(getEnvInt64("RATE_LIMIT_REQUESTS", int64(cfg.RateLimitRequests)))
	cfg.RateLimitWindow = getEnvDuration("RATE_LIMIT_WINDOW", cfg.RateLimitWindow)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.AIMaxAttempts = int(getEnvInt64("AI_MAX_ATTEMPTS", int64(cfg.AIMaxAttempts)))
	cfg.AIBaseDelay = getEnvDuration("AI_BASE_DELAY", cfg.AIBaseDelay)
	cfg.AIMaxInputChars = int(getEnvInt64("AI_MAX_INPUT_CHARS", int64(cfg.AIMaxInputChars)))
	cfg.AIMaxComparisons = int(getEnvInt64("AI_MAX_COMPARISONS", int64(cfg.AIMaxComparisons)))
	cfg.Neo4jURI = getEnv("NEO4J_URI", cfg.Neo4jURI)
	cfg.Neo4jUser = getEnv("NEO4J_USER", cfg.Neo4jUser)
	cfg.Neo4jPassword = getEnv("NEO4J_PASSWORD", cfg.Neo4jPassword)
	cfg.Neo4jDatabase = getEnv("NEO4J_DATABASE", cfg.Neo4jDatabase)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.SESFromEmail = getEnv("SES_FROM_EMAIL", cfg.SESFromEmail)
	cfg.SESFromName = getEnv("SES_FROM_NAME", cfg.SESFromName)
	cfg.AppBaseURL = getEnv("APP_BASE_URL", cfg.AppBaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail much later at runtime
func (c *Config) Validate() error {
	if c.AIMaxAttempts < 1 || c.AIMaxAttempts > maxAIAttempts {
		return fmt.Errorf("ai_max_attempts must be between 1 and %d, got %d", maxAIAttempts, c.AIMaxAttempts)
	}
	if c.AIBaseDelay < 0 {
		return fmt.Errorf("ai_base_delay must not be negative")
	}
	if c.RateLimitRequests < 1 {
		return fmt.Errorf("rate_limit_requests must be at least 1, got %d", c.RateLimitRequests)
	}
	if c.UploadMaxSize <= 0 {
		return fmt.Errorf("upload_max_size must be positive")
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
