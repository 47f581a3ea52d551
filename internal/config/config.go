// Package config loads Traits' runtime configuration from the environment,
// following the teacher's getEnv*/Validate() shape.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Neo4j    Neo4jConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	CORS     CORSConfig
	Search   SearchConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds both relational session DSNs: the spec's two DB
// roles are modelled as two separately-configured connection strings
// rather than a single shared one with runtime SET ROLE, matching the
// "Session & Authority" design in SPEC_FULL.md.
type DatabaseConfig struct {
	AdminURL           string
	BaseURL            string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Neo4jConfig holds the graph store connection.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
}

// RedisConfig holds the advisory-lock backing store connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds session-token configuration.
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// SecurityConfig holds password-hashing and bootstrap-admin configuration.
type SecurityConfig struct {
	BcryptCost          int
	BootstrapAdminEmail string
	BootstrapAdminHash  string // bcrypt hash, never a plaintext password
}

// CORSConfig holds CORS-related configuration.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SearchConfig holds connection-search defaults referenced by spec.md §4.3.
// Only MaxLegs is passed to SearchService; DefaultLimit is loaded but not
// read, and SearchService falls back to a limit of 5 on its own.
type SearchConfig struct {
	DefaultLimit int
	MaxLegs      int
}

// Load loads configuration from environment variables, falling back to a
// .env file for local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			AdminURL:           getEnv("DATABASE_URL_ADMIN", ""),
			BaseURL:            getEnv("DATABASE_URL_BASE", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "neo4j://localhost:7687"),
			Username: getEnv("NEO4J_USER", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", ""),
			TokenExpiry: time.Duration(getEnvAsInt("JWT_TOKEN_EXPIRY", 3600)) * time.Second,
		},
		Security: SecurityConfig{
			BcryptCost:          getEnvAsInt("BCRYPT_COST", 12),
			BootstrapAdminEmail: getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
			BootstrapAdminHash:  getEnv("BOOTSTRAP_ADMIN_HASH", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Search: SearchConfig{
			DefaultLimit: getEnvAsInt("SEARCH_DEFAULT_LIMIT", 10),
			MaxLegs:      getEnvAsInt("SEARCH_MAX_LEGS", 4),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required configuration is present.
func (c *Config) Validate() error {
	if c.Database.AdminURL == "" {
		return fmt.Errorf("DATABASE_URL_ADMIN is required")
	}
	if c.Database.BaseURL == "" {
		return fmt.Errorf("DATABASE_URL_BASE is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Neo4j.URI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Search.MaxLegs <= 0 {
		return fmt.Errorf("SEARCH_MAX_LEGS must be positive")
	}
	return nil
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
		log.Printf("invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
