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

const (
	StoreDynamoDB = "dynamodb"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

var defaultAllowedOrigins = []string{
	"http://13.54.66.195",
	"http://localhost:3000",
	"https://www.gymsuite.ai",
	"https://gymsuite.ai",
}

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Dynamo   DynamoConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Firebase FirebaseConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	APIPrefix      string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type StoreConfig struct {
	Driver  string
	Timeout time.Duration
}

type DynamoConfig struct {
	Region         string
	Endpoint       string
	UsersTable     string
	RecordsTable   string
	CountersTable  string
	EmailIndex     string
	EmailClubIndex string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
}

type AuthConfig struct {
	JWTSecret          string
	TokenTTL           time.Duration
	ResetTokenTTL      time.Duration
	BcryptCost         int
	RequireAuth        bool
	ResetSweepSchedule string
}

type FirebaseConfig struct {
	CredentialsPath string
}

type AppConfig struct {
	Name        string
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8082"),
			APIPrefix:      getEnv("API_PREFIX", "/api/v1"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Store: StoreConfig{
			Driver:  strings.ToLower(getEnv("STORE_DRIVER", StoreDynamoDB)),
			Timeout: getEnvAsDuration("STORE_TIMEOUT", 5*time.Second),
		},
		Dynamo: DynamoConfig{
			Region:         getEnv("AWS_REGION", "ap-southeast-2"),
			Endpoint:       getEnv("DYNAMODB_ENDPOINT", ""),
			UsersTable:     getEnv("TABLE_NAME", "users"),
			RecordsTable:   getEnv("MODAL_TABLE_NAME", "data_model"),
			CountersTable:  getEnv("COUNTER_TABLE_NAME", "counters"),
			EmailIndex:     getEnv("EMAIL_INDEX", "email-index"),
			EmailClubIndex: getEnv("EMAIL_CLUB_INDEX", "email-club-index"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			TokenTTL:           getEnvAsDuration("JWT_TTL", time.Hour),
			ResetTokenTTL:      getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 10),
			RequireAuth:        getEnvAsBool("REQUIRE_AUTH", false),
			ResetSweepSchedule: os.Getenv("RESET_SWEEP_SCHEDULE"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		App: AppConfig{
			Name:        getEnv("APP_NAME", "gymsuite-backend"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if _, set := os.LookupEnv("RESET_SWEEP_SCHEDULE"); !set {
		cfg.Auth.ResetSweepSchedule = "@every 15m"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Store.Driver {
	case StoreDynamoDB, StoreRedis:
	case StorePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
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
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
