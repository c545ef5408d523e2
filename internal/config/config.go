package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/driverwallet/shift-backend-go/internal/domain/shift"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	App      AppConfig
	Shift    ShiftConfig
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

type AuthConfig struct {
	PINHash            string
	LoginRatePerMinute int
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// ShiftConfig holds the shift policy and background intervals
type ShiftConfig struct {
	EarlyStartWindow time.Duration
	AutoFinishGrace  time.Duration
	AbsentGrace      time.Duration
	LatePolicy       shift.LatePolicy
	SweepInterval    time.Duration
	StreamInterval   time.Duration
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "shift_wallet"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "shift_wallet.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", ""),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	accessExpiration, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", "12h")
	if err != nil {
		return nil, err
	}
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	loginRate, err := strconv.Atoi(getEnv("AUTH_LOGIN_RATE_PER_MINUTE", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_LOGIN_RATE_PER_MINUTE: %w", err)
	}
	config.Auth = AuthConfig{
		PINHash:            getEnv("AUTH_PIN_HASH", ""),
		LoginRatePerMinute: loginRate,
	}

	// Shift policy
	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"SHIFT_EARLY_START_WINDOW", "30m", &config.Shift.EarlyStartWindow},
		{"SHIFT_AUTO_FINISH_GRACE", "0s", &config.Shift.AutoFinishGrace},
		{"SHIFT_ABSENT_GRACE", "0s", &config.Shift.AbsentGrace},
		{"SWEEP_INTERVAL", "1m", &config.Shift.SweepInterval},
		{"STATUS_STREAM_INTERVAL", "1s", &config.Shift.StreamInterval},
	}
	for _, d := range durations {
		if *d.dst, err = getEnvDuration(d.key, d.fallback); err != nil {
			return nil, err
		}
	}
	config.Shift.LatePolicy = shift.LatePolicy(strings.ToLower(getEnv("SHIFT_LATE_POLICY", string(shift.LatePolicyCompare))))

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Auth.PINHash == "" {
		return fmt.Errorf("AUTH_PIN_HASH is required")
	}
	if c.Auth.LoginRatePerMinute <= 0 {
		return fmt.Errorf("AUTH_LOGIN_RATE_PER_MINUTE must be positive")
	}

	if c.Shift.EarlyStartWindow < 0 {
		return fmt.Errorf("SHIFT_EARLY_START_WINDOW must not be negative")
	}
	if c.Shift.AutoFinishGrace < 0 || c.Shift.AbsentGrace < 0 {
		return fmt.Errorf("shift grace periods must not be negative")
	}
	if !c.Shift.LatePolicy.Valid() {
		return fmt.Errorf("unsupported SHIFT_LATE_POLICY %q", c.Shift.LatePolicy)
	}
	if c.Shift.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	if c.Shift.StreamInterval <= 0 {
		return fmt.Errorf("STATUS_STREAM_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves APP_TIMEZONE; empty means the host's local time.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Policy builds the shift policy from configuration.
func (c *Config) Policy() shift.Policy {
	return shift.Policy{
		EarlyStartWindow: c.Shift.EarlyStartWindow,
		AutoFinishGrace:  c.Shift.AutoFinishGrace,
		AbsentGrace:      c.Shift.AbsentGrace,
		LatePolicy:       c.Shift.LatePolicy,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
