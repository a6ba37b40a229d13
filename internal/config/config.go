package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port         int
	Env          string
	LogLevel     string
	Version      string
	EnsureSchema bool
}

// AttendanceConfig holds the DTR policy and the fallback system timezone
type AttendanceConfig struct {
	Policy          attendance.Policy
	PolicyFile      string
	DefaultTimezone string
}

// RateLimitConfig bounds clock actions per employee
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// policyFile is the shape of ATTENDANCE_POLICY_FILE.
type policyFile struct {
	Attendance      attendance.Policy `yaml:"attendance"`
	DefaultTimezone string            `yaml:"default_timezone"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Info("No .env file found, using process environment")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment. Policy values
// start from the defaults, are overlaid by the YAML policy file when one is
// set, and finally by individual environment variables.
func FromEnv() (*Config, error) {
	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	ensureSchema, err := getEnvBool("DB_ENSURE_SCHEMA", false)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:         appPort,
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Version:      getEnv("APP_VERSION", "v1.0.0"),
		EnsureSchema: ensureSchema,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy
	config.Attendance = AttendanceConfig{
		Policy:          attendance.DefaultPolicy(),
		PolicyFile:      getEnv("ATTENDANCE_POLICY_FILE", ""),
		DefaultTimezone: "Asia/Manila",
	}
	if config.Attendance.PolicyFile != "" {
		if err := config.Attendance.loadPolicyFile(); err != nil {
			return nil, err
		}
	}
	if err := config.Attendance.applyEnv(); err != nil {
		return nil, err
	}

	// Rate limiting
	perSecond, err := getEnvFloat("CLOCK_RATE_PER_SEC", 1)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("CLOCK_RATE_BURST", 3)
	if err != nil {
		return nil, err
	}
	config.RateLimit = RateLimitConfig{PerSecond: perSecond, Burst: burst}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (a *AttendanceConfig) loadPolicyFile() error {
	f, err := os.Open(a.PolicyFile)
	if err != nil {
		return fmt.Errorf("failed to open ATTENDANCE_POLICY_FILE: %w", err)
	}
	defer f.Close()

	file := policyFile{Attendance: a.Policy}
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return fmt.Errorf("failed to parse ATTENDANCE_POLICY_FILE: %w", err)
	}

	a.Policy = file.Attendance
	if file.DefaultTimezone != "" {
		a.DefaultTimezone = file.DefaultTimezone
	}
	return nil
}

func (a *AttendanceConfig) applyEnv() error {
	required, err := getEnvFloat("ATTENDANCE_REQUIRED_HOURS", a.Policy.RequiredHours)
	if err != nil {
		return err
	}
	maxSessions, err := getEnvInt("ATTENDANCE_MAX_SESSIONS", a.Policy.MaxSessionsPerDay)
	if err != nil {
		return err
	}
	pause, err := getEnvBool("ATTENDANCE_PAUSE_ON_OPEN_BREAK", a.Policy.PauseOnOpenBreak)
	if err != nil {
		return err
	}

	a.Policy = attendance.Policy{
		RequiredHours:     required,
		MaxSessionsPerDay: maxSessions,
		PauseOnOpenBreak:  pause,
	}
	a.DefaultTimezone = getEnv("SYSTEM_TIMEZONE_DEFAULT", a.DefaultTimezone)
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.Policy.RequiredHours <= 0 || c.Attendance.Policy.RequiredHours > 24 {
		return fmt.Errorf("ATTENDANCE_REQUIRED_HOURS must be between 0 and 24")
	}
	if c.Attendance.Policy.MaxSessionsPerDay < 1 {
		return fmt.Errorf("ATTENDANCE_MAX_SESSIONS must be at least 1")
	}
	if !validator.IsValidTimezone(c.Attendance.DefaultTimezone) {
		return fmt.Errorf("SYSTEM_TIMEZONE_DEFAULT %q is not a valid IANA zone", c.Attendance.DefaultTimezone)
	}
	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("CLOCK_RATE_PER_SEC and CLOCK_RATE_BURST must be positive")
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
