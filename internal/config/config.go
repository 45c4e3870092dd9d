package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	scheduleService "github.com/cmlabs-hris/presence-backend-go/internal/service/schedule"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Office   OfficeConfig
	Schedule ScheduleConfig
	Storage  StorageConfig
	Report   ReportConfig
	CORS     CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string

	// Location is Timezone resolved by Validate
	Location *time.Location
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
	AccessExpiration string
}

// OfficeConfig is the geofence applied to clock-in and clock-out.
type OfficeConfig struct {
	GeofenceEnabled bool
	Latitude        float64
	Longitude       float64
	RadiusMeters    float64
}

type ScheduleConfig struct {
	PolicyPath string
	WeekStart  time.Weekday
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

type ReportConfig struct {
	WeeklyExport bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Europe/Rome"),
	}

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
		Name:       getEnv("DB_NAME", "presence"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "presenze.db"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "720h"),
	}

	// Office geofence
	geofence, err := getEnvBool("GEOFENCE_ENABLED", true)
	if err != nil {
		return nil, err
	}
	lat, err := getEnvFloat("OFFICE_LATITUDE", 41.8619944089824)
	if err != nil {
		return nil, err
	}
	lon, err := getEnvFloat("OFFICE_LONGITUDE", 12.840221654723194)
	if err != nil {
		return nil, err
	}
	radius, err := getEnvFloat("OFFICE_RADIUS_METERS", 150)
	if err != nil {
		return nil, err
	}

	config.Office = OfficeConfig{
		GeofenceEnabled: geofence,
		Latitude:        lat,
		Longitude:       lon,
		RadiusMeters:    radius,
	}

	// Schedule
	weekStart, err := scheduleService.ParseWeekday(getEnv("WEEK_START", "monday"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEEK_START: %w", err)
	}

	config.Schedule = ScheduleConfig{
		PolicyPath: getEnv("SCHEDULE_POLICY_PATH", ""),
		WeekStart:  weekStart,
	}

	// Export storage
	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./exports"),
		BaseURL:  getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%d/api/v1/reports/exports", appPort)),
	}

	weekly, err := getEnvBool("REPORT_WEEKLY_EXPORT", true)
	if err != nil {
		return nil, err
	}
	config.Report = ReportConfig{WeeklyExport: weekly}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration and resolves the timezone
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
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	if c.Office.GeofenceEnabled {
		if c.Office.Latitude < -90 || c.Office.Latitude > 90 {
			return fmt.Errorf("OFFICE_LATITUDE must be between -90 and 90")
		}
		if c.Office.Longitude < -180 || c.Office.Longitude > 180 {
			return fmt.Errorf("OFFICE_LONGITUDE must be between -180 and 180")
		}
		if c.Office.RadiusMeters <= 0 {
			return fmt.Errorf("OFFICE_RADIUS_METERS must be positive")
		}
	}

	if _, err := c.App.SlogLevel(); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	c.App.Location = loc

	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (a AppConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(a.LogLevel))
	return level, err
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
