package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Secullum SecullumConfig
	Storage  StorageConfig
	Report   ReportConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret            string
	SessionExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	FrontendOrigin string
}

// SecullumConfig holds vendor API endpoints and the integration credential
type SecullumConfig struct {
	AuthURL  string
	APIURL   string
	Username string
	Password string
	ClientID string
}

type StorageConfig struct {
	BasePath  string
	BaseURL   string
	Container string
}

// ReportConfig tunes the overtime reports
type ReportConfig struct {
	StandardShiftMinutes int
	Workers              int
}

func Load() (*Config, error) {
	// .env is optional; deployments supply the environment directly
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "ponto"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		SessionExpiration: getEnv("JWT_SESSION_EXPIRATION_TIME", "24h"),
	}

	config.Secullum = SecullumConfig{
		AuthURL:  getEnv("SECULLUM_AUTH_URL", "https://autenticador.secullum.com.br"),
		APIURL:   getEnv("SECULLUM_API_URL", "https://pontowebintegracaoexterna.secullum.com.br"),
		Username: getEnv("SECULLUM_USERNAME", ""),
		Password: getEnv("SECULLUM_PASSWORD", ""),
		ClientID: getEnv("SECULLUM_CLIENT_ID", "3"),
	}

	config.Storage = StorageConfig{
		BasePath:  getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:   getEnv("STORAGE_BASE_URL", "http://localhost:3000/uploads"),
		Container: getEnv("STORAGE_CONTAINER", "justificativas"),
	}

	shiftMinutes, err := strconv.Atoi(getEnv("STANDARD_SHIFT_MINUTES", "480"))
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_SHIFT_MINUTES: %w", err)
	}

	workers, err := strconv.Atoi(getEnv("REPORT_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_WORKERS: %w", err)
	}

	config.Report = ReportConfig{
		StandardShiftMinutes: shiftMinutes,
		Workers:              workers,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Secullum.Username == "" {
		return fmt.Errorf("SECULLUM_USERNAME is required")
	}
	if c.Secullum.Password == "" {
		return fmt.Errorf("SECULLUM_PASSWORD is required")
	}
	if c.Report.StandardShiftMinutes <= 0 {
		return fmt.Errorf("STANDARD_SHIFT_MINUTES must be positive")
	}
	if c.Report.Workers <= 0 {
		return fmt.Errorf("REPORT_WORKERS must be positive")
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
