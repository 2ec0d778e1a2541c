package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Драйверы хранилища бронирований
const (
	StorageDriverPostgres = "postgres"
	StorageDriverBadger   = "badger"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Storage        StorageConfig     `toml:"storage"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	CatalogService IntegrationConfig `toml:"catalog_service"`
	NotifyService  IntegrationConfig `toml:"notify_service"`
	Feedback       FeedbackConfig    `toml:"feedback"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// StorageConfig выбор хранилища документов бронирований
type StorageConfig struct {
	Driver     string `toml:"driver"`      // postgres | badger
	BadgerPath string `toml:"badger_path"` // пустой путь - in-memory
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig адрес внешнего сервиса, таймаут в секундах
// Пустой URL выключает интеграцию (только для сервиса уведомлений)
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// FeedbackConfig параметры ссылки обратной связи
type FeedbackConfig struct {
	TokenTTLHours int    `toml:"token_ttl_hours"`
	TokenSecret   string `toml:"token_secret"`
}

// Load читает config.toml, подгружает .env и применяет переопределения из окружения
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "tour-booking-service",
		},
		CatalogService: IntegrationConfig{Timeout: 5},
		NotifyService:  IntegrationConfig{Timeout: 5},
		Feedback:       FeedbackConfig{TokenTTLHours: 72},
	}
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func applyEnv(cfg *Config) error {
	strVars := map[string]*string{
		"DB_HOST":               &cfg.Database.Host,
		"DB_USER":               &cfg.Database.User,
		"DB_PASSWORD":           &cfg.Database.Password,
		"DB_NAME":               &cfg.Database.DBName,
		"STORAGE_DRIVER":        &cfg.Storage.Driver,
		"BADGER_PATH":           &cfg.Storage.BadgerPath,
		"LOG_LEVEL":             &cfg.Logs.Level,
		"CATALOG_SERVICE_URL":   &cfg.CatalogService.URL,
		"NOTIFY_SERVICE_URL":    &cfg.NotifyService.URL,
		"FEEDBACK_TOKEN_SECRET": &cfg.Feedback.TokenSecret,
	}
	for name, target := range strVars {
		if value, ok := os.LookupEnv(name); ok {
			*target = value
		}
	}

	intVars := map[string]*int{
		"HTTP_PORT":                &cfg.Server.HTTPPort,
		"DB_PORT":                  &cfg.Database.Port,
		"FEEDBACK_TOKEN_TTL_HOURS": &cfg.Feedback.TokenTTLHours,
	}
	for name, target := range intVars {
		value, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, name, value)
		}
		*target = parsed
	}

	return nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.DBName == "" {
			problems = append(problems, "database.dbname is required for postgres storage")
		}
	case StorageDriverBadger:
	default:
		problems = append(problems, fmt.Sprintf("storage.driver %q must be postgres or badger", c.Storage.Driver))
	}

	if c.CatalogService.URL == "" {
		problems = append(problems, "catalog_service.url is required")
	}
	if len(c.Feedback.TokenSecret) < 32 {
		problems = append(problems, "feedback.token_secret must be at least 32 bytes")
	}
	if c.Feedback.TokenTTLHours <= 0 {
		problems = append(problems, "feedback.token_ttl_hours must be positive")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
