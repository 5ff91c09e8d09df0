package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Источники данных бэкенда
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

var (
	// ErrLoad возвращается, когда файл конфигурации не читается
	ErrLoad = errors.New("config: failed to load")

	// ErrInvalid возвращается, когда конфигурация не прошла валидацию
	ErrInvalid = errors.New("config: invalid")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Backend  BackendConfig  `toml:"backend"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Planning PlanningConfig `toml:"planning"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"required,gte=1,lte=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout    int `toml:"write_timeout" validate:"gte=0"`
	IdleTimeout     int `toml:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"gte=0"`
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File  string `toml:"file"`
}

// MetricsConfig prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" validate:"required_if=Enabled true"`
}

// BackendConfig бэкенд терраинов
type BackendConfig struct {
	Source  string `toml:"source" validate:"oneof=http postgres"`
	URL     string `toml:"url" validate:"required_if=Source http"`
	Token   string `toml:"token"`
	Timeout int    `toml:"timeout" validate:"gte=0"` // секунды
}

// DatabaseConfig база бэкенда (source = postgres)
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения lib/pq
func (c DatabaseConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// RedisConfig кэш справочника
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr" validate:"required_if=Enabled true"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
	Key      string `toml:"key"`
	TTL      int    `toml:"ttl"` // секунды
}

// PlanningConfig построение планинга
type PlanningConfig struct {
	DefaultOpening         string  `toml:"default_opening" validate:"omitempty,datetime=15:04"`
	DefaultClosing         string  `toml:"default_closing" validate:"omitempty,datetime=15:04"`
	NightShiftLimitMinutes int     `toml:"night_shift_limit_minutes" validate:"gte=0,lte=1440"`
	WaitTimeout            int     `toml:"wait_timeout" validate:"gte=0"` // секунды
	LookupRPS              float64 `toml:"lookup_rps" validate:"gte=0"`
	LookupBurst            int     `toml:"lookup_burst" validate:"gte=0"`
	LookupTimeout          int     `toml:"lookup_timeout" validate:"gte=0"` // секунды
	Timezone               string  `toml:"timezone"`
}

// Location часовой пояс терраинов
func (c PlanningConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Load читает TOML файл, накладывает переменные окружения (включая .env) и валидирует результат
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, path, err)
	}

	applyEnv(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := cfg.Planning.Location(); err != nil {
		return nil, fmt.Errorf("%w: planning.timezone: %v", ErrInvalid, err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "planning-service",
		},
		Backend: BackendConfig{
			Source:  SourceHTTP,
			Timeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Key: "directory:snapshot",
			TTL: 60,
		},
		Planning: PlanningConfig{
			DefaultOpening:         "08:00",
			DefaultClosing:         "22:00",
			NightShiftLimitMinutes: 360,
			WaitTimeout:            5,
			LookupRPS:              5,
			LookupBurst:            10,
			LookupTimeout:          5,
		},
	}
}

// applyEnv переопределяет значения из переменных окружения PLANNING_*
func applyEnv(cfg *Config) {
	setInt(&cfg.Server.HTTPPort, "PLANNING_HTTP_PORT")
	setString(&cfg.Logs.Level, "PLANNING_LOG_LEVEL")
	setString(&cfg.Logs.File, "PLANNING_LOG_FILE")
	setBool(&cfg.Metrics.Enabled, "PLANNING_METRICS_ENABLED")

	setString(&cfg.Backend.Source, "PLANNING_BACKEND_SOURCE")
	setString(&cfg.Backend.URL, "PLANNING_BACKEND_URL")
	setString(&cfg.Backend.Token, "PLANNING_BACKEND_TOKEN")
	setInt(&cfg.Backend.Timeout, "PLANNING_BACKEND_TIMEOUT")

	setString(&cfg.Database.Host, "PLANNING_DB_HOST")
	setInt(&cfg.Database.Port, "PLANNING_DB_PORT")
	setString(&cfg.Database.User, "PLANNING_DB_USER")
	setString(&cfg.Database.Password, "PLANNING_DB_PASSWORD")
	setString(&cfg.Database.DBName, "PLANNING_DB_NAME")

	setBool(&cfg.Redis.Enabled, "PLANNING_REDIS_ENABLED")
	setString(&cfg.Redis.Addr, "PLANNING_REDIS_ADDR")
	setString(&cfg.Redis.Password, "PLANNING_REDIS_PASSWORD")

	setString(&cfg.Planning.Timezone, "PLANNING_TIMEZONE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}
