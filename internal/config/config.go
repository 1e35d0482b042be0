package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса, читается из config.toml.
// Секреты (пароль БД, JWT-секрет, адрес Redis) можно переопределить
// переменными окружения, .env подхватывается автоматически.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Redis     RedisConfig     `toml:"redis"`
	Booking   BookingConfig   `toml:"booking"`
	QRService QRServiceConfig `toml:"qr_service"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки аутентификации
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// RedisConfig настройки Redis (канал уведомлений об изменениях)
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

// BookingConfig настройки движка бронирования
type BookingConfig struct {
	// Таймзона, в которой строятся границы слотов.
	// Единая таймзона на весь сервис, хранение в БД - UTC.
	Timezone            string `toml:"timezone"`
	ReminderLeadMinutes int    `toml:"reminder_lead_minutes"`
	SweepIntervalSec    int    `toml:"sweep_interval_seconds"`
}

// Location парсит настроенную таймзону
func (c *BookingConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// QRServiceConfig настройки внешнего сервиса рендеринга QR-кодов
type QRServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
	Size    int    `toml:"size"`
}

// RateLimitConfig настройки ограничения частоты запросов
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает конфигурацию из TOML файла с переопределением секретов
// из окружения
func Load(path string) (*Config, error) {
	// .env опционален, отсутствие файла не ошибка
	_ = godotenv.Load()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Booking.ReminderLeadMinutes <= 0 {
		cfg.Booking.ReminderLeadMinutes = 15
	}
	if cfg.Booking.SweepIntervalSec <= 0 {
		cfg.Booking.SweepIntervalSec = 60
	}
	if cfg.QRService.Size <= 0 {
		cfg.QRService.Size = 360
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = "reservation-events"
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("config: jwt secret is required (auth.jwt_secret or JWT_SECRET)")
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}
