package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Backend    BackendConfig    `yaml:"backend"`
	Web        WebConfig        `yaml:"web"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

// BackendConfig points at the remote carwash backend API.
type BackendConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	APIKey     string `yaml:"api_key"`
}

// Timeout returns the request timeout for backend calls.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

type WebConfig struct {
	Port              int     `yaml:"port"`
	RateLimitRPS      float64 `yaml:"rate_limit_rps"`
	RateLimitBurst    int     `yaml:"rate_limit_burst"`
	LoginAttempts     int     `yaml:"login_attempts"`
	LoginWindowSec    int     `yaml:"login_window_sec"`
	CookieName        string  `yaml:"cookie_name"`
	CookieSecure      bool    `yaml:"cookie_secure"`
	ShutdownTimeoutMS int     `yaml:"shutdown_timeout_ms"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

// TTL returns the session store record lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	SheetPrefix string `yaml:"sheet_prefix"`
}

func Load(configPath string) (*Config, error) {
	// .env отсутствует в проде, это не ошибка
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend base_url is required")
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port: %d", c.Web.Port)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}
	if c.Web.RateLimitBurst == 0 {
		c.Web.RateLimitBurst = 5
	}
	if c.Web.LoginAttempts == 0 {
		c.Web.LoginAttempts = 5
	}
	if c.Web.LoginWindowSec == 0 {
		c.Web.LoginWindowSec = 300
	}
	if c.Web.CookieName == "" {
		c.Web.CookieName = "washdesk_session"
	}
	if c.Web.ShutdownTimeoutMS == 0 {
		c.Web.ShutdownTimeoutMS = 10000
	}
	if c.Backend.TimeoutSec == 0 {
		c.Backend.TimeoutSec = 10
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 720
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.SheetPrefix == "" {
		c.Exports.SheetPrefix = "Roster"
	}
}
