package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Webhooks WebhooksConfig `mapstructure:"webhooks"`
	Polling  PollingConfig  `mapstructure:"polling"`
	Features FeaturesConfig `mapstructure:"features"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type LoggerConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// WebhooksConfig holds the external workflow-automation endpoints. All URLs are
// optional; empty values fall back to the hosted defaults below.
type WebhooksConfig struct {
	ChatURL           string        `mapstructure:"chat_url"`
	DomainCheckURL    string        `mapstructure:"domain_check_url"`
	SalesforceURL     string        `mapstructure:"salesforce_url"`
	StoreCollectorURL string        `mapstructure:"store_collector_url"`
	SubmitTimeout     time.Duration `mapstructure:"submit_timeout"`
	LookupTimeout     time.Duration `mapstructure:"lookup_timeout"`
}

const (
	DefaultChatURL           = "https://workflows.wiserse.com/webhook/chat"
	DefaultDomainCheckURL    = "https://workflows.wiserse.com/webhook/domain-check"
	DefaultSalesforceURL     = "https://workflows.wiserse.com/webhook/sfdc-ap-check"
	DefaultStoreCollectorURL = "https://workflows.wiserse.com/webhook/retailers/ingest"
)

func (w *WebhooksConfig) ApplyDefaults() {
	if w.ChatURL == "" {
		w.ChatURL = DefaultChatURL
	}
	if w.DomainCheckURL == "" {
		w.DomainCheckURL = DefaultDomainCheckURL
	}
	if w.SalesforceURL == "" {
		w.SalesforceURL = DefaultSalesforceURL
	}
	if w.StoreCollectorURL == "" {
		w.StoreCollectorURL = DefaultStoreCollectorURL
	}
	if w.SubmitTimeout <= 0 {
		w.SubmitTimeout = 15 * time.Second
	}
	if w.LookupTimeout <= 0 {
		w.LookupTimeout = 30 * time.Second
	}
}

type PollingConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	EvictionDelay   time.Duration `mapstructure:"eviction_delay"`
	CacheMaxAge     time.Duration `mapstructure:"cache_max_age"`
	HistoryPageSize int           `mapstructure:"history_page_size"`
}

func (p *PollingConfig) ApplyDefaults() {
	if p.Interval <= 0 {
		p.Interval = 3 * time.Second
	}
	if p.EvictionDelay <= 0 {
		p.EvictionDelay = 10 * time.Second
	}
	if p.CacheMaxAge <= 0 {
		p.CacheMaxAge = 7 * 24 * time.Hour
	}
	if p.HistoryPageSize <= 0 {
		p.HistoryPageSize = 100
	}
}

type FeaturesConfig struct {
	RequestIDHeader      string `mapstructure:"request_id_header"`
	EnableRequestLogging bool   `mapstructure:"enable_request_logging"`
}

type AuthConfig struct {
	AdminAPIKey    string   `mapstructure:"admin_api_key"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("TOOLBOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Webhooks.ApplyDefaults()
	cfg.Polling.ApplyDefaults()

	return &cfg, nil
}
