package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// APIConfig holds upstream Portal Único endpoint configuration
type APIConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Timezone string        `mapstructure:"timezone"` // IANA name used to interpret lock-out release times
}

// AuthConfig holds credential exchange configuration
type AuthConfig struct {
	ClientID      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	MinInterval   time.Duration `mapstructure:"min_interval"`   // minimum spacing between credential exchanges
	TokenValidity time.Duration `mapstructure:"token_validity"` // assumed validity when the upstream omits the expiration header
	SafetyMargin  time.Duration `mapstructure:"safety_margin"`  // refresh this long before the claimed expiry
	CachePath     string        `mapstructure:"cache_path"`     // optional on-disk token cache, empty disables
}

// RateConfig holds the hourly ceiling configuration
type RateConfig struct {
	LimitHour int `mapstructure:"limit_hour"` // upstream-declared ceiling per rolling hour
	SafeLimit int `mapstructure:"safe_limit"` // local ceiling, 0 means 90% of LimitHour
	Burst     int `mapstructure:"burst"`      // short-term burst allowance for the smoothing bucket
}

// EffectiveSafeLimit resolves the local admission ceiling.
func (r RateConfig) EffectiveSafeLimit() int {
	if r.SafeLimit > 0 {
		return r.SafeLimit
	}
	return r.LimitHour * 9 / 10
}

// FetchConfig toggles the auxiliary calls of the full-fetch protocol
type FetchConfig struct {
	SuspensionActs     bool `mapstructure:"suspension_acts"`
	ExemptionActs      bool `mapstructure:"exemption_acts"`
	FiscalRequirements bool `mapstructure:"fiscal_requirements"`
}

// SyncConfig holds pipeline tuning
type SyncConfig struct {
	MaxDiscoveryPerRun   int           `mapstructure:"max_discovery_per_run"` // 0 means unbounded
	MaxRefreshPerRun     int           `mapstructure:"max_refresh_per_run"`
	StalenessHours       int           `mapstructure:"staleness_hours"`
	RecentSettlementDays int           `mapstructure:"recent_settlement_days"`
	Workers              int           `mapstructure:"workers"`
	LinkFlushSize        int           `mapstructure:"link_flush_size"`
	DueTimeout           time.Duration `mapstructure:"due_timeout"` // gates the four-call group of one DUE
	RunTimeout           time.Duration `mapstructure:"run_timeout"` // 0 means unbounded
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// WhatsAppConfig holds Evolution API notification configuration
type WhatsAppConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	BaseURL   string `mapstructure:"base_url"`
	Instance  string `mapstructure:"instance"`
	APIKey    string `mapstructure:"api_key"`
	RemoteJID string `mapstructure:"remote_jid"`
}

// SyncerConfig holds configuration for the siscomex-sync program
type SyncerConfig struct {
	BaseConfig `mapstructure:",squash"`
	API        APIConfig      `mapstructure:"api"`
	Auth       AuthConfig     `mapstructure:"auth"`
	Rate       RateConfig     `mapstructure:"rate"`
	Fetch      FetchConfig    `mapstructure:"fetch"`
	Sync       SyncConfig     `mapstructure:"sync"`
	Database   DatabaseConfig `mapstructure:"database"`
	WhatsApp   WhatsAppConfig `mapstructure:"whatsapp"`
}

// LoadSyncerConfig loads configuration for siscomex-sync
func LoadSyncerConfig(configFile string, envPath string) (*SyncerConfig, error) {
	v := configureViper(configFile, envPath)

	// Set defaults
	v.SetDefault("api.base_url", "https://portalunico.siscomex.gov.br")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.timezone", "America/Sao_Paulo")
	v.SetDefault("auth.min_interval", "60s")
	v.SetDefault("auth.token_validity", "60m")
	v.SetDefault("auth.safety_margin", "2m")
	v.SetDefault("rate.limit_hour", 1000)
	v.SetDefault("rate.burst", 20)
	v.SetDefault("fetch.suspension_acts", true)
	v.SetDefault("fetch.exemption_acts", false)
	v.SetDefault("fetch.fiscal_requirements", true)
	v.SetDefault("sync.max_refresh_per_run", 500)
	v.SetDefault("sync.staleness_hours", 24)
	v.SetDefault("sync.recent_settlement_days", 7)
	v.SetDefault("sync.workers", 20)
	v.SetDefault("sync.link_flush_size", 50)
	v.SetDefault("sync.due_timeout", "30s")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg SyncerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateCredentials checks the settings every upstream-facing command needs.
func (c *SyncerConfig) ValidateCredentials() error {
	if c.Auth.ClientID == "" || c.Auth.ClientSecret == "" {
		return errors.New("auth.client_id and auth.client_secret are required")
	}
	return nil
}

// ValidateDatabase checks the settings every persisting command needs.
func (c *SyncerConfig) ValidateDatabase() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("SISCOMEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// API
		"api.base_url",
		"api.timeout",
		"api.timezone",
		// Auth
		"auth.client_id",
		"auth.client_secret",
		"auth.min_interval",
		"auth.token_validity",
		"auth.safety_margin",
		"auth.cache_path",
		// Rate
		"rate.limit_hour",
		"rate.safe_limit",
		"rate.burst",
		// Fetch flags
		"fetch.suspension_acts",
		"fetch.exemption_acts",
		"fetch.fiscal_requirements",
		// Sync
		"sync.max_discovery_per_run",
		"sync.max_refresh_per_run",
		"sync.staleness_hours",
		"sync.recent_settlement_days",
		"sync.workers",
		"sync.link_flush_size",
		"sync.due_timeout",
		"sync.run_timeout",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// WhatsApp
		"whatsapp.enabled",
		"whatsapp.base_url",
		"whatsapp.instance",
		"whatsapp.api_key",
		"whatsapp.remote_jid",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string) {
	envFiles := []string{".env", ".env.local"}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}
