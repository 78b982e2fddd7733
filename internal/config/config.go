package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the backend. Values come from
// environment variables, with an optional config.yaml for local development.
type Config struct {
	Port      string `mapstructure:"port"`
	GinMode   string `mapstructure:"gin_mode"`
	LogFormat string `mapstructure:"log_format"`

	// CORS_ALLOW_ORIGINS is a space separated list of allowed origins.
	CORSAllowOrigins string `mapstructure:"cors_allow_origins"`
	EnablePprof      bool   `mapstructure:"enable_pprof"`

	// StateSecret signs the OAuth state parameter.
	StateSecret string `mapstructure:"state_secret"`

	Database   Database       `mapstructure:"database"`
	QuickBooks PlatformConfig `mapstructure:"quickbooks"`
	Xero       PlatformConfig `mapstructure:"xero"`
}

// Database selects between the default sqlite file and postgres.
// Postgres is used as soon as a host is configured.
type Database struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`

	// Path of the sqlite database file, used when no host is set.
	Path string `mapstructure:"path"`
}

// PlatformConfig holds the OAuth client and API endpoints for one platform.
type PlatformConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	AuthURL      string `mapstructure:"auth_url"`
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Load reads the configuration. A missing config file is fine, environment
// variables always win.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log_format", "")
	v.SetDefault("cors_allow_origins", "")
	v.SetDefault("enable_pprof", false)
	v.SetDefault("state_secret", "")
	v.SetDefault("database.path", "data/gorm.db")
	v.SetDefault("database.host", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("quickbooks.base_url", "https://sandbox-quickbooks.api.intuit.com")
	v.SetDefault("quickbooks.auth_url", "https://appcenter.intuit.com/connect/oauth2")
	v.SetDefault("quickbooks.token_url", "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer")
	v.SetDefault("quickbooks.client_id", "")
	v.SetDefault("quickbooks.client_secret", "")
	v.SetDefault("quickbooks.redirect_url", "")
	v.SetDefault("xero.base_url", "https://api.xero.com")
	v.SetDefault("xero.auth_url", "https://login.xero.com/identity/connect/authorize")
	v.SetDefault("xero.token_url", "https://identity.xero.com/connect/token")
	v.SetDefault("xero.client_id", "")
	v.SetDefault("xero.client_secret", "")
	v.SetDefault("xero.redirect_url", "")

	if err := v.ReadInConfig(); err != nil {
		log.Debug().Msg("no config file found, using environment and defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
