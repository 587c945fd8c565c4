package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is flat and comparable so callers can test it against the zero value.
type Config struct {
	ServerPort    int    `mapstructure:"SERVER_PORT"`
	ServerBaseURL string `mapstructure:"SERVER_BASE_URL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	FormVariant string `mapstructure:"FORM_VARIANT"`

	DispatchEndpoint string        `mapstructure:"DISPATCH_ENDPOINT"`
	DispatchTimeout  time.Duration `mapstructure:"DISPATCH_TIMEOUT"`

	QRServiceURL string `mapstructure:"QR_SERVICE_URL"`
	QRFormURL    string `mapstructure:"QR_FORM_URL"`
	QRSize       int    `mapstructure:"QR_SIZE"`

	DatabaseDbPath string `mapstructure:"DATABASE_DB_PATH"`

	CacheAddress  string `mapstructure:"CACHE_ADDRESS"`
	CachePassword string `mapstructure:"CACHE_PASSWORD"`
	CacheDB       int    `mapstructure:"CACHE_DB"`

	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`

	DiagnosticsEmailDigestKey string `mapstructure:"DIAGNOSTICS_EMAIL_DIGEST_KEY"`
}

const (
	EnvPrefix = "JOBFAIR"
	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = "jobfair.env"
)

var defaults = map[string]any{
	"SERVER_PORT":                  8080,
	"SERVER_BASE_URL":              "",
	"LOG_LEVEL":                    "info",
	"LOG_FORMAT":                   "json",
	"FORM_VARIANT":                 "exhibition",
	"DISPATCH_ENDPOINT":            "",
	"DISPATCH_TIMEOUT":             "15s",
	"QR_SERVICE_URL":               "https://api.qrserver.com/v1/create-qr-code/",
	"QR_FORM_URL":                  "",
	"QR_SIZE":                      300,
	"DATABASE_DB_PATH":             "data/jobfair.db",
	"CACHE_ADDRESS":                "",
	"CACHE_PASSWORD":               "",
	"CACHE_DB":                     0,
	"SESSION_TTL":                  "24h",
	"DIAGNOSTICS_EMAIL_DIGEST_KEY": "",
}

// InitConfig loads configuration from the process wide viper instance, so
// flags bound by the CLI take precedence over the environment.
func InitConfig() (Config, error) {
	return Load(viper.GetViper(), "")
}

// Load resolves each key as explicit value (Set or bound flag), then
// JOBFAIR_ environment variable, then the optional config file, then default.
func Load(v *viper.Viper, configFile string) (Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configFile = DefaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid config: SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.DispatchTimeout <= 0 {
		return fmt.Errorf("invalid config: DISPATCH_TIMEOUT must be positive, got %s", c.DispatchTimeout)
	}
	if c.QRSize < 0 {
		return fmt.Errorf("invalid config: QR_SIZE must not be negative, got %d", c.QRSize)
	}
	if len(c.DiagnosticsEmailDigestKey) > 64 {
		return errors.New("invalid config: DIAGNOSTICS_EMAIL_DIGEST_KEY must be at most 64 bytes")
	}
	return nil
}

// FormURL is the address encoded into the QR code: QR_FORM_URL, then
// SERVER_BASE_URL. Empty means the QR locator's built-in default applies.
func (c Config) FormURL() string {
	if c.QRFormURL != "" {
		return c.QRFormURL
	}
	return c.ServerBaseURL
}
