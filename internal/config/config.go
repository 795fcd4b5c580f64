// Package config loads clickclock settings from defaults, an optional YAML
// file, CLICKCLOCK_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyServiceURL     = "service_url"
	KeyRequestTimeout = "request_timeout"
	KeyRetries        = "retries"
	KeyCopyReset      = "copy_reset"
	KeyTick           = "tick"
	KeyDB             = "db"
	KeyLogFile        = "log_file"
	KeyLogLevel       = "log_level"
)

// Config holds the resolved settings.
type Config struct {
	// ServiceURL is the base URL of the time service; requests go to
	// {ServiceURL}/time?city=...
	ServiceURL string
	// RequestTimeout bounds one lookup, retries included.
	RequestTimeout time.Duration
	Retries        int
	// CopyReset is how long the copy button reads "Copied!".
	CopyReset time.Duration
	// Tick is the stopwatch refresh interval.
	Tick time.Duration
	// DB is the sqlite history file. Empty disables history.
	DB      string
	LogFile string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServiceURL, "https://clickclock-service.onrender.com")
	v.SetDefault(KeyRequestTimeout, 10*time.Second)
	v.SetDefault(KeyRetries, 2)
	v.SetDefault(KeyCopyReset, 2*time.Second)
	v.SetDefault(KeyTick, 10*time.Millisecond)
	v.SetDefault(KeyDB, "clickclock.db")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix("CLICKCLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and validates the result. An explicit
// file must exist; otherwise clickclock.yaml is looked up in the working
// directory and $HOME/.config/clickclock and may be absent.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("clickclock")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/clickclock")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		ServiceURL:     strings.TrimSpace(v.GetString(KeyServiceURL)),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		Retries:        v.GetInt(KeyRetries),
		CopyReset:      v.GetDuration(KeyCopyReset),
		Tick:           v.GetDuration(KeyTick),
		DB:             v.GetString(KeyDB),
		LogFile:        v.GetString(KeyLogFile),
		LogLevel:       strings.ToLower(v.GetString(KeyLogLevel)),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate returns an error naming every invalid setting.
func (c Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.ServiceURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("%s must be an http(s) URL, got %q", KeyServiceURL, c.ServiceURL))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, KeyRequestTimeout+" must be positive")
	}
	if c.Retries < 0 {
		problems = append(problems, KeyRetries+" must not be negative")
	}
	if c.CopyReset <= 0 {
		problems = append(problems, KeyCopyReset+" must be positive")
	}
	if c.Tick <= 0 {
		problems = append(problems, KeyTick+" must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("%s must be debug, info, warn or error, got %q", KeyLogLevel, c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
