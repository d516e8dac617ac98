// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DirectoryConfig holds the LDAP connection settings.
type DirectoryConfig struct {
	URL          string        // LDAP URL, e.g. ldaps://dc01.corp.example.com:636
	BindDN       string        // service account used for binding
	BindPassword string        // its password
	BaseDN       string        // search base for unscoped queries
	DialTimeout  time.Duration // connection timeout (default 10s)
}

// Validate checks that the directory configuration is usable.
func (d *DirectoryConfig) Validate() error {
	if d.URL == "" {
		return fmt.Errorf("LDAP_URL must be set")
	}
	if d.BaseDN == "" {
		return fmt.Errorf("LDAP_BASE_DN must be set")
	}
	return nil
}

// SMTPConfigured reports whether outbound mail settings are present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// Config holds the configuration for the report server and the mail notice.
type Config struct {
	Directory DirectoryConfig

	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // log level: debug, info, warn, error (default "info")

	// Rate limiting for the HTTP surface
	RateLimitRPS   float64 // sustained requests per second (default 10)
	RateLimitBurst int     // burst capacity (default 20)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Outbound mail for report delivery (optional)
	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables.
// SMTP variables are optional — the server can start without them.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Directory: DirectoryConfig{
			URL:          os.Getenv("LDAP_URL"),
			BindDN:       os.Getenv("LDAP_BIND_DN"),
			BindPassword: os.Getenv("LDAP_BIND_PASSWORD"),
			BaseDN:       os.Getenv("LDAP_BASE_DN"),
		},
		ListenAddr:   os.Getenv("LISTEN_ADDR"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}

	if v := os.Getenv("LDAP_DIAL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Directory.DialTimeout = d
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("LDAP_DIAL_TIMEOUT %q is not a duration — using default", v))
		}
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SMTPPort = n
		}
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 10
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 20
	}
	if cfg.Directory.DialTimeout == 0 {
		cfg.Directory.DialTimeout = 10 * time.Second
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if !strings.HasPrefix(cfg.Directory.URL, "ldaps://") && cfg.Directory.URL != "" {
		cfg.Warnings = append(cfg.Warnings, "LDAP_URL is not ldaps:// — bind credentials travel unencrypted")
	}
	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		cfg.Warnings = append(cfg.Warnings, "SMTP_HOST is set but SMTP_FROM is empty — mail delivery disabled")
	}

	if err := cfg.Directory.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
