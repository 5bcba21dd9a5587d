// Package config loads application configuration from command-line flags,
// environment variables and .env files.
package config

import (
	"bufio"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SessionKeySize is the length in bytes of a PASETO v4 local key.
const SessionKeySize = 32

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Session   SessionConfig
	Web       WebConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name          string
	Port          string        // default: 8080
	ReadTimeout   time.Duration // default: 15s
	WriteTimeout  time.Duration // default: 15s, the palette stream is exempt
	IdleTimeout   time.Duration // default: 60s
	AdvertiseMDNS bool          // default: false
}

// SessionConfig holds browser session configuration.
type SessionConfig struct {
	// Key is the PASETO v4 symmetric key. Nil means generate one at startup,
	// which invalidates every cookie on restart.
	Key          []byte
	TTL          time.Duration // default: 24h
	CookieSecure bool
}

// WebConfig holds widget page configuration.
type WebConfig struct {
	// Dir serves the page from disk and reloads on change when set.
	Dir string
}

// RateLimitConfig bounds mutating palette requests per client.
type RateLimitConfig struct {
	PerMinute int // default: 120
	Burst     int // default: 30
}

// CORSConfig holds cross-origin settings. Empty disables CORS handling.
type CORSConfig struct {
	AllowedOrigins []string
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("swatches", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	serverName := fs.String("server-name", "", "Name advertised for the server")
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	advertiseMDNS := fs.String("advertise-mdns", "", "Advertise via mDNS/Zeroconf (default: false)")
	sessionKey := fs.String("session-key", "", "Hex encoded 32 byte session key (default: generated)")
	sessionTTL := fs.String("session-ttl", "", "Idle session lifetime (default: 24h)")
	cookieSecure := fs.String("cookie-secure", "", "Mark the session cookie Secure (default: false)")
	webDir := fs.String("web-dir", "", "Serve the widget page from this directory")
	rateLimit := fs.String("rate-limit", "", "Mutating requests per minute per client (default: 120)")
	rateBurst := fs.String("rate-burst", "", "Rate limit burst (default: 30)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed CORS origins")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// A missing .env file is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:          getConfigValue(*serverName, "SERVER_NAME", "Swatches"),
			Port:          getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AdvertiseMDNS: getBoolConfigValue(*advertiseMDNS, "ADVERTISE_MDNS", false),
		},
		Session: SessionConfig{
			CookieSecure: getBoolConfigValue(*cookieSecure, "SESSION_COOKIE_SECURE", false),
		},
		Web: WebConfig{
			Dir: getConfigValue(*webDir, "WEB_DIR", ""),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getIntConfigValue(*rateLimit, "RATE_LIMIT_PER_MINUTE", 120),
			Burst:     getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 30),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "")),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Session.TTL, err = getDurationConfigValue(*sessionTTL, "SESSION_TTL", "24h"); err != nil {
		return nil, err
	}

	if keyHex := getConfigValue(*sessionKey, "SESSION_KEY", ""); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid session key: %w", err)
		}
		cfg.Session.Key = key
	}

	if cfg.Web.Dir != "" {
		if cfg.Web.Dir, err = expandPath(cfg.Web.Dir); err != nil {
			return nil, fmt.Errorf("invalid web dir: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("ENV is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}

	if c.Session.Key != nil && len(c.Session.Key) != SessionKeySize {
		return fmt.Errorf("session key must be %d bytes, got %d", SessionKeySize, len(c.Session.Key))
	}
	if c.Session.TTL < time.Minute {
		return fmt.Errorf("session ttl must be at least 1m, got %s", c.Session.TTL)
	}

	if c.RateLimit.PerMinute < 1 || c.RateLimit.Burst < 1 {
		return errors.New("rate limit and burst must be at least 1")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue falls back to the default when the value does not parse.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables win over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
