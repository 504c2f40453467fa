// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default upstream endpoints. The catalog feeds are static JSON files;
// the share endpoint hosts shared collection pages.
const (
	DefaultCardsURL      = "https://rayjewelry.us/chronicle/pokemon_cards.json"
	DefaultSetsURL       = "https://rayjewelry.us/chronicle/pokemon_set.json"
	DefaultShareEndpoint = "https://pokediaryapp.com.rayjewelry.us/api/collection.php"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Data    DataConfig
	Server  ServerConfig
	Catalog CatalogConfig
	Sharing SharingConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds local storage configuration.
type DataConfig struct {
	BasePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name          string
	Port          string        // Server port (default: 8080)
	ReadTimeout   time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout  time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout   time.Duration // HTTP idle timeout (default: 60s)
	AdvertiseMDNS bool          // Advertise via mDNS/Zeroconf (default: true)
}

// CatalogConfig holds card catalog configuration.
type CatalogConfig struct {
	// CardsURL and SetsURL point at the upstream catalog feeds.
	CardsURL string
	SetsURL  string
	// CardsFile and SetsFile override the feeds with local JSON files.
	// When set, the catalog is loaded from disk and reloaded on change.
	CardsFile string
	SetsFile  string
	// RefreshInterval is how often the catalog re-fetches (default: 24h).
	RefreshInterval time.Duration
}

// SharingConfig holds collection sharing configuration.
type SharingConfig struct {
	// Endpoint is the share service URL. Shared collection pages are
	// served from the same URL with ?id=<shareId>.
	Endpoint string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for local storage")
	serverName := flag.String("server-name", "", "Name for the server")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	advertiseMDNS := flag.String("advertise-mdns", "", "Advertise via mDNS/Zeroconf (default: true)")

	// Catalog flags
	cardsURL := flag.String("cards-url", "", "Upstream card catalog URL")
	setsURL := flag.String("sets-url", "", "Upstream set catalog URL")
	cardsFile := flag.String("cards-file", "", "Local card catalog JSON file (overrides cards-url)")
	setsFile := flag.String("sets-file", "", "Local set catalog JSON file (overrides sets-url)")
	catalogRefresh := flag.String("catalog-refresh", "", "Catalog refresh interval (default: 24h)")

	// Sharing flags
	shareEndpoint := flag.String("share-endpoint", "", "Collection share service URL")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},

		Server: ServerConfig{
			Name:          getConfigValue(*serverName, "SERVER_NAME", "Chronicle Server"),
			Port:          getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AdvertiseMDNS: getBoolConfigValue(*advertiseMDNS, "ADVERTISE_MDNS", true),
		},

		Catalog: CatalogConfig{
			CardsURL:  getConfigValue(*cardsURL, "CATALOG_CARDS_URL", DefaultCardsURL),
			SetsURL:   getConfigValue(*setsURL, "CATALOG_SETS_URL", DefaultSetsURL),
			CardsFile: getConfigValue(*cardsFile, "CATALOG_CARDS_FILE", ""),
			SetsFile:  getConfigValue(*setsFile, "CATALOG_SETS_FILE", ""),
		},

		Sharing: SharingConfig{
			Endpoint: getConfigValue(*shareEndpoint, "SHARE_ENDPOINT", DefaultShareEndpoint),
		},
	}

	// Parse catalog refresh interval.
	refreshStr := getConfigValue(*catalogRefresh, "CATALOG_REFRESH_INTERVAL", "24h")
	refreshInterval, err := time.ParseDuration(refreshStr)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog refresh interval %q: %w", refreshStr, err)
	}
	cfg.Catalog.RefreshInterval = refreshInterval

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Expand local catalog file paths.
	if err := cfg.expandCatalogFiles(); err != nil {
		return nil, fmt.Errorf("invalid catalog file path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	// Catalog URLs are only required when no local file overrides them.
	if c.Catalog.CardsFile == "" {
		if err := validateURL(c.Catalog.CardsURL); err != nil {
			return fmt.Errorf("invalid cards URL: %w", err)
		}
	}
	if c.Catalog.SetsFile == "" {
		if err := validateURL(c.Catalog.SetsURL); err != nil {
			return fmt.Errorf("invalid sets URL: %w", err)
		}
	}

	if err := validateURL(c.Sharing.Endpoint); err != nil {
		return fmt.Errorf("invalid share endpoint: %w", err)
	}

	if c.Catalog.RefreshInterval < time.Minute {
		return fmt.Errorf("catalog refresh interval %s is too short (minimum 1m)", c.Catalog.RefreshInterval)
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an http or https URL", raw)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Chronicle", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandCatalogFiles expands ~ and makes local catalog paths absolute.
// Empty paths stay empty (the upstream feeds are used instead).
func (c *Config) expandCatalogFiles() error {
	if c.Catalog.CardsFile != "" {
		expanded, err := expandPath(c.Catalog.CardsFile, "")
		if err != nil {
			return err
		}
		c.Catalog.CardsFile = expanded
	}
	if c.Catalog.SetsFile != "" {
		expanded, err := expandPath(c.Catalog.SetsFile, "")
		if err != nil {
			return err
		}
		c.Catalog.SetsFile = expanded
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
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

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
