package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// Every secret can also be supplied through the environment (see
// [ApplyEnvOverrides]); a .env file is honored for local development.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Session  SessionConfig  `toml:"session"`
	Cron     CronConfig     `toml:"cron"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Movies   MoviesConfig   `toml:"movies"`
	Books    BooksConfig    `toml:"books"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SessionConfig contains session token settings and the reserved admin identity.
type SessionConfig struct {
	Secret        string `toml:"secret"`
	TTLHours      int    `toml:"ttl_hours"`
	AdminUsername string `toml:"admin_username"`
}

// CronConfig contains the shared secret guarding the maintenance endpoint.
type CronConfig struct {
	Secret string `toml:"secret"`
}

// CatalogConfig contains song catalog API credentials and market preferences.
type CatalogConfig struct {
	ClientID        string   `toml:"client_id"`
	ClientSecret    string   `toml:"client_secret"`
	Market          string   `toml:"market"`
	FallbackMarkets []string `toml:"fallback_markets"`
	BaseURL         string   `toml:"base_url"`
	TokenURL        string   `toml:"token_url"`
}

// MoviesConfig contains movie metadata API settings.
type MoviesConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// BooksConfig contains the language-model backend settings for book recommendations.
type BooksConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment overrides on top of it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnvOverrides()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded
// example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnvOverrides()
	return &config
}

// ApplyEnvOverrides layers environment variables over the loaded configuration.
//
// A .env file in the working directory is loaded first if present. Only
// variables that are actually set override file values.
func (c *Config) ApplyEnvOverrides() {
	_ = godotenv.Load()

	setString(&c.Database.Path, "MEDIAHUB_DB_PATH")
	setString(&c.Session.Secret, "MEDIAHUB_SESSION_SECRET")
	setString(&c.Session.AdminUsername, "MEDIAHUB_ADMIN_USERNAME")
	setString(&c.Cron.Secret, "MEDIAHUB_CRON_SECRET")
	setString(&c.Catalog.ClientID, "CATALOG_CLIENT_ID")
	setString(&c.Catalog.ClientSecret, "CATALOG_CLIENT_SECRET")
	setString(&c.Catalog.Market, "CATALOG_MARKET")
	setString(&c.Movies.APIKey, "MOVIES_API_KEY")
	setString(&c.Books.APIKey, "BOOKS_API_KEY")
	setString(&c.Server.Host, "MEDIAHUB_HOST")
	setInt(&c.Server.Port, "MEDIAHUB_PORT")

	if markets, ok := os.LookupEnv("CATALOG_FALLBACK_MARKETS"); ok && markets != "" {
		c.Catalog.FallbackMarkets = strings.Split(markets, ",")
	}
}

// Validate checks settings the server cannot run without.
//
// Missing recommendation-backend credentials are deliberately not errors here:
// the affected feature degrades to a "not configured" response instead.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("%w: session secret is required", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidConfig)
	}
	if c.Session.AdminUsername == "" {
		c.Session.AdminUsername = "admin"
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = 24
	}
	return nil
}

// Markets returns the locale search order for catalog calls: the configured
// primary market first, then the fallback list. Duplicates are dropped.
func (c *Config) Markets() []string {
	seen := map[string]bool{}
	var markets []string
	for _, m := range append([]string{c.Catalog.Market}, c.Catalog.FallbackMarkets...) {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		markets = append(markets, m)
	}
	return markets
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
