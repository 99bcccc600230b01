package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2/github"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Client   ClientConfig   `toml:"client"`
	Cookie   CookieConfig   `toml:"cookie"`
	OAuth    OAuthConfig    `toml:"oauth"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig points at the todo backend.
type APIConfig struct {
	BaseURL   string  `toml:"base_url"`
	RateLimit float64 `toml:"rate_limit"` // requests per second, 0 disables pacing
}

// ClientConfig describes the page the provider redirects back to and the local listener that receives it.
type ClientConfig struct {
	PageURL         string `toml:"page_url"`
	CallbackAddr    string `toml:"callback_addr"`
	CallbackTimeout int    `toml:"callback_timeout"` // seconds
}

// CookieConfig holds the attributes of the client-written session marker.
type CookieConfig struct {
	Domain string `toml:"domain"`
	Path   string `toml:"path"`
	MaxAge int    `toml:"max_age"`
}

// OAuthConfig holds the provider endpoint login redirects must target.
type OAuthConfig struct {
	AuthorizeURL string `toml:"authorize_url"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig controls log verbosity and the TUI log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
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

// SaveConfig writes config to path as TOML.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that URLs parse and numeric settings are usable.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("%w: api.base_url: %v", ErrInvalidConfig, err)
	}
	if _, err := url.ParseRequestURI(c.Client.PageURL); err != nil {
		return fmt.Errorf("%w: client.page_url: %v", ErrInvalidConfig, err)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Cookie.MaxAge <= 0 {
		return fmt.Errorf("%w: cookie.max_age must be positive", ErrInvalidConfig)
	}
	return nil
}

// AuthorizeURL returns the provider authorize endpoint, falling back to GitHub's.
func (c *Config) AuthorizeURL() string {
	if c.OAuth.AuthorizeURL != "" {
		return c.OAuth.AuthorizeURL
	}
	return github.Endpoint.AuthURL
}

// CallbackWait is how long login waits for the provider redirect.
func (c *Config) CallbackWait() time.Duration {
	if c.Client.CallbackTimeout <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.Client.CallbackTimeout) * time.Second
}

// CookiePath defaults the marker path to the root.
func (c *Config) CookiePath() string {
	if c.Cookie.Path == "" {
		return "/"
	}
	return c.Cookie.Path
}
