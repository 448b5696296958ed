package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file and
// overlaid with environment variables.
//
// A Config is built once at startup and shared read-only by every handler.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Upstream    UpstreamConfig    `toml:"upstream"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains the Reddit OAuth application credentials.
type CredentialsConfig struct {
	ClientID     string `toml:"client_id" env:"PUBLIC_CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"CLIENT_SECRET"`
	RedirectURI  string `toml:"redirect_uri" env:"PUBLIC_REDIRECT_URI"`
}

// UpstreamConfig contains the Reddit endpoints and outbound HTTP settings.
type UpstreamConfig struct {
	AuthBaseURL   string        `toml:"auth_base_url" env:"REDDIT_AUTH_BASE_URL"`
	APIBaseURL    string        `toml:"api_base_url" env:"REDDIT_API_BASE_URL"`
	PublicBaseURL string        `toml:"public_base_url" env:"REDDIT_PUBLIC_BASE_URL"`
	UserAgent     string        `toml:"user_agent" env:"REDDIT_USER_AGENT"`
	Scopes        []string      `toml:"scopes"`
	Timeout       time.Duration `toml:"timeout" env:"UPSTREAM_TIMEOUT"`
	ProxyURL      string        `toml:"proxy_url" env:"UPSTREAM_PROXY_URL"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string `toml:"host" env:"HOST"`
	Port      int    `toml:"port" env:"PORT"`
	AssetsDir string `toml:"assets_dir" env:"ASSETS_DIR"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
}

// Addr returns the host:port pair the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Validate reports missing OAuth credentials. The server must not start without them.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Credentials.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if strings.TrimSpace(c.Credentials.ClientSecret) == "" {
		missing = append(missing, "client_secret")
	}
	if strings.TrimSpace(c.Credentials.RedirectURI) == "" {
		missing = append(missing, "redirect_uri")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if c.Upstream.UserAgent == "" {
		return fmt.Errorf("%w: upstream user_agent is empty", ErrInvalidConfig)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("%w: upstream timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// ApplyEnv overlays environment variables onto config.
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Load builds the process configuration: defaults, then the TOML file at path
// when it exists, then environment variables.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := ApplyEnv(config); err != nil {
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

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
