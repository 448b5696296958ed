package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Upstream.APIBaseURL != "https://oauth.reddit.com" {
			t.Errorf("expected api base URL https://oauth.reddit.com, got %s", config.Upstream.APIBaseURL)
		}

		if config.Upstream.Timeout != 10*time.Second {
			t.Errorf("expected upstream timeout 10s, got %v", config.Upstream.Timeout)
		}

		if len(config.Upstream.Scopes) != 7 {
			t.Errorf("expected 7 default scopes, got %v", config.Upstream.Scopes)
		}

		if config.Credentials.ClientID != "" {
			t.Errorf("expected empty default client_id, got %s", config.Credentials.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Upstream.UserAgent != defaultConfig.Upstream.UserAgent {
			t.Errorf("created config user agent doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
host = "0.0.0.0"
port = 8080

[credentials]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:8080/oauth"

[upstream]
timeout = "3s"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.Credentials.ClientID != "test_client_id" {
			t.Errorf("expected client_id test_client_id, got %s", config.Credentials.ClientID)
		}

		if config.Upstream.Timeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %v", config.Upstream.Timeout)
		}

		if config.Upstream.PublicBaseURL != "https://www.reddit.com" {
			t.Errorf("expected absent keys to keep defaults, got public base %q", config.Upstream.PublicBaseURL)
		}
	})

	t.Run("LoadConfig With Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Load Applies Environment", func(t *testing.T) {
		t.Setenv("PUBLIC_CLIENT_ID", "env_id")
		t.Setenv("CLIENT_SECRET", "env_secret")
		t.Setenv("PUBLIC_REDIRECT_URI", "https://example.com/oauth")
		t.Setenv("UPSTREAM_TIMEOUT", "5s")
		t.Setenv("PORT", "9999")

		config, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.ClientID != "env_id" {
			t.Errorf("expected client_id from env, got %s", config.Credentials.ClientID)
		}
		if config.Credentials.RedirectURI != "https://example.com/oauth" {
			t.Errorf("expected redirect_uri from env, got %s", config.Credentials.RedirectURI)
		}
		if config.Upstream.Timeout != 5*time.Second {
			t.Errorf("expected timeout from env, got %v", config.Upstream.Timeout)
		}
		if config.Server.Port != 9999 {
			t.Errorf("expected port from env, got %d", config.Server.Port)
		}
		if config.Upstream.APIBaseURL != "https://oauth.reddit.com" {
			t.Errorf("expected unset env to keep defaults, got %s", config.Upstream.APIBaseURL)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("Missing Credentials", func(t *testing.T) {
			config := DefaultConfig()
			config.Credentials.ClientID = "id"
			config.Credentials.RedirectURI = "http://x/oauth"

			err := config.Validate()
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
			if got := err.Error(); got != "missing credentials: client_secret" {
				t.Errorf("unexpected message %q", got)
			}
		})

		t.Run("Redirect URI Has No Default", func(t *testing.T) {
			t.Setenv("PUBLIC_CLIENT_ID", "env_id")
			t.Setenv("CLIENT_SECRET", "env_secret")
			t.Setenv("PUBLIC_REDIRECT_URI", "")

			config, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			err = config.Validate()
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
			if got := err.Error(); got != "missing credentials: redirect_uri" {
				t.Errorf("unexpected message %q", got)
			}
		})

		t.Run("Empty User Agent", func(t *testing.T) {
			config := DefaultConfig()
			config.Credentials = CredentialsConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://x/oauth"}
			config.Upstream.UserAgent = ""

			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}
