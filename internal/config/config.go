package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "mailpilot"

	// DefaultMaxSearchResults bounds search_emails when the caller gives no limit.
	DefaultMaxSearchResults = 10

	// DefaultHistoryTurns bounds the conversation ring passed back to the model.
	DefaultHistoryTurns = 16
)

// LLMConfig holds the conversational model settings.
type LLMConfig struct {
	// Provider selects the backend: "openai", "ollama" or "bedrock".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// Endpoint is the base URL for the ollama provider.
	Endpoint string `yaml:"endpoint"`
	// Region is used by the bedrock provider.
	Region string `yaml:"region"`
	// APIKey may be left empty; the environment and the OS keyring are
	// consulted in that order via ResolveAPIKey.
	APIKey string `yaml:"api_key"`
	// Timeout is a duration string such as "60s" or "2m".
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration parses the timeout, falling back to a minute on bad input.
func (l LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(l.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// GmailConfig holds Gmail OAuth client settings.
type GmailConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// MetricsConfig holds the optional Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Config holds all mailpilot configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Gmail   GmailConfig   `yaml:"gmail"`
	Metrics MetricsConfig `yaml:"metrics"`

	// MaxSearchResults is the default search result cap.
	MaxSearchResults int `yaml:"max_search_results"`
	// HistoryTurns is the conversation history capacity.
	HistoryTurns int `yaml:"history_turns"`
	// LogFile redirects logs away from the terminal when set.
	LogFile string `yaml:"log_file"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o",
			Endpoint: "http://localhost:11434",
			Timeout:  "60s",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		MaxSearchResults: DefaultMaxSearchResults,
		HistoryTurns:     DefaultHistoryTurns,
	}
}

// Dir returns the mailpilot config directory.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from path, falling back to the default location when
// path is empty. A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyFloors()

	return cfg, nil
}

// Save writes the config to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyFloors() {
	if c.MaxSearchResults <= 0 {
		c.MaxSearchResults = DefaultMaxSearchResults
	}
	if c.HistoryTurns <= 0 {
		c.HistoryTurns = DefaultHistoryTurns
	}
	if c.LLM.Timeout == "" {
		c.LLM.Timeout = "60s"
	}
}

// apiKeyEnvVars maps provider names to the environment variable checked first.
var apiKeyEnvVars = map[string]string{
	"openai": "OPENAI_API_KEY",
}

// ResolveAPIKey returns the API key for the configured provider, consulting
// the config, the environment and the OS keyring in that order. Providers
// that need no key (ollama, bedrock) resolve to an empty string without error.
func (c *Config) ResolveAPIKey() (string, error) {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey, nil
	}

	if envVar, ok := apiKeyEnvVars[c.LLM.Provider]; ok {
		if key := os.Getenv(envVar); key != "" {
			return key, nil
		}
	} else {
		// Credential-chain providers handle their own auth.
		return "", nil
	}

	key, err := keyring.Get(AppName, c.LLM.Provider)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no API key for provider %s: set %s or run 'mailpilot auth --store-api-key'", c.LLM.Provider, apiKeyEnvVars[c.LLM.Provider])
		}
		return "", fmt.Errorf("failed to read API key from keyring: %w", err)
	}
	return key, nil
}

// StoreAPIKey saves the API key for the configured provider in the OS keyring.
func (c *Config) StoreAPIKey(key string) error {
	if key == "" {
		return errors.New("API key must not be empty")
	}
	return keyring.Set(AppName, c.LLM.Provider, key)
}
