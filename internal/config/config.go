package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigDirName  = ".ytdlpllm"
	ConfigFileName = "config.yaml"

	DefaultBackend = "openai"
	DefaultModel   = "llama3:latest"
	DefaultBaseURL = "http://localhost:11434/v1"

	// placeholderKey is sent when the configured endpoint does not check
	// credentials (the local default, or any other self-hosted server).
	placeholderKey = "dummy-key"

	apiKeyEnvVar  = "OPENAI_API_KEY"
	hostedAPIHost = "api.openai.com"
)

// Config selects the model backend. It is resolved once at startup (file,
// then flags, then defaults) and passed down explicitly; nothing below the
// CLI layer reads the environment.
type Config struct {
	Backend string `yaml:"backend"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ConfigDirName), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// Load reads the configuration from disk. A missing file is not an error; it
// returns nil so the caller can fall back to defaults.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to disk
func Save(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyDefaults fills any unset field with the built-in default.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
}

// ResolveCredential returns the API key for the configured endpoint. The
// local default endpoint gets a placeholder value. Other endpoints read
// OPENAI_API_KEY from the environment; its absence is fatal only for the
// hosted OpenAI API, since a self-hosted server usually accepts anything.
func (c *Config) ResolveCredential() (string, error) {
	if c.BaseURL == DefaultBaseURL {
		return placeholderKey, nil
	}

	if key := os.Getenv(apiKeyEnvVar); key != "" {
		return key, nil
	}

	if strings.Contains(c.BaseURL, hostedAPIHost) {
		return "", fmt.Errorf("%s is not set; it is required when using %s", apiKeyEnvVar, c.BaseURL)
	}

	return placeholderKey, nil
}
