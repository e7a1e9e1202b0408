package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/reinhart/loopagent/internal/safety"
)

const (
	DefaultBaseURL       = "https://openrouter.ai/api/v1"
	DefaultModel         = "anthropic/claude-haiku-4.5"
	DefaultMaxIterations = 10
	DefaultMaxMessages   = 30
	DefaultLogFile       = "debug.log"
)

// Config represents the application configuration
type Config struct {
	LLM    LLMConfig    `toml:"llm"`
	Agent  AgentConfig  `toml:"agent"`
	Limits LimitsConfig `toml:"limits"`
}

type LLMConfig struct {
	APIKey         string   `toml:"-"`
	BaseURL        string   `toml:"base_url"`
	Model          string   `toml:"model"`
	RequestTimeout Duration `toml:"request_timeout"`
}

type AgentConfig struct {
	MaxIterations int    `toml:"max_iterations"`
	MaxMessages   int    `toml:"max_messages"`
	Debug         bool   `toml:"debug"`
	LogFile       string `toml:"log_file"`
}

type LimitsConfig struct {
	MaxReadBytes   int `toml:"max_read_bytes"`
	MaxWriteBytes  int `toml:"max_write_bytes"`
	MaxOutputBytes int `toml:"max_output_bytes"`
}

// Duration decodes TOML strings such as "90s". Zero means no client timeout.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// environment is the env-only overlay. The API key never comes from a file.
type environment struct {
	APIKey  string `env:"OPENROUTER_API_KEY,required,notEmpty"`
	BaseURL string `env:"OPENROUTER_BASE_URL"`
	Model   string `env:"LOOPAGENT_MODEL"`
	Debug   bool   `env:"DEBUG"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL: DefaultBaseURL,
			Model:   DefaultModel,
		},
		Agent: AgentConfig{
			MaxIterations: DefaultMaxIterations,
			MaxMessages:   DefaultMaxMessages,
			LogFile:       DefaultLogFile,
		},
		Limits: LimitsConfig{
			MaxReadBytes:   safety.MaxReadBytes,
			MaxWriteBytes:  safety.MaxWriteBytes,
			MaxOutputBytes: safety.MaxOutputBytes,
		},
	}
}

// SearchPaths lists the config locations tried when no explicit path is given.
func SearchPaths() []string {
	return []string{
		"./loopagent.toml",
		filepath.Join(os.Getenv("HOME"), ".config", "loopagent", "config.toml"),
		"/etc/loopagent/config.toml",
	}
}

// LoadConfig builds the configuration from defaults, an optional TOML file and
// the process environment. An explicit path must exist; otherwise the first
// existing file from SearchPaths is used and none at all is fine.
func LoadConfig(path string) (*Config, string, error) {
	config := DefaultConfig()

	loadedPath, err := decodeFile(config, path)
	if err != nil {
		return nil, "", err
	}

	var e environment
	if err := env.Parse(&e); err != nil {
		return nil, "", fmt.Errorf("environment: %w", err)
	}
	config.applyEnv(e)

	if err := config.Validate(); err != nil {
		return nil, "", err
	}
	return config, loadedPath, nil
}

func decodeFile(config *Config, path string) (string, error) {
	if path != "" {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return "", fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return path, nil
	}

	for _, candidate := range SearchPaths() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(candidate, config); err != nil {
			return "", fmt.Errorf("failed to parse config file %s: %w", candidate, err)
		}
		return candidate, nil
	}
	return "", nil
}

func (c *Config) applyEnv(e environment) {
	c.LLM.APIKey = e.APIKey
	if e.BaseURL != "" {
		c.LLM.BaseURL = e.BaseURL
	}
	if e.Model != "" {
		c.LLM.Model = e.Model
	}
	if e.Debug {
		c.Agent.Debug = true
	}
}

// Validate rejects configurations the agent cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("OPENROUTER_API_KEY is not set"))
	}
	if c.LLM.BaseURL == "" {
		errs = append(errs, errors.New("llm.base_url must not be empty"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model must not be empty"))
	}
	if c.LLM.RequestTimeout.Duration < 0 {
		errs = append(errs, errors.New("llm.request_timeout must not be negative"))
	}
	if c.Agent.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_iterations must be positive, got %d", c.Agent.MaxIterations))
	}
	// Eviction removes index 1, so the bound must leave room for it.
	if c.Agent.MaxMessages < 2 {
		errs = append(errs, fmt.Errorf("agent.max_messages must be at least 2, got %d", c.Agent.MaxMessages))
	}
	if c.Limits.MaxReadBytes <= 0 || c.Limits.MaxWriteBytes <= 0 || c.Limits.MaxOutputBytes <= 0 {
		errs = append(errs, errors.New("limits must be positive"))
	}
	return errors.Join(errs...)
}
