package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/spendlens/spendlens/internal/completion"
)

// EnvPrefix prefixes every environment override, e.g. SPENDLENS_BACKEND_TYPE.
const EnvPrefix = "SPENDLENS"

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "spendlens.yaml"

// Config represents the top-level spendlens.yaml configuration.
type Config struct {
	Backend  BackendConfig  `yaml:"backend" envconfig:"BACKEND"`
	Classify ClassifyConfig `yaml:"classify" envconfig:"CLASSIFY"`
	Report   ReportConfig   `yaml:"report" envconfig:"REPORT"`
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
}

// BackendConfig selects and configures the completion backend.
type BackendConfig struct {
	Type    string        `yaml:"type" split_words:"true"` // "remote" or "local"
	Timeout time.Duration `yaml:"timeout" split_words:"true"`
	Remote  RemoteConfig  `yaml:"remote" envconfig:"REMOTE"`
	Local   LocalConfig   `yaml:"local" envconfig:"LOCAL"`
}

// RemoteConfig configures the hosted model.
type RemoteConfig struct {
	Model  string `yaml:"model" split_words:"true"`
	APIKey string `yaml:"api_key,omitempty" split_words:"true"`
}

// LocalConfig configures the locally served model.
type LocalConfig struct {
	URL   string `yaml:"url" split_words:"true"`
	Model string `yaml:"model" split_words:"true"`
}

// ClassifyConfig controls the classification pass.
type ClassifyConfig struct {
	Concurrency int `yaml:"concurrency" split_words:"true"`
}

// ReportConfig controls the trend report.
type ReportConfig struct {
	Enabled  bool   `yaml:"enabled" split_words:"true"`
	Currency string `yaml:"currency" split_words:"true"` // symbol printed before amounts
}

// InputConfig selects the statement parser.
type InputConfig struct {
	Format string `yaml:"format" split_words:"true"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level" split_words:"true"`
}

// Default returns a Config that talks to a local Ollama install.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Type:    string(completion.KindLocal),
			Timeout: 2 * time.Minute,
			Remote: RemoteConfig{
				Model: completion.DefaultGeminiModel,
			},
			Local: LocalConfig{
				URL:   completion.DefaultOllamaURL,
				Model: completion.DefaultOllamaModel,
			},
		},
		Classify: ClassifyConfig{Concurrency: 1},
		Report: ReportConfig{
			Enabled:  true,
			Currency: "£",
		},
		Input: InputConfig{Format: "statement"},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads a spendlens.yaml file from disk on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Override mutates a resolved Config before validation, e.g. from CLI flags.
type Override func(*Config)

// Resolve builds the effective configuration: defaults, then the YAML file
// at path if it exists, then .env, then SPENDLENS_* environment variables,
// then overrides. A missing file is only an error when required is set.
func Resolve(path string, required bool, overrides ...Override) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any SPENDLENS_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("processing environment: %w", err)
	}
	return nil
}

// Validate reports configuration that cannot produce a working run.
func (c *Config) Validate() error {
	kind := completion.Kind(c.Backend.Type)
	if !kind.IsValid() {
		return fmt.Errorf("invalid backend type %q (want one of %v)", c.Backend.Type, completion.Kinds())
	}
	if kind == completion.KindRemote && c.Backend.Remote.APIKey == "" {
		return fmt.Errorf("remote backend requires an api key (set %s_BACKEND_REMOTE_API_KEY)", EnvPrefix)
	}
	if c.Classify.Concurrency < 1 {
		return fmt.Errorf("classify.concurrency must be at least 1, got %d", c.Classify.Concurrency)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", c.Backend.Timeout)
	}
	return nil
}

// CompletionOptions converts the backend section for completion.New.
func (c *Config) CompletionOptions() completion.Options {
	return completion.Options{
		Kind:         completion.Kind(c.Backend.Type),
		Timeout:      c.Backend.Timeout,
		RemoteAPIKey: c.Backend.Remote.APIKey,
		RemoteModel:  c.Backend.Remote.Model,
		LocalURL:     c.Backend.Local.URL,
		LocalModel:   c.Backend.Local.Model,
	}
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
