package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Generator GeneratorConfig `yaml:"generator"`
	Storage   StorageConfig   `yaml:"storage"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GeneratorConfig holds generation provider configuration. The credential and
// URL are read once at startup and injected into the generation client;
// without a real credential the service permanently serves the mock fallback.
type GeneratorConfig struct {
	APIKey          string        `yaml:"apiKey"`
	URL             string        `yaml:"url"`
	Temperature     float64       `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"maxOutputTokens"`
	Timeout         time.Duration `yaml:"timeout"`
	TestTimeout     time.Duration `yaml:"testTimeout"`
}

// UnmarshalYAML decodes the generator section, accepting duration strings
// like "120s" for the timeout fields.
func (g *GeneratorConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		APIKey          string  `yaml:"apiKey"`
		URL             string  `yaml:"url"`
		Temperature     float64 `yaml:"temperature"`
		MaxOutputTokens int     `yaml:"maxOutputTokens"`
		Timeout         string  `yaml:"timeout"`
		TestTimeout     string  `yaml:"testTimeout"`
	}
	raw.APIKey = g.APIKey
	raw.URL = g.URL
	raw.Temperature = g.Temperature
	raw.MaxOutputTokens = g.MaxOutputTokens

	if err := value.Decode(&raw); err != nil {
		return err
	}

	g.APIKey = raw.APIKey
	g.URL = raw.URL
	g.Temperature = raw.Temperature
	g.MaxOutputTokens = raw.MaxOutputTokens

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid generator timeout: %w", err)
		}
		g.Timeout = d
	}
	if raw.TestTimeout != "" {
		d, err := time.ParseDuration(raw.TestTimeout)
		if err != nil {
			return fmt.Errorf("invalid generator testTimeout: %w", err)
		}
		g.TestTimeout = d
	}

	return nil
}

// StorageConfig holds suite archive configuration
type StorageConfig struct {
	Type string `yaml:"type"` // "memory" or "file"
	Path string `yaml:"path"` // Path for file storage
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	MaxTraces int `yaml:"maxTraces"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Generator: GeneratorConfig{
			APIKey:          "",
			URL:             "",
			Temperature:     0.2,
			MaxOutputTokens: 8192,
			Timeout:         120 * time.Second,
			TestTimeout:     30 * time.Second,
		},
		Storage: StorageConfig{
			Type: "memory",
			Path: "./data",
		},
		Tracing: TracingConfig{
			MaxTraces: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
