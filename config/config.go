package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Inference InferenceConfig `yaml:"inference"`
	Upload    UploadConfig    `yaml:"upload"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// InferenceConfig describes the remote chat-completion service.
type InferenceConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	Token          string  `yaml:"token"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	TopP           float64 `yaml:"top_p"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

type UploadConfig struct {
	Dir string `yaml:"dir"`
}

// ArchiveConfig enables best-effort archiving of accepted uploads to an
// object store. Uploads are only kept in the scratch directory when disabled.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the config file at path. A missing file is not an error; the
// service runs on defaults plus environment variables in that case.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Environment overrides
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if cfg.Inference.Token == "" {
		cfg.Inference.Token = os.Getenv("GITHUB_TOKEN")
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Inference.Endpoint == "" {
		cfg.Inference.Endpoint = "https://models.github.ai/inference"
	}
	if cfg.Inference.Model == "" {
		cfg.Inference.Model = "openai/gpt-4.1"
	}
	if cfg.Inference.Temperature == 0 {
		cfg.Inference.Temperature = 0.7
	}
	if cfg.Inference.TopP == 0 {
		cfg.Inference.TopP = 1
	}
	if cfg.Inference.TimeoutSeconds == 0 {
		cfg.Inference.TimeoutSeconds = 60
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads"
	}

	return &cfg, nil
}

// Validate checks settings that must be present before the service can
// accept requests.
func (c *Config) Validate() error {
	if c.Inference.Token == "" {
		return fmt.Errorf("inference token is not set (GITHUB_TOKEN environment variable or inference.token in config)")
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.Bucket == "") {
		return fmt.Errorf("archive is enabled but endpoint or bucket is missing")
	}
	return nil
}
