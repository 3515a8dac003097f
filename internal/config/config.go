package config

import (
	yamlenv "github.com/ifuryst/go-yaml-env"
	"github.com/ncalabs/scribe/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logger    logger.Config   `yaml:"logger"`
	Content   ContentConfig   `yaml:"content"`
	Generator GeneratorConfig `yaml:"generator"`
	Publisher PublisherConfig `yaml:"publisher"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Host     string `yaml:"host"`
	Mode     string `yaml:"mode"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"timezone"`
}

type ContentConfig struct {
	// Root is the article content directory, relative to BaseDir.
	Root    string `yaml:"root"`
	BaseDir string `yaml:"base_dir"`
}

type GeneratorConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	ImageModel string `yaml:"image_model"`
	Endpoint   string `yaml:"endpoint"`
	Timeout    string `yaml:"timeout"`
}

type PublisherConfig struct {
	Interval     string `yaml:"interval"`
	InitialDelay string `yaml:"initial_delay"`
	Enabled      bool   `yaml:"enabled"`
}

func LoadConfig(configPath string) (*Config, error) {
	cfg, err := yamlenv.LoadConfig[Config](configPath)
	if err != nil {
		return nil, err
	}

	// Set default values
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5336
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.TimeZone == "" {
		cfg.Database.TimeZone = "UTC"
	}
	if cfg.Content.Root == "" {
		cfg.Content.Root = "nca-ai-cms-content"
	}
	if cfg.Content.BaseDir == "" {
		cfg.Content.BaseDir = "."
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = "gemini-2.5-flash"
	}
	if cfg.Generator.ImageModel == "" {
		cfg.Generator.ImageModel = "imagen-4.0-generate-001"
	}
	if cfg.Generator.Endpoint == "" {
		cfg.Generator.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Generator.Timeout == "" {
		cfg.Generator.Timeout = "120s"
	}
	if cfg.Publisher.Interval == "" {
		cfg.Publisher.Interval = "60m"
	}
	if cfg.Publisher.InitialDelay == "" {
		cfg.Publisher.InitialDelay = "10s"
	}
	if !cfg.Publisher.Enabled {
		cfg.Publisher.Enabled = true
	}

	return cfg, nil
}
