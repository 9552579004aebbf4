package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port int `yaml:"port" env:"PORT"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`

	AI struct {
		Provider string        `yaml:"provider" env:"AI_PROVIDER"`
		APIKey   string        `yaml:"apiKey" env:"AI_API_KEY"`
		Model    string        `yaml:"model" env:"AI_MODEL"`
		Timeout  time.Duration `yaml:"timeout" env:"AI_TIMEOUT"`
	} `yaml:"ai"`

	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
	} `yaml:"storage"`

	Database struct {
		Host     string `yaml:"host" env:"DB_HOST"`
		Port     int    `yaml:"port" env:"DB_PORT"`
		User     string `yaml:"user" env:"DB_USER"`
		Password string `yaml:"password" env:"DB_PASSWORD"`
		Name     string `yaml:"name" env:"DB_NAME"`
		SSLMode  string `yaml:"sslMode" env:"DB_SSLMODE"`
	} `yaml:"database"`

	Minio struct {
		Enabled    bool   `yaml:"enabled" env:"MINIO_ENABLED"`
		Endpoint   string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
		AccessKey  string `yaml:"accessKey" env:"MINIO_ACCESS_KEY"`
		SecretKey  string `yaml:"secretKey" env:"MINIO_SECRET_KEY"`
		BucketName string `yaml:"bucketName" env:"MINIO_BUCKET"`
		Region     string `yaml:"region" env:"MINIO_REGION"`
		UseSSL     bool   `yaml:"useSSL" env:"MINIO_USE_SSL"`
	} `yaml:"minio"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	} `yaml:"cors"`
}

// Default returns the settings used when no config file is present.
func Default() *Config {
	var cfg Config
	cfg.Server.Port = 5000
	cfg.Log.Level = "info"
	cfg.AI.Provider = ProviderGemini
	cfg.AI.Timeout = 60 * time.Second
	cfg.Storage.Driver = DriverMemory
	cfg.Database.Host = "localhost"
	cfg.Database.SSLMode = "disable"
	cfg.Minio.BucketName = "product-images"
	cfg.CORS.AllowedOrigins = []string{"*"}
	return &cfg
}

// Load baca file config.yaml, lalu .env dan environment variable.
// File yang tidak ada tidak dianggap error.
func Load(path string) (*Config, error) {
	// .env opsional
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// env menimpa nilai dari file
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize applies the provider specific key variables and tidies list
// and enum values coming from the environment.
func (c *Config) normalize() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))

	keyVar := map[string]string{
		ProviderGemini: "GEMINI_API_KEY",
		ProviderOpenAI: "OPENAI_API_KEY",
	}[c.AI.Provider]
	if keyVar != "" {
		if v := os.Getenv(keyVar); v != "" {
			c.AI.APIKey = v
		}
	}

	origins := c.CORS.AllowedOrigins[:0]
	for _, o := range c.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.AllowedOrigins = origins
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown ai provider %q (allowed: gemini, openai)", c.AI.Provider)
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("api key for %s is not set", c.AI.Provider)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai timeout must be positive")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverMySQL, DriverPostgres:
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required for %s storage", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q (allowed: memory, mysql, postgres)", c.Storage.Driver)
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		return fmt.Errorf("minio endpoint and bucket are required when minio is enabled")
	}
	return nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	port := c.Database.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	port := c.Database.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
