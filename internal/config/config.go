// Package config loads service settings from an optional YAML file and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "LEXMETRICS_CONFIG"
	portEnv         = "PORT"
	logLevelEnv     = "LOG_LEVEL"
	dbDriverEnv     = "DB_DRIVER"
	dbDSNEnv        = "DB_DSN"
	redisAddrEnv    = "REDIS_ADDR"
	lexiconDirEnv   = "LEXICON_DIR"
	stopwordsDirEnv = "STOPWORDS_DIR"
	articlesDirEnv  = "ARTICLES_DIR"
	otlpEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Config holds settings shared by the server and batch binaries.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Queue     QueueConfig     `yaml:"queue"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Articles  ArticlesConfig  `yaml:"articles"`
	Retriever RetrieverConfig `yaml:"retriever"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ServerConfig controls the HTTP listener and logging.
type ServerConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`
}

// DatabaseConfig selects the result store. Driver is "sqlite" or "postgres".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// QueueConfig describes the Redis-backed task queue. An empty RedisAddr
// disables asynchronous document processing.
type QueueConfig struct {
	RedisAddr   string `yaml:"redisAddr"`
	Concurrency int    `yaml:"concurrency"`
}

// LexiconConfig points at the word list directories. Empty directories fall
// back to the built-in lists.
type LexiconConfig struct {
	Dir          string `yaml:"dir"`
	StopwordsDir string `yaml:"stopwordsDir"`
	Encoding     string `yaml:"encoding"`
}

// ArticlesConfig is where retrieved article text is kept.
type ArticlesConfig struct {
	Dir string `yaml:"dir"`
}

// RetrieverConfig tunes content retrieval.
type RetrieverConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// TracingConfig enables OTLP trace export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
}

// Load reads the YAML file named by LEXMETRICS_CONFIG (if set), merges it
// over the defaults and applies environment overrides.
func Load() (Config, error) {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit path; an empty path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
		cfg = merge(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server:    ServerConfig{Port: "8080", LogLevel: "info"},
		Database:  DatabaseConfig{Driver: "sqlite", DSN: "lexmetrics.db"},
		Queue:     QueueConfig{Concurrency: 4},
		Lexicon:   LexiconConfig{Encoding: "utf-8"},
		Articles:  ArticlesConfig{Dir: "articles"},
		Retriever: RetrieverConfig{Timeout: 30 * time.Second},
		Tracing:   TracingConfig{ServiceName: "lexmetrics"},
	}
}

// Validate checks values that would otherwise fail late
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database dsn is required")
	}
	if c.Queue.Concurrency < 1 {
		return fmt.Errorf("config: queue concurrency must be positive, got %d", c.Queue.Concurrency)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	overrides := []struct {
		env    string
		target *string
	}{
		{portEnv, &c.Server.Port},
		{logLevelEnv, &c.Server.LogLevel},
		{dbDriverEnv, &c.Database.Driver},
		{dbDSNEnv, &c.Database.DSN},
		{redisAddrEnv, &c.Queue.RedisAddr},
		{lexiconDirEnv, &c.Lexicon.Dir},
		{stopwordsDirEnv, &c.Lexicon.StopwordsDir},
		{articlesDirEnv, &c.Articles.Dir},
		{otlpEndpointEnv, &c.Tracing.Endpoint},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}

	if v := os.Getenv("QUEUE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid QUEUE_CONCURRENCY %q: %w", v, err)
		}
		c.Queue.Concurrency = n
	}
	return nil
}

func merge(base, override Config) Config {
	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}
	if override.Server.LogLevel != "" {
		base.Server.LogLevel = override.Server.LogLevel
	}

	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Queue.RedisAddr != "" {
		base.Queue.RedisAddr = override.Queue.RedisAddr
	}
	if override.Queue.Concurrency != 0 {
		base.Queue.Concurrency = override.Queue.Concurrency
	}

	if override.Lexicon.Dir != "" {
		base.Lexicon.Dir = override.Lexicon.Dir
	}
	if override.Lexicon.StopwordsDir != "" {
		base.Lexicon.StopwordsDir = override.Lexicon.StopwordsDir
	}
	if override.Lexicon.Encoding != "" {
		base.Lexicon.Encoding = override.Lexicon.Encoding
	}

	if override.Articles.Dir != "" {
		base.Articles.Dir = override.Articles.Dir
	}

	if override.Retriever.Timeout != 0 {
		base.Retriever.Timeout = override.Retriever.Timeout
	}

	if override.Tracing.Endpoint != "" {
		base.Tracing.Endpoint = override.Tracing.Endpoint
	}
	if override.Tracing.ServiceName != "" {
		base.Tracing.ServiceName = override.Tracing.ServiceName
	}

	return base
}
