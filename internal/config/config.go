package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SourceXLSX     = "xlsx"
	SourcePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Env   string `yaml:"env"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Vocabulary struct {
		Source string `yaml:"source"`
		Path   string `yaml:"path"`
		Sheet  string `yaml:"sheet"`
		TTL    string `yaml:"ttl"`
	} `yaml:"vocabulary"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		QuestionCount int `yaml:"question_count"`
		OptionCount   int `yaml:"option_count"`
		RangeSize     int `yaml:"range_size"`
	} `yaml:"quiz"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Env = "development"
	cfg.Log.Level = "info"
	cfg.Vocabulary.Source = SourceXLSX
	cfg.Vocabulary.Path = "data/pass1.xlsx"
	cfg.Vocabulary.TTL = "10m"
	cfg.Redis.TTL = "30m"
	cfg.Quiz.QuestionCount = 50
	cfg.Quiz.OptionCount = 4
	cfg.Quiz.RangeSize = 100
	return cfg
}

// Load reads YAML config from path on top of the defaults. A missing file is not an
// error. A .env file in the working directory is loaded first, and POSTGRES_URL,
// REDIS_ADDR, REDIS_PASSWORD and VOCABULARY_PATH override the file.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	overrideFromEnv(&cfg.Postgres.URL, "POSTGRES_URL")
	overrideFromEnv(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideFromEnv(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideFromEnv(&cfg.Vocabulary.Path, "VOCABULARY_PATH")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the quiz cannot run with.
func (c Config) Validate() error {
	switch c.Vocabulary.Source {
	case SourceXLSX:
		if c.Vocabulary.Path == "" {
			return fmt.Errorf("vocabulary.path is required for the xlsx source")
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres.url is required for the postgres source")
		}
	default:
		return fmt.Errorf("vocabulary.source must be %q or %q, got %q", SourceXLSX, SourcePostgres, c.Vocabulary.Source)
	}
	if c.Quiz.QuestionCount < 1 || c.Quiz.QuestionCount > 100 {
		return fmt.Errorf("quiz.question_count must be within 1..100, got %d", c.Quiz.QuestionCount)
	}
	if c.Quiz.OptionCount < 2 {
		return fmt.Errorf("quiz.option_count must be at least 2, got %d", c.Quiz.OptionCount)
	}
	if c.Quiz.RangeSize < 1 {
		return fmt.Errorf("quiz.range_size must be positive, got %d", c.Quiz.RangeSize)
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
