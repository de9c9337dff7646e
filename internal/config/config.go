package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
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
		TTL            string `yaml:"ttl"`
		QuestionsDir   string `yaml:"questions_dir"`
		DefaultSet     string `yaml:"default_set"`
		CountdownTicks int    `yaml:"countdown_ticks"`
		TickInterval   string `yaml:"tick_interval"`
		// AllowRetreat is a pointer so an explicit false survives ApplyDefaults.
		AllowRetreat *bool  `yaml:"allow_retreat"`
		ResultTTL    string `yaml:"result_ttl"`
	} `yaml:"quiz"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Quiz.QuestionsDir == "" {
		c.Quiz.QuestionsDir = "data"
	}
	if c.Quiz.DefaultSet == "" {
		c.Quiz.DefaultSet = "questions"
	}
	if c.Quiz.CountdownTicks <= 0 {
		c.Quiz.CountdownTicks = 15
	}
	if c.Quiz.AllowRetreat == nil {
		allow := true
		c.Quiz.AllowRetreat = &allow
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// RetreatAllowed reports the allow_retreat flag, true when unset.
func (c Config) RetreatAllowed() bool {
	return c.Quiz.AllowRetreat == nil || *c.Quiz.AllowRetreat
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
