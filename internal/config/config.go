package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port"`
	DBDSN    string `yaml:"db_dsn"`
	MediaDir string `yaml:"media_dir"`
	LogFile  string `yaml:"log_file"`
	Env      string `yaml:"env"`

	// Assistant proxy (OpenAI-compatible chat completions endpoint).
	AssistantURL   string `yaml:"assistant_url"`
	AssistantKey   string `yaml:"assistant_api_key"`
	AssistantModel string `yaml:"assistant_model"`
}

// Load builds config from an optional YAML file (CONFIG_FILE) overlaid
// with environment variables. Env wins.
func Load() Config {
	cfg := Config{
		Port:           "8080",
		DBDSN:          "collegecart.db",
		MediaDir:       "./media",
		LogFile:        "./collegecart.log",
		Env:            "development",
		AssistantURL:   "https://api.openai.com/v1",
		AssistantModel: "gpt-4o-mini",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[config] could not read %s: %v", path, err)
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			log.Printf("[config] could not parse %s: %v", path, err)
		}
	}

	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	overlay(&cfg.Port, "PORT")
	overlay(&cfg.DBDSN, "DB_DSN")
	overlay(&cfg.MediaDir, "MEDIA_DIR")
	overlay(&cfg.LogFile, "LOG_FILE")
	overlay(&cfg.Env, "ENV")
	overlay(&cfg.AssistantURL, "ASSISTANT_URL")
	overlay(&cfg.AssistantKey, "ASSISTANT_API_KEY")
	overlay(&cfg.AssistantModel, "ASSISTANT_MODEL")

	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s ENV=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.Env)
	return cfg
}

func (c Config) Production() bool { return c.Env == "production" }
