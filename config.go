package llmclient

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config is the file representation of the client settings.
//
// It deliberately has no field for the API key itself: a configuration file
// can only name the environment variable it is read from.
//
//	base_url: https://api.openai.com
//	version: v1
//	api_key_variable: OPENAI_API_KEY
//	connection_lifetime: 2m
//	headers:
//	  OpenAI-Organization: org-123
type Config struct {
	BaseUrl            string            `yaml:"base_url"`
	Version            *string           `yaml:"version"`
	ApiKeyVariable     string            `yaml:"api_key_variable"`
	ConnectionLifetime time.Duration     `yaml:"connection_lifetime"`
	Headers            map[string]string `yaml:"headers"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not open configuration file")
	}

	defer f.Close()

	var cfg Config

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "could not parse configuration file %s", path)
	}

	if cfg.ConnectionLifetime < 0 {
		return Config{}, errors.Newf("connection lifetime cannot be negative, got %s", cfg.ConnectionLifetime)
	}

	return cfg, nil
}

// WithConfig applies the settings present in a Config. Options given after it
// take precedence.
func WithConfig(cfg Config) ClientOption {
	return func(llm *Client) {
		if cfg.BaseUrl != "" {
			llm.baseUrl = cfg.BaseUrl
		}
		if cfg.Version != nil {
			llm.version = *cfg.Version
		}
		if cfg.ApiKeyVariable != "" {
			llm.apiKeyVariable = cfg.ApiKeyVariable
		}
		if cfg.ConnectionLifetime > 0 {
			llm.connectionLifetime = cfg.ConnectionLifetime
		}

		WithHeaders(cfg.Headers)(llm)
	}
}
