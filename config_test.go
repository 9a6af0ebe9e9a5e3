package llmclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "llm.yaml")

	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
base_url: https://llm.example.com
version: ""
api_key_variable: CUSTOM_KEY
connection_lifetime: 2m
headers:
  OpenAI-Organization: org-123
`)

	cfg, err := LoadConfig(path)

	assert.Nil(t, err)
	assert.Equal(t, "https://llm.example.com", cfg.BaseUrl)
	assert.Equal(t, "", *cfg.Version)
	assert.Equal(t, "CUSTOM_KEY", cfg.ApiKeyVariable)
	assert.Equal(t, 2*time.Minute, cfg.ConnectionLifetime)

	llm, err := New(WithConfig(cfg), WithEnvironment(MapEnvironment{"CUSTOM_KEY": "key"}))

	assert.Nil(t, err)
	assert.Equal(t, "https://llm.example.com/models", llm.Url("models"))
	assert.Equal(t, "env:CUSTOM_KEY", llm.Credential().Source())
	assert.Equal(t, "org-123", llm.headers.Get("openai-organization"))
	assert.Equal(t, 2*time.Minute, llm.transport.(*ownedTransport).pool.IdleConnTimeout)
	assert.Nil(t, llm.Close())
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "api_key_variable: CUSTOM_KEY\n"))

	assert.Nil(t, err)

	llm, err := New(WithConfig(cfg), WithApiKey("key"))

	assert.Nil(t, err)
	assert.Equal(t, "https://api.openai.com/v1/models", llm.Url("models"))
	assert.Nil(t, llm.Close())
}

func TestLoadInvalidConfig(t *testing.T) {
	tts := []struct {
		name     string
		contents string
		err      string
	}{
		{"unknown field", "api_key: secret\n", "could not parse configuration file"},
		{"invalid duration", "connection_lifetime: forever\n", "could not parse configuration file"},
		{"negative duration", "connection_lifetime: -1m\n", "connection lifetime cannot be negative"},
	}

	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.contents))

			assert.ErrorContains(t, err, tt.err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorContains(t, err, "could not open configuration file")
}
