package llmclient

import (
	"log/slog"
	"net/http"
	"time"
)

// ClientOption configures a Client built by New.
type ClientOption func(*Client)

// WithApiKey sets the API key explicitly. It takes precedence over the
// environment.
func WithApiKey(key string) ClientOption {
	return func(llm *Client) {
		llm.apiKey = key
	}
}

// WithApiKeyVariable changes the environment variable the API key is read
// from when none is provided explicitly. Defaults to LLM_API_KEY.
func WithApiKeyVariable(name string) ClientOption {
	return func(llm *Client) {
		llm.apiKeyVariable = name
	}
}

// WithEnvironment sets where the API key variable is looked up. Defaults to
// the process environment.
func WithEnvironment(env Environment) ClientOption {
	return func(llm *Client) {
		llm.environment = env
	}
}

// WithHttpClient makes the client use the provided *http.Client.
//
// The caller keeps ownership of it: closing the client will not release it.
func WithHttpClient(client *http.Client) ClientOption {
	return func(llm *Client) {
		llm.borrowedClient = client
	}
}

// WithConnectionLifetime sets how long pooled connections are reused before
// being re-established. It has no effect with WithHttpClient.
func WithConnectionLifetime(lifetime time.Duration) ClientOption {
	return func(llm *Client) {
		llm.connectionLifetime = lifetime
	}
}

// WithBaseUrl sets the URL at which the API is available, without the version
// segment.
//
// If not specified, will use OpenAI's API.
func WithBaseUrl(url string) ClientOption {
	return func(llm *Client) {
		llm.baseUrl = url
	}
}

// WithVersion overrides the version segment of endpoint URLs. Defaults to `v1`.
func WithVersion(version string) ClientOption {
	return func(llm *Client) {
		llm.version = version
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) ClientOption {
	return func(llm *Client) {
		for name, value := range headers {
			llm.headers.Set(name, value)
		}
	}
}

// WithSerializer replaces the serialization policy.
func WithSerializer(serializer Serializer) ClientOption {
	return func(llm *Client) {
		llm.serializer = serializer
	}
}

// WithLogger sets the logger requests are traced to, at debug level.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(llm *Client) {
		llm.logger = logger
	}
}
