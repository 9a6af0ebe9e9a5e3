package llmclient

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/checkmarble/marble-llm-client/internal"
	"github.com/cockroachdb/errors"
)

const (
	DefaultBaseUrl = "https://api.openai.com"
	DefaultVersion = "v1"
)

// Client is the entrypoint to the API. It owns the credential, the HTTP
// transport and the serialization policy, and exposes one wrapper per group of
// endpoints.
//
// A Client is safe for concurrent use. It must be released with Close once it
// is not needed anymore.
type Client struct {
	Completions *Completions
	Models      *Models
	Embeddings  *Embeddings

	credential Credential
	transport  transport
	serializer Serializer
	logger     *slog.Logger

	baseUrl string
	version string
	headers http.Header

	// Only used during construction.
	apiKey             string
	apiKeyVariable     string
	environment        Environment
	borrowedClient     *http.Client
	connectionLifetime time.Duration

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ internal.Adapter = (*Client)(nil)

// New creates a Client with the given options.
//
// The API key is resolved once, here: if none is provided with WithApiKey, it
// is read from the LLM_API_KEY environment variable, and New fails with a
// *ConfigurationError if it is not set.
//
// Example usage:
//
//	llm, err := llmclient.New(llmclient.WithApiKey("your-api-key"))
//	if err != nil {
//		return err
//	}
//	defer llm.Close()
func New(opts ...ClientOption) (*Client, error) {
	llm := Client{
		serializer:     JsonSerializer,
		baseUrl:        DefaultBaseUrl,
		version:        DefaultVersion,
		headers:        make(http.Header),
		apiKeyVariable: DefaultApiKeyVariable,
		environment:    OsEnvironment(),
	}

	for _, opt := range opts {
		opt(&llm)
	}

	credential, err := ResolveCredential(llm.apiKey, llm.apiKeyVariable, llm.environment)
	if err != nil {
		return nil, err
	}

	llm.credential = credential
	llm.apiKey = ""

	if llm.logger == nil {
		llm.logger = slog.New(slog.DiscardHandler)
	}

	switch llm.borrowedClient {
	case nil:
		llm.transport = newOwnedTransport(llm.connectionLifetime)
	default:
		llm.transport = &borrowedTransport{client: llm.borrowedClient}
	}

	llm.Completions = &Completions{adapter: &llm}
	llm.Models = &Models{adapter: &llm}
	llm.Embeddings = &Embeddings{adapter: &llm}

	llm.logger.Debug("LLM client initialized",
		"base_url", llm.baseUrl,
		"version", llm.version,
		"credential", llm.credential.String(),
		"owned_transport", llm.borrowedClient == nil)

	return &llm, nil
}

// Close releases the resources held by the client.
//
// The HTTP transport is only released if it was created by the client; a
// client provided through WithHttpClient is left untouched. Close can be
// called several times, and calls issued after it fail with ErrClientClosed.
func (llm *Client) Close() error {
	llm.closeOnce.Do(func() {
		llm.closed.Store(true)

		if err := releaseTransport(llm.transport); err != nil {
			llm.closeErr = errors.Wrap(err, "could not release transport")
		}
	})

	return llm.closeErr
}

// Credential returns the resolved credential.
func (llm *Client) Credential() Credential {
	return llm.credential
}

// OwnsTransport reports whether the HTTP transport was created, and will be
// released, by the client.
func (llm *Client) OwnsTransport() bool {
	_, owned := llm.transport.(*ownedTransport)

	return owned
}

// internal.Adapter implementation.

func (llm *Client) Url(segments ...string) string {
	return strings.TrimRight(llm.baseUrl, "/") + llm.path(segments...)
}

// path is the absolute path of an endpoint, including the version segment.
func (llm *Client) path(segments ...string) string {
	parts := make([]string, 0, len(segments)+1)

	if llm.version != "" {
		parts = append(parts, strings.Trim(llm.version, "/"))
	}

	for _, segment := range segments {
		if segment = strings.Trim(segment, "/"); segment != "" {
			parts = append(parts, segment)
		}
	}

	return "/" + strings.Join(parts, "/")
}

func (llm *Client) HttpClient() *http.Client {
	return llm.transport.httpClient()
}

func (llm *Client) Serializer() Serializer {
	return llm.serializer
}

func (llm *Client) Authorize(req *http.Request) {
	for name, values := range llm.headers {
		req.Header[name] = slices.Clone(values)
	}

	req.Header.Set("Authorization", llm.credential.Authorization())
}

func (llm *Client) Logger() *slog.Logger {
	return llm.logger
}

func (llm *Client) Closed() bool {
	return llm.closed.Load()
}
