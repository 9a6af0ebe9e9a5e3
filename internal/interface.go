package internal

import (
	"log/slog"
	"net/http"
)

// Serializer encodes request bodies and decodes response bodies. One instance
// is shared by every endpoint of a client, so implementations must be safe for
// concurrent use.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Adapter is the view of the client handed to endpoint wrappers.
//
// Wrappers only hold this interface, never the client itself, so they cannot
// manage its lifecycle. Everything returned here is read-only once the client
// is constructed.
type Adapter interface {
	// Url builds the full URL of an endpoint from its path segments, prefixed
	// with the configured base URL and API version.
	Url(segments ...string) string
	// HttpClient returns the *http.Client shared by all endpoints.
	HttpClient() *http.Client
	// Serializer returns the serialization policy shared by all endpoints.
	Serializer() Serializer
	// Authorize sets the authentication and default headers on a request.
	Authorize(req *http.Request)
	// Logger returns the logger requests should be traced to.
	Logger() *slog.Logger
	// Closed reports whether the client was released.
	Closed() bool
}
