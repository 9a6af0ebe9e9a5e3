package llmclient

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

var (
	// ErrNoCredential is matched by the error returned from New when no API key
	// was provided and none could be found in the environment.
	ErrNoCredential = errors.New("no usable API key")
	// ErrClientClosed is returned by any call issued after Close.
	ErrClientClosed = errors.New("client was closed")
)

// ConfigurationError is returned when the client cannot be constructed from
// its configuration. It is always surfaced by New, before any network call.
type ConfigurationError struct {
	// Variable is the environment variable that was consulted.
	Variable string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: none was provided and environment variable %s is not set", ErrNoCredential, e.Variable)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNoCredential
}

// TransportError is a network-level failure (DNS, refused connection,
// timeout, cancellation) while performing a call. It does not affect the
// client, which can keep being used.
type TransportError struct {
	Method string
	Url    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Url, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApiError is returned when the remote service answered with a non-success
// status code.
type ApiError struct {
	StatusCode int
	// Message is the human-readable error reported by the service, or the raw
	// body if it could not be found.
	Message string
	Type    string
	Code    string
	// Body is the raw response payload.
	Body []byte
}

func (e *ApiError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}

	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// DecodeError is returned when the service answered with a success status,
// but the body could not be decoded into the expected response.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AsApiError extracts an *ApiError from an error chain.
func AsApiError(err error) (*ApiError, bool) {
	var apiErr *ApiError

	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// newApiError builds an *ApiError from a failed response body. Services do
// not agree on a payload shape, so the message is looked up in the
// common locations before falling back to the raw body.
func newApiError(status int, body []byte) *ApiError {
	apiErr := ApiError{
		StatusCode: status,
		Body:       body,
	}

	if gjson.ValidBytes(body) {
		errorField := gjson.GetBytes(body, "error")

		apiErr.Message = lo.CoalesceOrEmpty(
			gjson.GetBytes(body, "error.message").String(),
			gjson.GetBytes(body, "message").String(),
			lo.Ternary(errorField.Type == gjson.String, errorField.String(), ""),
			gjson.GetBytes(body, "detail").String(),
		)
		apiErr.Type = lo.CoalesceOrEmpty(
			gjson.GetBytes(body, "error.type").String(),
			gjson.GetBytes(body, "type").String(),
		)
		apiErr.Code = lo.CoalesceOrEmpty(
			gjson.GetBytes(body, "error.code").String(),
			gjson.GetBytes(body, "code").String(),
		)
	}

	if apiErr.Message == "" {
		apiErr.Message = lo.CoalesceOrEmpty(string(body), fmt.Sprintf("status %d", status))
	}

	return &apiErr
}
