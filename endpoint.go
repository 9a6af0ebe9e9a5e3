package llmclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/checkmarble/marble-llm-client/internal"
	"github.com/cockroachdb/errors"
)

const (
	mimeJson        = "application/json"
	mimeEventStream = "text/event-stream"
)

// call performs one request/response round trip and decodes a success
// response into T.
func call[T any](ctx context.Context, adapter internal.Adapter, method string, body any, segments ...string) (*T, error) {
	resp, err := send(ctx, adapter, method, mimeJson, body, segments...)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Url: adapter.Url(segments...), Err: err}
	}

	var out T

	if err := adapter.Serializer().Unmarshal(payload, &out); err != nil {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Body: payload, Err: err}
	}

	return &out, nil
}

// send issues the request and returns the response if it has a success status.
// The caller is responsible for closing its body.
func send(ctx context.Context, adapter internal.Adapter, method, accept string, body any, segments ...string) (*http.Response, error) {
	if adapter.Closed() {
		return nil, ErrClientClosed
	}

	url := adapter.Url(segments...)

	var reader io.Reader

	if body != nil {
		payload, err := adapter.Serializer().Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "could not encode request to %s", url)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}

	req.Header.Set("Accept", accept)

	if body != nil {
		req.Header.Set("Content-Type", mimeJson)
	}

	adapter.Authorize(req)

	logger := adapter.Logger()
	start := time.Now()

	resp, err := adapter.HttpClient().Do(req)
	if err != nil {
		logger.DebugContext(ctx, "LLM request failed", "method", method, "url", url, "error", err.Error())

		return nil, &TransportError{Method: method, Url: url, Err: err}
	}

	logger.DebugContext(ctx, "LLM request completed",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &TransportError{Method: method, Url: url, Err: err}
		}

		return nil, newApiError(resp.StatusCode, payload)
	}

	return resp, nil
}
