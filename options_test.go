package llmclient

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSerializer struct {
	mock.Mock
}

func (m *mockSerializer) Marshal(v any) ([]byte, error) {
	args := m.Called(v)

	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockSerializer) Unmarshal(data []byte, v any) error {
	return m.Called(data, v).Error(0)
}

func TestClientOptions(t *testing.T) {
	serializer := &mockSerializer{}
	logger := slog.New(slog.DiscardHandler)

	llm, err := New(
		WithApiKey("key"),
		WithBaseUrl("https://llm.example.com"),
		WithVersion("v2"),
		WithSerializer(serializer),
		WithLogger(logger),
		WithHeaders(map[string]string{"x-header": "value"}))

	assert.Nil(t, err)
	assert.Equal(t, "https://llm.example.com/v2/models", llm.Url("models"))
	assert.Same(t, serializer, llm.Serializer())
	assert.Same(t, logger, llm.Logger())
	assert.Equal(t, "value", llm.headers.Get("x-header"))
	assert.Nil(t, llm.Close())
}

func TestDefaultOptions(t *testing.T) {
	llm, _ := New(WithApiKey("key"))
	defer llm.Close()

	assert.Equal(t, DefaultBaseUrl, llm.baseUrl)
	assert.Equal(t, DefaultVersion, llm.version)
	assert.Equal(t, JsonSerializer, llm.Serializer())
	assert.NotNil(t, llm.Logger())
	assert.Equal(t, DefaultConnectionLifetime, llm.transport.(*ownedTransport).pool.IdleConnTimeout)
}

func TestWithConnectionLifetime(t *testing.T) {
	llm, _ := New(WithApiKey("key"), WithConnectionLifetime(time.Minute))
	defer llm.Close()

	assert.Equal(t, time.Minute, llm.transport.(*ownedTransport).pool.IdleConnTimeout)
}

func TestCustomSerializerIsUsed(t *testing.T) {
	defer gock.Off()

	serializer := &mockSerializer{}
	serializer.On("Marshal", mock.Anything).Return([]byte(`{"custom":true}`), nil)
	serializer.On("Unmarshal", []byte(`{"id":"x"}`), mock.Anything).Return(nil)

	llm, _ := New(WithApiKey("key"), WithSerializer(serializer))
	defer llm.Close()

	gock.InterceptClient(llm.HttpClient())

	gock.New("https://api.openai.com").
		Post("/v1/chat/completions").
		Reply(http.StatusOK).
		BodyString(`{"id":"x"}`)

	_, err := llm.Completions.Create(t.Context(), ChatCompletionRequest{})

	assert.Nil(t, err)
	assert.False(t, gock.HasUnmatchedRequest())
	serializer.AssertExpectations(t)
}

func TestWithLoggerTracesRequests(t *testing.T) {
	defer gock.Off()

	var logs bytes.Buffer

	llm, _ := New(
		WithApiKey("supersecretapikey"),
		WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	defer llm.Close()

	gock.InterceptClient(llm.HttpClient())

	gock.New("https://api.openai.com").
		Get("/v1/models").
		Reply(http.StatusOK).
		BodyString(`{"object":"list","data":[]}`)

	_, err := llm.Models.List(t.Context())

	assert.Nil(t, err)
	assert.Contains(t, logs.String(), "LLM client initialized")
	assert.Contains(t, logs.String(), "LLM request completed")
	assert.Contains(t, logs.String(), "url=https://api.openai.com/v1/models")
	assert.NotContains(t, logs.String(), "supersecretapikey")
}
