package llmclient

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestWriteBatchInput(t *testing.T) {
	llm, _ := New(WithApiKey("key"))
	defer llm.Close()

	var buf bytes.Buffer

	err := llm.WriteBatchInput(&buf,
		ChatCompletionBatchItem("first", ChatCompletionRequest{
			Model:    "themodel",
			Messages: []ChatMessage{UserMessage("hello")},
			Stream:   true,
		}),
		EmbeddingBatchItem("second", EmbeddingRequest{
			Model: "text-embedding-3-small",
			Input: []string{"text"},
			Extra: map[string]any{"custom": "value"},
		}))

	assert.Nil(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))

	assert.Len(t, lines, 2)

	assert.Equal(t, "first", gjson.GetBytes(lines[0], "custom_id").String())
	assert.Equal(t, "POST", gjson.GetBytes(lines[0], "method").String())
	assert.Equal(t, "/v1/chat/completions", gjson.GetBytes(lines[0], "url").String())
	assert.Equal(t, "themodel", gjson.GetBytes(lines[0], "body.model").String())
	assert.Equal(t, "user", gjson.GetBytes(lines[0], "body.messages.0.role").String())
	assert.False(t, gjson.GetBytes(lines[0], "body.stream").Exists())

	assert.Equal(t, "second", gjson.GetBytes(lines[1], "custom_id").String())
	assert.Equal(t, "/v1/embeddings", gjson.GetBytes(lines[1], "url").String())
	assert.Equal(t, "value", gjson.GetBytes(lines[1], "body.custom").String())
}

func TestWriteBatchInputRequiresUniqueIds(t *testing.T) {
	llm, _ := New(WithApiKey("key"))
	defer llm.Close()

	var buf bytes.Buffer

	err := llm.WriteBatchInput(&buf, ChatCompletionBatchItem("", ChatCompletionRequest{}))

	assert.ErrorContains(t, err, "all requests in a batch must have an ID")

	err = llm.WriteBatchInput(&buf,
		ChatCompletionBatchItem("same", ChatCompletionRequest{}),
		ChatCompletionBatchItem("same", ChatCompletionRequest{}))

	assert.ErrorContains(t, err, "duplicate batch request ID 'same'")
}
