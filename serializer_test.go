package llmclient

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestSerializerOmitsUnsetFields(t *testing.T) {
	out, err := JsonSerializer.Marshal(ChatCompletionRequest{
		Model:    "themodel",
		Messages: []ChatMessage{UserMessage("hello")},
	})

	assert.Nil(t, err)
	assert.Equal(t, `{"model":"themodel","messages":[{"role":"user","content":"hello"}]}`, string(out))

	for _, field := range []string{"max_tokens", "temperature", "top_p", "n", "seed", "tools", "response_format", "stream"} {
		assert.False(t, gjson.GetBytes(out, field).Exists(), field)
	}
}

func TestSerializerRoundTrip(t *testing.T) {
	req := ChatCompletionRequest{
		Model: "themodel",
		Messages: []ChatMessage{
			SystemMessage("system"),
			UserMessage("hello"),
			{Role: RoleAssistant, ToolCalls: []ToolCall{{Id: "call_1", Type: ToolTypeFunction, Function: FunctionCall{Name: "fn", Arguments: `{"a":1}`}}}},
			ToolMessage("call_1", "output"),
		},
		MaxTokens:      lo.ToPtr(64),
		Temperature:    lo.ToPtr(0.2),
		Seed:           lo.ToPtr(int64(7)),
		Stop:           []string{"\n\n"},
		ResponseFormat: JsonObjectResponseFormat(),
	}

	out, err := JsonSerializer.Marshal(req)

	assert.Nil(t, err)

	var decoded ChatCompletionRequest

	assert.Nil(t, JsonSerializer.Unmarshal(out, &decoded))
	assert.Equal(t, req, decoded)
}

func TestSerializerWritesSetOptionalFields(t *testing.T) {
	out, err := JsonSerializer.Marshal(ChatCompletionRequest{
		Model:       "themodel",
		Messages:    []ChatMessage{},
		MaxTokens:   lo.ToPtr(0),
		Temperature: lo.ToPtr(0.0),
	})

	assert.Nil(t, err)
	assert.True(t, gjson.GetBytes(out, "max_tokens").Exists())
	assert.EqualValues(t, 0, gjson.GetBytes(out, "max_tokens").Int())
	assert.True(t, gjson.GetBytes(out, "temperature").Exists())
	assert.EqualValues(t, 0, gjson.GetBytes(out, "messages.#").Int())
}

func TestSerializerWritesEnumsAsNames(t *testing.T) {
	out, err := JsonSerializer.Marshal(ChatCompletionRequest{
		Messages: []ChatMessage{
			SystemMessage("system"),
			AssistantMessage("assistant"),
			ToolMessage("call_1", "output"),
		},
		ResponseFormat: JsonObjectResponseFormat(),
	})

	assert.Nil(t, err)
	assert.Equal(t, "system", gjson.GetBytes(out, "messages.0.role").String())
	assert.Equal(t, "assistant", gjson.GetBytes(out, "messages.1.role").String())
	assert.Equal(t, "tool", gjson.GetBytes(out, "messages.2.role").String())
	assert.Equal(t, "call_1", gjson.GetBytes(out, "messages.2.tool_call_id").String())
	assert.Equal(t, "json_object", gjson.GetBytes(out, "response_format.type").String())
}

func TestSerializerDoesNotEscapeHtml(t *testing.T) {
	out, err := JsonSerializer.Marshal(UserMessage("<b>a & b</b>"))

	assert.Nil(t, err)
	assert.Equal(t, `{"role":"user","content":"<b>a & b</b>"}`, string(out))
}

func TestSerializerRejectsInvalidEnum(t *testing.T) {
	_, err := JsonSerializer.Marshal(ChatMessage{Role: Role(42), Content: "text"})

	assert.ErrorContains(t, err, "cannot encode role 42")
}

func TestSerializerRejectsCycles(t *testing.T) {
	type node struct {
		Name string `json:"name"`
		Next *node  `json:"next,omitempty"`
	}

	n := node{Name: "loop"}
	n.Next = &n

	_, err := JsonSerializer.Marshal(n)

	assert.ErrorContains(t, err, "could not encode payload")
}

func TestSerializerSharedValuesAreNotCycles(t *testing.T) {
	shared := &Usage{PromptTokens: 1, TotalTokens: 1}

	out, err := JsonSerializer.Marshal([]*Usage{shared, shared})

	assert.Nil(t, err)
	assert.Equal(t, `[{"prompt_tokens":1,"total_tokens":1},{"prompt_tokens":1,"total_tokens":1}]`, string(out))
}

func TestSerializerMergesExtraFields(t *testing.T) {
	out, err := JsonSerializer.Marshal(ChatCompletionRequest{
		Model:    "themodel",
		Messages: []ChatMessage{UserMessage("hello")},
		Extra: map[string]any{
			"search_mode":      "academic",
			"web.search":       true,
			"reasoning_effort": map[string]any{"level": "high"},
		},
	})

	assert.Nil(t, err)
	assert.Equal(t, "themodel", gjson.GetBytes(out, "model").String())
	assert.Equal(t, "academic", gjson.GetBytes(out, "search_mode").String())
	assert.True(t, gjson.GetBytes(out, `web\.search`).Bool())
	assert.Equal(t, "high", gjson.GetBytes(out, "reasoning_effort.level").String())
	assert.False(t, gjson.GetBytes(out, "Extra").Exists())
}

func TestSerializerDecodesEnums(t *testing.T) {
	var choice ChatChoice

	err := JsonSerializer.Unmarshal([]byte(`{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"length"}`), &choice)

	assert.Nil(t, err)
	assert.Equal(t, RoleAssistant, choice.Message.Role)
	assert.Equal(t, FinishReasonLength, choice.FinishReason)

	err = JsonSerializer.Unmarshal([]byte(`{"index":0,"message":{"role":"narrator"},"finish_reason":null}`), &choice)

	assert.Nil(t, err)
	assert.Equal(t, RoleUnset, choice.Message.Role)
}

func TestSerializerDecodeError(t *testing.T) {
	var completion ChatCompletion

	err := JsonSerializer.Unmarshal([]byte(`{"id":`), &completion)

	assert.ErrorContains(t, err, "could not decode payload")
}

func TestExtraFieldsFromStruct(t *testing.T) {
	type searchOptions struct {
		Mode    string   `structs:"search_mode"`
		Domains []string `structs:"search_domain_filter,omitempty"`
		Recency string   `structs:"search_recency_filter,omitempty"`
	}

	extras := ExtraFields(searchOptions{Mode: "academic", Domains: []string{"example.com"}})

	assert.Equal(t, map[string]any{
		"search_mode":          "academic",
		"search_domain_filter": []string{"example.com"},
	}, extras)

	assert.Nil(t, ExtraFields("not a struct"))
	assert.Nil(t, ExtraFields(nil))
}
