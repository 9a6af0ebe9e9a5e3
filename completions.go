package llmclient

import (
	"context"
	"net/http"
	"time"

	"github.com/checkmarble/marble-llm-client/internal"
	"github.com/cockroachdb/errors"
)

// Completions groups the chat completion endpoints.
type Completions struct {
	adapter internal.Adapter
}

// ChatMessage is one message of a conversation, sent or received.
type ChatMessage struct {
	Role       Role       `json:"role,omitzero"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	Refusal    string     `json:"refusal,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallId string     `json:"tool_call_id,omitempty"`
}

func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// ToolMessage is the output of a tool, in response to the tool call `callId`.
func ToolMessage(callId, content string) ChatMessage {
	return ChatMessage{Role: RoleTool, ToolCallId: callId, Content: content}
}

// ChatCompletionRequest is the body of a chat completion.
//
// Optional parameters are pointers, so they are only sent when explicitly set
// and the service default applies otherwise.
type ChatCompletionRequest struct {
	Model            string          `json:"model,omitempty"`
	Messages         []ChatMessage   `json:"messages"`
	MaxTokens        *int            `json:"max_tokens,omitempty"`
	N                *int            `json:"n,omitempty"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	Seed             *int64          `json:"seed,omitempty"`
	Stop             []string        `json:"stop,omitempty"`
	User             string          `json:"user,omitempty"`
	Tools            []Tool          `json:"tools,omitempty"`
	ResponseFormat   *ResponseFormat `json:"response_format,omitempty"`
	Stream           bool            `json:"stream,omitempty"`
	StreamOptions    *StreamOptions  `json:"stream_options,omitempty"`

	// Extra holds top-level fields not modeled here, merged into the body as-is.
	// See ExtraFields.
	Extra map[string]any `json:"-"`
}

func (r ChatCompletionRequest) extraFields() map[string]any {
	return r.Extra
}

type StreamOptions struct {
	IncludeUsage bool `json:"include_usage,omitempty"`
}

// ChatCompletion is the response to a chat completion.
type ChatCompletion struct {
	Id                string       `json:"id"`
	Object            string       `json:"object,omitempty"`
	Created           int64        `json:"created,omitempty"`
	Model             string       `json:"model"`
	Choices           []ChatChoice `json:"choices"`
	Usage             *Usage       `json:"usage,omitempty"`
	SystemFingerprint string       `json:"system_fingerprint,omitempty"`
}

// ChatChoice is one of the candidate answers of a completion.
type ChatChoice struct {
	Index        int          `json:"index"`
	Message      ChatMessage  `json:"message"`
	FinishReason FinishReason `json:"finish_reason,omitzero"`
}

// Usage reports how many tokens a request consumed.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

func (c ChatCompletion) CreatedAt() time.Time {
	return time.Unix(c.Created, 0).UTC()
}

// Choice returns the choice at index `idx`.
func (c ChatCompletion) Choice(idx int) (*ChatChoice, error) {
	if idx < 0 || idx > len(c.Choices)-1 {
		return nil, errors.Newf("choice %d does not exist (%d choices)", idx, len(c.Choices))
	}

	return &c.Choices[idx], nil
}

// Text returns the content of the first choice, or an empty string if there
// is none.
func (c ChatCompletion) Text() string {
	if len(c.Choices) == 0 {
		return ""
	}

	return c.Choices[0].Message.Content
}

// Create sends a chat completion request.
//
// Example usage:
//
//	resp, err := llm.Completions.Create(ctx, llmclient.ChatCompletionRequest{
//		Model:    "gpt-4o",
//		Messages: []llmclient.ChatMessage{llmclient.UserMessage("How are you today?")},
//	})
func (c *Completions) Create(ctx context.Context, req ChatCompletionRequest) (*ChatCompletion, error) {
	req.Stream = false
	req.StreamOptions = nil

	return call[ChatCompletion](ctx, c.adapter, http.MethodPost, req, "chat", "completions")
}

// Stream sends a chat completion request and returns the chunks as they are
// received. The returned stream must be closed.
func (c *Completions) Stream(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionStream, error) {
	req.Stream = true

	resp, err := send(ctx, c.adapter, http.MethodPost, mimeEventStream, req, "chat", "completions")
	if err != nil {
		return nil, err
	}

	return newChatCompletionStream(resp, c.adapter.Url("chat", "completions"), c.adapter.Serializer()), nil
}
