package llmclient

import (
	"context"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Request is a builder for chat completion requests.
//
// Every method returns a modified copy, so a partially built request can be
// reused as a template. Errors encountered while building are recorded and
// returned by Build or Do.
//
// Example usage:
//
//	resp, err := llmclient.NewRequest().
//		WithModel("gpt-4o").
//		WithInstruction("You are a helpful assistant.").
//		WithText(llmclient.RoleUser, "How are you today?").
//		Do(ctx, llm)
type Request struct {
	inner ChatCompletionRequest

	respondsTo *ChatChoice
	err        error
}

func NewRequest() Request {
	return Request{}
}

// WithModel sets the model used for this request.
func (r Request) WithModel(model string) Request {
	r.inner.Model = model

	return r
}

// WithInstruction adds a system prompt to the request. Parts are joined in a
// single message.
func (r Request) WithInstruction(parts ...string) Request {
	return r.WithText(RoleSystem, parts...)
}

// WithInstructionReader adds a system prompt read from io.Readers.
func (r Request) WithInstructionReader(parts ...io.Reader) Request {
	return r.WithTextReader(RoleSystem, parts...)
}

// WithText adds a text message to the request. Parts are joined in a single
// message.
func (r Request) WithText(role Role, parts ...string) Request {
	return r.withMessages(ChatMessage{
		Role:    role,
		Content: strings.Join(parts, "\n"),
	})
}

// WithTextReader adds a message to the Request read from io.Readers.
func (r Request) WithTextReader(role Role, parts ...io.Reader) Request {
	texts := make([]string, 0, len(parts))

	for _, part := range parts {
		buf, err := io.ReadAll(part)
		if err != nil {
			r.err = errors.CombineErrors(r.err, errors.Wrap(err, "could not read content part"))
			return r
		}

		texts = append(texts, string(buf))
	}

	return r.WithText(role, texts...)
}

// WithMessages adds messages as-is, for example those loaded from a History.
func (r Request) WithMessages(messages ...ChatMessage) Request {
	return r.withMessages(messages...)
}

// FromChoice continues the conversation from a choice of a previous response.
//
// The choice message is added to the request, and its tool calls become the
// ones answered by WithToolExecution.
func (r Request) FromChoice(c *ChatCompletion, idx int) Request {
	choice, err := c.Choice(idx)
	if err != nil {
		r.err = errors.CombineErrors(r.err, err)
		return r
	}

	r.respondsTo = choice

	message := choice.Message
	if message.Role == RoleUnset {
		message.Role = RoleAssistant
	}

	return r.withMessages(message)
}

// WithTools adds tool definitions to the request. A tool with the same name as
// one already added is ignored.
func (r Request) WithTools(tools ...Tool) Request {
	r.inner.Tools = lo.UniqBy(append(slices.Clip(r.inner.Tools), tools...), func(t Tool) string {
		return t.Function.Name
	})

	return r
}

// WithToolExecution executes the tools requested by the choice selected with
// FromChoice and adds their output to the request.
//
// It also adds the tool definitions to the request, so there is no need to
// also call WithTools.
func (r Request) WithToolExecution(tools ...Tool) Request {
	if r.respondsTo == nil {
		r.err = errors.CombineErrors(r.err, errors.New("cannot execute tools without selecting a response choice, call FromChoice() first"))
		return r
	}

	r = r.WithTools(tools...)

	messages, err := ExecuteToolCalls(*r.respondsTo, r.inner.Tools...)
	if err != nil {
		r.err = errors.CombineErrors(r.err, err)
		return r
	}

	return r.withMessages(messages...)
}

// WithResponseFormat constrains the shape of the output.
func (r Request) WithResponseFormat(format *ResponseFormat) Request {
	r.inner.ResponseFormat = format

	return r
}

// WithMaxTokens limits how many tokens the model can emit for its completion.
func (r Request) WithMaxTokens(tokens int) Request {
	r.inner.MaxTokens = &tokens

	return r
}

// WithMaxCandidates sets how many choices the model should generate.
//
// Most services default to 1 for this value.
func (r Request) WithMaxCandidates(candidates int) Request {
	r.inner.N = &candidates

	return r
}

// WithTemperature sets a custom temperature. Default value depends on the model.
func (r Request) WithTemperature(temp float64) Request {
	r.inner.Temperature = &temp

	return r
}

// WithTopP sets the `top_p` parameter.
func (r Request) WithTopP(topp float64) Request {
	r.inner.TopP = &topp

	return r
}

// WithExtraFields adds top-level fields not modeled by ChatCompletionRequest,
// from a map or from a struct (see ExtraFields).
func (r Request) WithExtraFields(fields any) Request {
	extras, ok := fields.(map[string]any)
	if !ok {
		extras = ExtraFields(fields)
	}

	if extras == nil {
		r.err = errors.CombineErrors(r.err, errors.Newf("extra fields must be a map or a struct, not %T", fields))
		return r
	}

	merged := maps.Clone(r.inner.Extra)
	if merged == nil {
		merged = make(map[string]any, len(extras))
	}

	maps.Copy(merged, extras)
	r.inner.Extra = merged

	return r
}

// Build returns the built request, or the first errors encountered while
// building it.
func (r Request) Build() (ChatCompletionRequest, error) {
	if r.err != nil {
		return ChatCompletionRequest{}, r.err
	}

	return r.inner, nil
}

// Do sends the built request.
func (r Request) Do(ctx context.Context, llm *Client) (*ChatCompletion, error) {
	req, err := r.Build()
	if err != nil {
		return nil, err
	}

	return llm.Completions.Create(ctx, req)
}

func (r Request) withMessages(messages ...ChatMessage) Request {
	r.inner.Messages = append(slices.Clip(r.inner.Messages), messages...)

	return r
}
