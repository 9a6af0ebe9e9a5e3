package llmclient

import (
	"github.com/checkmarble/marble-llm-client/internal"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

// Tool is a function the model is allowed to call, as sent in a chat
// completion request.
type Tool struct {
	Type     ToolType           `json:"type,omitzero"`
	Function FunctionDefinition `json:"function"`

	impl *internal.Tool
}

type FunctionDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
	Strict      *bool              `json:"strict,omitempty"`
}

// ToolCall is a request from the model to execute a tool.
type ToolCall struct {
	Id       string       `json:"id,omitempty"`
	Type     ToolType     `json:"type,omitzero"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name string `json:"name,omitempty"`
	// Arguments is the JSON-encoded arguments object.
	Arguments string `json:"arguments,omitempty"`
}

// Function is a wrapper for the code executed in a tool.
//
// It is generic in I, which is a type containing the tool arguments, from which
// the parameters schema is generated.
func Function[I any](f func(I) (string, error)) internal.FunctionBody {
	return internal.FunctionBody{Inner: f}
}

// NewTool creates a tool the model can call.
//
// It is generic in the type of the tool arguments, and takes the tool name
// and description. The function body should be wrapped in `Function`.
//
// Example usage:
//
//	weather := llmclient.NewTool[WeatherParams]("get_weather", "Get weather at location", llmclient.Function(func(args WeatherParams) (string, error) {
//		return "Good weather!", nil
//	}))
func NewTool[A any](name, description string, fn internal.FunctionBody) Tool {
	impl := internal.NewTool[A](name, description, fn)

	return Tool{
		Type: ToolTypeFunction,
		Function: FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  &impl.Parameters,
		},
		impl: &impl,
	}
}

// Strict asks the model to follow the parameters schema exactly.
func (t Tool) Strict() Tool {
	t.Function.Strict = lo.ToPtr(true)

	return t
}

// Call executes the tool with the arguments of a tool call.
func (t Tool) Call(call ToolCall) (string, error) {
	if t.impl == nil {
		return "", errors.Newf("tool '%s' has no implementation", t.Function.Name)
	}

	return t.impl.Call([]byte(call.Function.Arguments))
}

// ExecuteToolCalls executes the tools requested in a choice and returns the
// messages carrying their output, to be appended to the next request after
// the choice's own message.
func ExecuteToolCalls(choice ChatChoice, tools ...Tool) ([]ChatMessage, error) {
	registry := lo.KeyBy(tools, func(t Tool) string {
		return t.Function.Name
	})

	messages := make([]ChatMessage, 0, len(choice.Message.ToolCalls))

	for _, toolCall := range choice.Message.ToolCalls {
		tool, ok := registry[toolCall.Function.Name]
		if !ok {
			return nil, errors.Newf("no tool was registered for tool call '%s'", toolCall.Function.Name)
		}

		output, err := tool.Call(toolCall)
		if err != nil {
			return nil, errors.Wrapf(err, "tool '%s' failed", toolCall.Function.Name)
		}

		messages = append(messages, ToolMessage(toolCall.Id, output))
	}

	return messages, nil
}
