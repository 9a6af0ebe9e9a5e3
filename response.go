package llmclient

import (
	"encoding/json"
	"strings"

	"github.com/checkmarble/marble-llm-client/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

// ResponseFormat constrains the shape of the model output.
type ResponseFormat struct {
	Type       ResponseFormatType `json:"type,omitzero"`
	JsonSchema *JsonSchemaFormat  `json:"json_schema,omitempty"`
}

type JsonSchemaFormat struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Schema      *jsonschema.Schema `json:"schema"`
	Strict      *bool              `json:"strict,omitempty"`
}

// JsonObjectResponseFormat asks for any valid JSON object.
func JsonObjectResponseFormat() *ResponseFormat {
	return &ResponseFormat{Type: ResponseFormatJsonObject}
}

// JsonSchemaResponseFormat asks for a JSON object following the schema
// generated from T. See [this](https://github.com/invopop/jsonschema) for how
// to annotate the struct.
//
// Example usage:
//
//	req := llmclient.ChatCompletionRequest{
//		Messages:       []llmclient.ChatMessage{llmclient.UserMessage("How are you today?")},
//		ResponseFormat: llmclient.JsonSchemaResponseFormat[Output]("output", ""),
//	}
func JsonSchemaResponseFormat[T any](name, description string) *ResponseFormat {
	return &ResponseFormat{
		Type: ResponseFormatJsonSchema,
		JsonSchema: &JsonSchemaFormat{
			Name:        name,
			Description: description,
			Schema:      lo.ToPtr(utils.GenerateSchema[T]()),
			Strict:      lo.ToPtr(true),
		},
	}
}

// DecodeChoice decodes the content of a choice into T, for completions
// requested with a JSON response format.
func DecodeChoice[T any](c *ChatCompletion, idx int) (T, error) {
	choice, err := c.Choice(idx)
	if err != nil {
		return *new(T), err
	}

	var output T

	if err := json.Unmarshal([]byte(choice.Message.Content), &output); err != nil {
		return *new(T), errors.Wrap(err, "failed to decode response to schema")
	}

	return output, nil
}

// ValidateChoice checks the content of a choice against the schema generated
// from T, as sent by JsonSchemaResponseFormat. It rejects outputs DecodeChoice
// accepts, such as missing properties or values outside an enum.
func ValidateChoice[T any](c *ChatCompletion, idx int) error {
	choice, err := c.Choice(idx)
	if err != nil {
		return err
	}

	schema, err := json.Marshal(lo.ToPtr(utils.GenerateSchema[T]()))
	if err != nil {
		return errors.Wrap(err, "could not encode schema")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewStringLoader(choice.Message.Content))
	if err != nil {
		return errors.Wrap(err, "could not validate response")
	}

	if !result.Valid() {
		violations := lo.Map(result.Errors(), func(e gojsonschema.ResultError, _ int) string {
			return e.String()
		})

		return errors.Newf("response does not follow schema: %s", strings.Join(violations, "; "))
	}

	return nil
}
