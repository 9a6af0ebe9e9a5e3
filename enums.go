package llmclient

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Enumerations are represented as integers in memory and as their names on
// the wire. The zero value of each is "unset" and is omitted when encoding.
// Names unknown to this version of the library decode to the zero value
// instead of failing the whole response.

type (
	Role               int
	FinishReason       int
	ResponseFormatType int
	EncodingFormat     int
	ToolType           int
)

const (
	RoleUnset Role = iota
	RoleSystem
	RoleUser
	RoleAssistant
	RoleTool
	RoleDeveloper
)

const (
	FinishReasonUnknown FinishReason = iota
	FinishReasonStop
	FinishReasonLength
	FinishReasonToolCalls
	FinishReasonContentFilter
)

const (
	ResponseFormatUnset ResponseFormatType = iota
	ResponseFormatText
	ResponseFormatJsonObject
	ResponseFormatJsonSchema
)

const (
	EncodingFormatUnset EncodingFormat = iota
	EncodingFormatFloat
	EncodingFormatBase64
)

const (
	ToolTypeUnset ToolType = iota
	ToolTypeFunction
)

var (
	roleNames           = []string{"", "system", "user", "assistant", "tool", "developer"}
	finishReasonNames   = []string{"", "stop", "length", "tool_calls", "content_filter"}
	responseFormatNames = []string{"", "text", "json_object", "json_schema"}
	encodingFormatNames = []string{"", "float", "base64"}
	toolTypeNames       = []string{"", "function"}
)

func enumName[E ~int](names []string, e E) string {
	if int(e) < 0 || int(e) >= len(names) {
		return ""
	}

	return names[e]
}

func marshalEnum[E ~int](kind string, names []string, e E) ([]byte, error) {
	if e == 0 || int(e) >= len(names) || int(e) < 0 {
		return nil, errors.Newf("cannot encode %s %d", kind, int(e))
	}

	return []byte(names[e]), nil
}

func unmarshalEnum[E ~int](names []string, text []byte) E {
	if idx := slices.Index(names, string(text)); idx > 0 {
		return E(idx)
	}

	return 0
}

func (r Role) String() string               { return enumName(roleNames, r) }
func (r Role) MarshalText() ([]byte, error) { return marshalEnum("role", roleNames, r) }
func (r *Role) UnmarshalText(text []byte) error {
	*r = unmarshalEnum[Role](roleNames, text)
	return nil
}

func (f FinishReason) String() string { return enumName(finishReasonNames, f) }
func (f FinishReason) MarshalText() ([]byte, error) {
	return marshalEnum("finish reason", finishReasonNames, f)
}
func (f *FinishReason) UnmarshalText(text []byte) error {
	*f = unmarshalEnum[FinishReason](finishReasonNames, text)
	return nil
}

func (t ResponseFormatType) String() string { return enumName(responseFormatNames, t) }
func (t ResponseFormatType) MarshalText() ([]byte, error) {
	return marshalEnum("response format", responseFormatNames, t)
}
func (t *ResponseFormatType) UnmarshalText(text []byte) error {
	*t = unmarshalEnum[ResponseFormatType](responseFormatNames, text)
	return nil
}

func (e EncodingFormat) String() string { return enumName(encodingFormatNames, e) }
func (e EncodingFormat) MarshalText() ([]byte, error) {
	return marshalEnum("encoding format", encodingFormatNames, e)
}
func (e *EncodingFormat) UnmarshalText(text []byte) error {
	*e = unmarshalEnum[EncodingFormat](encodingFormatNames, text)
	return nil
}

func (t ToolType) String() string               { return enumName(toolTypeNames, t) }
func (t ToolType) MarshalText() ([]byte, error) { return marshalEnum("tool type", toolTypeNames, t) }
func (t *ToolType) UnmarshalText(text []byte) error {
	*t = unmarshalEnum[ToolType](toolTypeNames, text)
	return nil
}
