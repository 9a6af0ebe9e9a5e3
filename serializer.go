package llmclient

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	"github.com/checkmarble/marble-llm-client/internal"
	"github.com/cockroachdb/errors"
	"github.com/fatih/structs"
	"github.com/tidwall/sjson"
)

// Serializer is the policy used to encode requests and decode responses.
type Serializer = internal.Serializer

// JsonSerializer is the serialization policy shared by all endpoints.
//
//   - fields left unset are omitted instead of being sent as `null`,
//   - enumerations are written as their names,
//   - values implementing `extraFielder` get their extra fields merged in the
//     top-level object.
var JsonSerializer Serializer = jsonSerializer{}

type jsonSerializer struct{}

// extraFielder is implemented by requests that can carry fields not modeled
// by their struct.
type extraFielder interface {
	extraFields() map[string]any
}

func (jsonSerializer) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "could not encode payload")
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")

	if ef, ok := v.(extraFielder); ok {
		extras := ef.extraFields()

		// Sorted so the output is stable.
		for _, key := range slices.Sorted(maps.Keys(extras)) {
			var err error

			if out, err = sjson.SetBytes(out, sjsonKey(key), extras[key]); err != nil {
				return nil, errors.Wrapf(err, "could not set extra field '%s'", key)
			}
		}
	}

	return out, nil
}

func (jsonSerializer) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "could not decode payload")
	}

	return nil
}

// ExtraFields converts a struct into extra request fields, for options only
// supported by some services. Field names are taken from the `structs` tag.
//
//	type SearchOptions struct {
//		Mode string `structs:"search_mode,omitempty"`
//	}
//
//	req.Extra = llmclient.ExtraFields(SearchOptions{Mode: "academic"})
func ExtraFields(v any) map[string]any {
	if v == nil || !structs.IsStruct(v) {
		return nil
	}

	return structs.Map(v)
}

// sjsonKey escapes a top-level key so sjson does not interpret it as a path.
func sjsonKey(key string) string {
	var buf bytes.Buffer

	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			buf.WriteRune('\\')
		}

		buf.WriteRune(r)
	}

	return buf.String()
}
