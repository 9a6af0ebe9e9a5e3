package utils

import "github.com/invopop/jsonschema"

// GenerateSchema reflects the JSON schema of S, inlining every definition
// since most providers reject `$ref`.
func GenerateSchema[S any]() jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}

	schema := reflector.Reflect(new(S))
	schema.Version = ""

	return *schema
}
