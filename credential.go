package llmclient

import (
	"fmt"
	"strings"
)

const (
	// DefaultApiKeyVariable is the environment variable holding the API key
	// when none is given explicitly.
	DefaultApiKeyVariable = "LLM_API_KEY"

	credentialSourceExplicit = "explicit"
)

// Credential is the resolved secret used to authenticate every request.
//
// It is immutable. Its String method never prints the secret, so a
// Credential can safely end up in logs.
type Credential struct {
	secret string
	source string
}

// ResolveCredential determines the API key to use.
//
// A non-empty explicit key is used verbatim. Otherwise, the key is read from
// `variable` in `env`. If neither yields a key, a *ConfigurationError is
// returned.
func ResolveCredential(explicit, variable string, env Environment) (Credential, error) {
	if explicit != "" {
		return Credential{secret: explicit, source: credentialSourceExplicit}, nil
	}

	if env != nil {
		if value, ok := env.Lookup(variable); ok && value != "" {
			return Credential{secret: value, source: "env:" + variable}, nil
		}
	}

	return Credential{}, &ConfigurationError{Variable: variable}
}

// Secret returns the raw API key.
func (c Credential) Secret() string {
	return c.secret
}

// Source describes where the credential was resolved from, either
// `explicit` or `env:<VARIABLE>`.
func (c Credential) Source() string {
	return c.source
}

// Authorization returns the value of the `Authorization` header.
func (c Credential) Authorization() string {
	return "Bearer " + c.secret
}

func (c Credential) String() string {
	redacted := strings.Repeat("*", min(len(c.secret), 8))

	if len(c.secret) > 12 {
		redacted = c.secret[:3] + redacted + c.secret[len(c.secret)-4:]
	}

	return fmt.Sprintf("Credential(%s, from %s)", redacted, c.source)
}
