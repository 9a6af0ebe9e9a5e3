package llmclient

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// Environment gives access to process-level configuration.
//
// It is what the client consults to find a default API key. Implementations
// other than OsEnvironment let callers and tests provide configuration without
// touching the real process environment.
type Environment interface {
	Lookup(key string) (string, bool)
}

type osEnvironment struct{}

// OsEnvironment reads from the environment of the current process.
func OsEnvironment() Environment {
	return osEnvironment{}
}

func (osEnvironment) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is an in-memory Environment.
type MapEnvironment map[string]string

func (env MapEnvironment) Lookup(key string) (string, bool) {
	value, ok := env[key]

	return value, ok
}

// DotenvEnvironment loads the given dotenv files (`.env` if none are
// specified) into an Environment, without modifying the process environment.
// Later files take precedence over earlier ones.
func DotenvEnvironment(files ...string) (Environment, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	env, err := godotenv.Read(files...)
	if err != nil {
		return nil, errors.Wrap(err, "could not read dotenv files")
	}

	return MapEnvironment(env), nil
}

type chainEnvironment []Environment

// ChainEnvironment queries each environment in order and returns the first
// non-empty value.
func ChainEnvironment(envs ...Environment) Environment {
	return chainEnvironment(envs)
}

func (chain chainEnvironment) Lookup(key string) (string, bool) {
	for _, env := range chain {
		if env == nil {
			continue
		}

		if value, ok := env.Lookup(key); ok && value != "" {
			return value, true
		}
	}

	return "", false
}
