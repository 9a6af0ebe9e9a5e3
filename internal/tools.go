package internal

import (
	"encoding/json"
	"reflect"

	"github.com/checkmarble/marble-llm-client/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// Tool is a callable function exposed to the model.
//
// It lives in the internal package so the erased argument type and function
// pointer can only be set through NewTool, which keeps Call type-safe.
type Tool struct {
	Name        string
	Description string
	Parameters  jsonschema.Schema

	input    any
	function FunctionBody
}

// NewTool is only called by the public-facing llmclient.NewTool.
func NewTool[A any](name, description string, fn FunctionBody) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Parameters:  utils.GenerateSchema[A](),
		input:       *new(A),
		function:    fn,
	}
}

// FunctionBody wraps the tool function pointer. It can only be built through
// llmclient.Function, which constrains it to `func(A) (string, error)`.
type FunctionBody struct {
	Inner any
}

// Call decodes the JSON arguments sent by the model into the recorded argument
// type and invokes the function with them.
func (t Tool) Call(arguments []byte) (string, error) {
	argType := reflect.TypeOf(t.input)
	if argType == nil {
		return "", errors.Newf("tool '%s' has no argument type", t.Name)
	}

	params := reflect.New(argType)

	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, params.Interface()); err != nil {
			return "", errors.Wrapf(err, "could not decode arguments for tool '%s'", t.Name)
		}
	}

	fn := reflect.ValueOf(t.function.Inner)
	if fn.Kind() != reflect.Func {
		return "", errors.Newf("tool '%s' does not wrap a function", t.Name)
	}
	if fn.Type().NumIn() != 1 {
		return "", errors.Newf("tool '%s' should take one argument, not %d", t.Name, fn.Type().NumIn())
	}
	if fn.Type().In(0) != argType {
		return "", errors.Newf("tool '%s' should take an argument of type %s, not %s", t.Name, argType.Name(), fn.Type().In(0).Name())
	}
	if fn.Type().NumOut() != 2 || fn.Type().Out(0).Kind() != reflect.String || !fn.Type().Out(1).Implements(reflect.TypeFor[error]()) {
		return "", errors.Newf("tool '%s' should return (string, error)", t.Name)
	}

	rets := fn.Call([]reflect.Value{params.Elem()})

	if !rets[1].IsNil() {
		return "", rets[1].Interface().(error)
	}

	return rets[0].String(), nil
}
