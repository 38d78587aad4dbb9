package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/internal/util"
)

// FunctionTool wraps a Go function as a tool with automatic schema
// generation and argument validation.
type FunctionTool[T any] struct {
	name        string
	description string
	fn          func(tc *core.ToolContext, input T) (any, error)
	schema      map[string]any
	compiled    *gojsonschema.Schema
}

// NewFunctionTool creates a tool from a typed function. The parameter schema
// is derived from T's exported fields via their json and description tags,
// and incoming arguments are validated against it before fn runs.
func NewFunctionTool[T any](name, description string, fn func(tc *core.ToolContext, input T) (any, error)) (*FunctionTool[T], error) {
	var zero T

	schema := util.CreateSchema(zero)

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema for tool %q: %w", name, err)
	}

	return &FunctionTool[T]{
		name:        name,
		description: description,
		fn:          fn,
		schema:      schema,
		compiled:    compiled,
	}, nil
}

// Name implements Tool.
func (t *FunctionTool[T]) Name() string { return t.name }

// Description implements Tool.
func (t *FunctionTool[T]) Description() string { return t.description }

// Parameters implements Tool.
func (t *FunctionTool[T]) Parameters() map[string]any { return t.schema }

// Call validates args against the derived schema, decodes them into T and
// invokes the wrapped function.
func (t *FunctionTool[T]) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}

	result, err := t.compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return nil, NewToolError(t.name, fmt.Sprintf("validate arguments: %v", err), CodeValidation)
	}

	if !result.Valid() {
		return nil, NewToolError(t.name, formatSchemaErrors(result), CodeValidation)
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, NewToolError(t.name, fmt.Sprintf("encode arguments: %v", err), CodeValidation)
	}

	var input T
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, NewToolError(t.name, fmt.Sprintf("decode arguments: %v", err), CodeValidation)
	}

	out, err := t.fn(tc, input)
	if err != nil {
		var terr *ToolError
		if errors.As(err, &terr) {
			return nil, terr
		}

		return nil, NewToolError(t.name, err.Error(), CodeExecution)
	}

	return out, nil
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	parts := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		parts = append(parts, desc.String())
	}

	return "invalid arguments: " + strings.Join(parts, "; ")
}
