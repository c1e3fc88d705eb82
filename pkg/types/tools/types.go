// Package tools defines the protocol shared by tools exposed to an agent:
// the Tool interface, tool results, and the plain Definition record used to
// hand a tool to a host framework.
package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
)

// Tool is a named, described, schema-typed callable
type Tool interface {
	GenerateSchema() *jsonschema.Schema
	Name() string
	Description() string
	ValidateInput(parameters string) error
	Execute(ctx context.Context, parameters string) ToolResult
	TracingKVs(parameters string) ([]attribute.KeyValue, error)
}

// ToolResult is the outcome of a tool invocation
type ToolResult interface {
	GetResult() string
	GetError() string
	IsError() bool
	AssistantFacing() string
	StructuredData() StructuredToolResult
}

// BaseToolResult is a minimal ToolResult for failures that happen before a
// tool runs, such as lookup or validation errors.
type BaseToolResult struct {
	ToolName string `json:"toolName,omitempty"`
	Result   string `json:"result"`
	Error    string `json:"error"`
}

func (t BaseToolResult) GetResult() string { return t.Result }
func (t BaseToolResult) GetError() string  { return t.Error }
func (t BaseToolResult) IsError() bool     { return t.Error != "" }

func (t BaseToolResult) AssistantFacing() string {
	return StringifyToolResult(t.Result, t.Error)
}

func (t BaseToolResult) StructuredData() StructuredToolResult {
	return StructuredToolResult{
		ToolName: t.ToolName,
		Success:  !t.IsError(),
		Error:    t.Error,
	}
}

// StringifyToolResult wraps a result and an error in the tags the model
// sees. The result section is always present.
func StringifyToolResult(result, err string) string {
	out := ""
	if err != "" {
		out = fmt.Sprintf(`<error>
%s
</error>
`, err)
	}
	if result == "" {
		result = "(No output)"
	}
	out += fmt.Sprintf(`<result>
%s
</result>
`, result)
	return out
}

// Handler invokes a tool with its JSON encoded parameters
type Handler func(ctx context.Context, parameters string) ToolResult

// Definition is the registration record handed to a host framework
type Definition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Handler     Handler
}
