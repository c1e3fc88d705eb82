// Package tools implements the skill tool and the plumbing that runs a tool
// with input validation and tracing.
package tools

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/telemetry"
	tooltypes "github.com/jingkaihe/skillkit/pkg/types/tools"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = telemetry.Tracer("skillkit.tools")

// GenerateSchema reflects the JSON schema of a tool input type
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// RunTool validates the parameters and executes the tool inside a span.
// Failures are returned as error results, never as panics or Go errors.
func RunTool(ctx context.Context, tool tooltypes.Tool, parameters string) tooltypes.ToolResult {
	kvs, err := tool.TracingKVs(parameters)
	if err != nil {
		logger.G(ctx).WithError(err).Debug("failed to get tracing kvs")
	}

	ctx, span := tracer.Start(
		ctx,
		fmt.Sprintf("tools.run_tool.%s", tool.Name()),
		trace.WithAttributes(kvs...),
	)
	defer span.End()

	var result tooltypes.ToolResult
	if err := tool.ValidateInput(parameters); err != nil {
		result = tooltypes.BaseToolResult{ToolName: tool.Name(), Error: err.Error()}
	} else {
		result = tool.Execute(ctx, parameters)
	}

	if result.IsError() {
		span.SetStatus(codes.Error, result.GetError())
		span.RecordError(errors.New(result.GetError()))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return result
}

// NewDefinition captures tool as a plain registration record. The
// description and schema are computed once; the handler goes through RunTool.
func NewDefinition(tool tooltypes.Tool) tooltypes.Definition {
	return tooltypes.Definition{
		Name:        tool.Name(),
		Description: tool.Description(),
		InputSchema: tool.GenerateSchema(),
		Handler: func(ctx context.Context, parameters string) tooltypes.ToolResult {
			return RunTool(ctx, tool, parameters)
		},
	}
}
