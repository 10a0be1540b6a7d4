package testutil

import (
	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/tool"
)

// StaticTool builds a schemaless tool that always returns the given result,
// handy for registry and executor tests.
func StaticTool(name string, result any, categories ...string) tool.Tool {
	return tool.NewFunctionTool(name, "test tool "+name,
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			return result, nil
		},
		func(o *tool.FunctionToolOptions) { o.Categories = categories },
	)
}

// FailingTool builds a schemaless tool that always returns err.
func FailingTool(name string, err error, categories ...string) tool.Tool {
	return tool.NewFunctionTool(name, "test tool "+name,
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			return nil, err
		},
		func(o *tool.FunctionToolOptions) { o.Categories = categories },
	)
}
