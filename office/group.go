package office

import (
	"context"

	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/registry"
	"github.com/hupe1980/taskmesh/tool"
)

// Group identifiers registered by this package.
const (
	GroupWord       = "word"
	GroupExcel      = "excel"
	GroupPowerPoint = "powerpoint"
)

// CategoryOffice labels every tool built by this package.
const CategoryOffice = "office"

// WordGroup builds the togglable Word capability group. OnEnable verifies the
// automation server is reachable; OnDisable asks it to close the document
// without saving, best effort.
func WordGroup(client *Client) *registry.Group {
	return &registry.Group{
		ID:          GroupWord,
		Name:        "Microsoft Word",
		Description: "Create, write and format Word documents via the local automation server",
		Tools: []tool.Tool{
			postTool(client, "word_create", "Create a new Word document", "/word/create", nil),
			postTool(client, "word_write", "Append text to the active Word document", "/word/write",
				objectSchema(map[string]any{
					"text": map[string]any{"type": "string", "description": "Text to append"},
				}, "text"),
			),
			getTool(client, "word_read", "Read the full text of the active Word document", "/word/read"),
			postTool(client, "word_set_font", "Set font attributes for subsequent text", "/word/set_font",
				objectSchema(map[string]any{
					"name":  map[string]any{"type": "string", "description": "Font family name"},
					"size":  map[string]any{"type": "number", "description": "Point size"},
					"bold":  map[string]any{"type": "boolean", "description": "Bold text"},
					"color": map[string]any{"type": "string", "description": "Hex color like #FF0000"},
				}),
			),
			postTool(client, "word_set_style", "Apply a named paragraph style", "/word/set_style",
				objectSchema(map[string]any{
					"style": map[string]any{"type": "string", "description": "Style name, e.g. Heading 1"},
				}, "style"),
			),
			postTool(client, "word_find_replace", "Find and replace text in the document", "/word/find_replace",
				objectSchema(map[string]any{
					"find":    map[string]any{"type": "string", "description": "Text to find"},
					"replace": map[string]any{"type": "string", "description": "Replacement text"},
				}, "find", "replace"),
			),
		},
		OnEnable:  client.Health,
		OnDisable: closeHook(client, "/word/close"),
	}
}

// ExcelGroup builds the togglable Excel capability group.
func ExcelGroup(client *Client) *registry.Group {
	return &registry.Group{
		ID:          GroupExcel,
		Name:        "Microsoft Excel",
		Description: "Build and analyze Excel workbooks via the local automation server",
		Tools: []tool.Tool{
			postTool(client, "excel_create", "Create a new Excel workbook", "/excel/create", nil),
			postTool(client, "excel_write_cell", "Write a value into a cell", "/excel/write_cell",
				objectSchema(map[string]any{
					"cell":  map[string]any{"type": "string", "description": "Cell reference like A1"},
					"value": map[string]any{"type": "string", "description": "Value to write"},
				}, "cell", "value"),
			),
			postTool(client, "excel_read_cell", "Read the value of a cell", "/excel/read_cell",
				objectSchema(map[string]any{
					"cell": map[string]any{"type": "string", "description": "Cell reference like A1"},
				}, "cell"),
			),
			postTool(client, "excel_read_range", "Read a rectangular cell range", "/excel/read_range",
				objectSchema(map[string]any{
					"range": map[string]any{"type": "string", "description": "Range reference like A1:C4"},
				}, "range"),
			),
			postTool(client, "excel_set_formula", "Set a formula in a cell", "/excel/set_formula",
				objectSchema(map[string]any{
					"cell":    map[string]any{"type": "string", "description": "Cell reference like D2"},
					"formula": map[string]any{"type": "string", "description": "Formula starting with ="},
				}, "cell", "formula"),
			),
			postTool(client, "excel_add_sheet", "Add a worksheet", "/excel/add_sheet",
				objectSchema(map[string]any{
					"name": map[string]any{"type": "string", "description": "Sheet name"},
				}, "name"),
			),
		},
		OnEnable:  client.Health,
		OnDisable: closeHook(client, "/excel/close"),
	}
}

// PowerPointGroup builds the togglable PowerPoint capability group.
func PowerPointGroup(client *Client) *registry.Group {
	return &registry.Group{
		ID:          GroupPowerPoint,
		Name:        "Microsoft PowerPoint",
		Description: "Design PowerPoint slide decks via the local automation server",
		Tools: []tool.Tool{
			postTool(client, "ppt_create", "Create a new presentation", "/powerpoint/create", nil),
			postTool(client, "ppt_add_slide", "Append a slide with the given layout", "/powerpoint/add_slide",
				objectSchema(map[string]any{
					"layout": map[string]any{"type": "number", "description": "Slide layout index"},
				}, "layout"),
			),
			postTool(client, "ppt_write_text", "Write text into a slide placeholder", "/powerpoint/write_text",
				objectSchema(map[string]any{
					"slide":       map[string]any{"type": "number", "description": "1-based slide index"},
					"placeholder": map[string]any{"type": "string", "description": "Placeholder name, e.g. title or body"},
					"text":        map[string]any{"type": "string", "description": "Text content"},
				}, "slide", "text"),
			),
			postTool(client, "ppt_read_slide", "Read all text of a slide", "/powerpoint/read_slide",
				objectSchema(map[string]any{
					"slide": map[string]any{"type": "number", "description": "1-based slide index"},
				}, "slide"),
			),
			getTool(client, "ppt_get_slide_count", "Get the number of slides", "/powerpoint/get_slide_count"),
		},
		OnEnable:  client.Health,
		OnDisable: closeHook(client, "/powerpoint/close"),
	}
}

// Groups returns all office capability groups for bulk registration.
func Groups(client *Client) []*registry.Group {
	return []*registry.Group{
		WordGroup(client),
		ExcelGroup(client),
		PowerPointGroup(client),
	}
}

// postTool wraps a POST endpoint as a FunctionTool forwarding the validated
// arguments as the JSON body.
func postTool(client *Client, name, description, path string, schema map[string]any) *tool.FunctionTool {
	if schema == nil {
		schema = objectSchema(map[string]any{})
	}
	return tool.NewFunctionTool(name, description, schema,
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			res, err := client.Post(toolCtx.Context(), path, args)
			if err != nil {
				return nil, err
			}
			return res.Value(), nil
		},
		func(o *tool.FunctionToolOptions) { o.Categories = []string{CategoryOffice} },
	)
}

// getTool wraps a parameterless GET endpoint as a FunctionTool.
func getTool(client *Client, name, description, path string) *tool.FunctionTool {
	return tool.NewFunctionTool(name, description, objectSchema(map[string]any{}),
		func(toolCtx *core.ToolContext, _ map[string]any) (any, error) {
			res, err := client.Get(toolCtx.Context(), path)
			if err != nil {
				return nil, err
			}
			return res.Value(), nil
		},
		func(o *tool.FunctionToolOptions) { o.Categories = []string{CategoryOffice} },
	)
}

// closeHook posts a close-without-save request, used as the best-effort
// group OnDisable hook.
func closeHook(client *Client, path string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := client.Post(ctx, path, map[string]any{"save": false})
		return err
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
