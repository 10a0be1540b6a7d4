package registry

import (
	"context"

	"github.com/hupe1980/taskmesh/tool"
)

// Group bundles optional capabilities that are enabled and disabled together.
//
// Lifecycle hooks:
//   - OnEnable runs before activation and can block it: if it returns an
//     error no member tool is registered (no partial activation).
//   - OnDisable runs after deactivation on a best-effort, non-blocking
//     basis; any error it returns is discarded and never reverts the
//     disable.
type Group struct {
	// ID is the unique group identifier used by Enable/Disable/Toggle.
	ID string
	// Name is a human-readable display name.
	Name string
	// Description explains what the group provides.
	Description string
	// Tools are the member capabilities registered on enable.
	Tools []tool.Tool
	// OnEnable is the optional async validation hook.
	OnEnable func(ctx context.Context) error
	// OnDisable is the optional best-effort cleanup hook.
	OnDisable func(ctx context.Context) error
}

// ToolNames returns the names of all member tools.
func (g *Group) ToolNames() []string {
	names := make([]string, 0, len(g.Tools))
	for _, t := range g.Tools {
		names = append(names, t.Name())
	}
	return names
}
