package infra

import "context"

// EditorHost abstracts where the editor under test is served from.
// Local: statics served in-process by the modelcheck server.
// External: the editor is already running, e.g. a container started by make.
type EditorHost interface {
	// Start makes the editor reachable and returns the URL of its test page.
	Start(ctx context.Context) (string, error)
	Stop() error
}

const (
	ModeLocal    = "local"
	ModeExternal = "external"
)
