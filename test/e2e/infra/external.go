package infra

import (
	"context"
	"time"
)

// ExternalEditorHost implements EditorHost for an editor managed outside the
// suite. Start only checks that it answers.
type ExternalEditorHost struct {
	url     string
	timeout time.Duration
}

func NewExternalEditorHost(url string, timeout time.Duration) *ExternalEditorHost {
	return &ExternalEditorHost{url: url, timeout: timeout}
}

func (e *ExternalEditorHost) Start(ctx context.Context) (string, error) {
	if err := waitReachable(ctx, e.url, e.timeout); err != nil {
		return "", err
	}
	return e.url, nil
}

func (e *ExternalEditorHost) Stop() error { return nil }
