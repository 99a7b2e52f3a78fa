package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/internal/config"
	"github.com/threagile/editor-e2e/internal/server"
)

// LocalEditorHost serves the editor statics with the modelcheck server.
type LocalEditorHost struct {
	cfg     config.Server
	page    string
	timeout time.Duration
	cancel  context.CancelFunc
	done    chan error
}

// NewLocalEditorHost serves cfg.StaticsFolder on cfg.Port. page is the path
// of the test page, e.g. "indexTests.html".
func NewLocalEditorHost(cfg config.Server, page string, timeout time.Duration) *LocalEditorHost {
	return &LocalEditorHost{cfg: cfg, page: page, timeout: timeout}
}

func (l *LocalEditorHost) Start(ctx context.Context) (string, error) {
	if l.cfg.StaticsFolder == "" {
		return "", fmt.Errorf("local mode needs a statics folder")
	}
	srv, err := server.NewServer(l.cfg, func(*gin.RouterGroup) {})
	if err != nil {
		return "", err
	}

	srvCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan error, 1)
	go func() {
		l.done <- srv.Start(srvCtx)
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/%s", l.cfg.Port, l.page)
	if err := waitReachable(ctx, url, l.timeout); err != nil {
		_ = l.Stop()
		return "", err
	}
	zap.S().Named("infra").Infow("editor served locally", "url", url, "statics", l.cfg.StaticsFolder)
	return url, nil
}

func (l *LocalEditorHost) Stop() error {
	if l.cancel == nil {
		return nil
	}
	l.cancel()
	l.cancel = nil
	return <-l.done
}
