package infra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// waitReachable polls url until it answers 200 or timeout elapses.
func waitReachable(ctx context.Context, url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	probe := func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return struct{}{}, fmt.Errorf("%s answered %d", url, resp.StatusCode)
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, probe,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(timeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			zap.S().Named("infra").Debugw("editor not reachable yet", "url", url, "error", err, "retry_in", next)
		}),
	)
	if err != nil {
		return fmt.Errorf("editor at %s not reachable: %w", url, err)
	}
	return nil
}
