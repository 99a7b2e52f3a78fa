package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/internal/browser"
	"github.com/threagile/editor-e2e/pkg/errors"
	"github.com/threagile/editor-e2e/pkg/harness"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// Options configures a Gateway.
type Options struct {
	// URL of the page hosting the editor.
	URL string
	// ReadyTimeout bounds WaitReady.
	ReadyTimeout time.Duration
	// Settle is waited after every mutation before PerformUIMutation returns.
	Settle time.Duration
}

// Gateway exposes a threagile editor page, driven through a browser.Driver,
// as a harness.Gateway. It is bound to one browser session and must not be
// shared between goroutines.
type Gateway struct {
	driver browser.Driver
	opts   Options
}

func NewGateway(driver browser.Driver, opts Options) *Gateway {
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 30 * time.Second
	}
	return &Gateway{driver: driver, opts: opts}
}

// Driver returns the underlying browser session.
func (g *Gateway) Driver() browser.Driver {
	return g.driver
}

// Open navigates to the page hosting the editor.
func (g *Gateway) Open(ctx context.Context) error {
	zap.S().Named("editor").Infow("opening editor", "url", g.opts.URL)
	if err := g.driver.Navigate(ctx, g.opts.URL); err != nil {
		return fmt.Errorf("failed to open editor page: %w", err)
	}
	return nil
}

// WaitReady polls with exponential backoff until the editor graph and its
// threagile model exist.
func (g *Gateway) WaitReady(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	_, err := backoff.Retry(ctx, func() (bool, error) {
		var res ScriptResult
		if err := g.driver.Eval(ctx, readyScript(), &res); err != nil {
			return false, err
		}
		if err := res.Check(ScriptReady); err != nil {
			return false, backoff.Permanent(err)
		}
		if !res.Success() {
			return false, fmt.Errorf("editor not ready: %s", res.Status)
		}
		return true, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(g.opts.ReadyTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			zap.S().Named("editor").Debugw("waiting for editor", "error", err, "retry_in", next)
		}),
	)
	if err != nil {
		return fmt.Errorf("editor did not become ready: %w", err)
	}
	return nil
}

// FetchSnapshot reads the threagile model through toJSON(), or the model
// object itself when toJSON is unavailable.
func (g *Gateway) FetchSnapshot(ctx context.Context) (snapshot.Snapshot, error) {
	res, err := g.run(ctx, ScriptGetModel, getModelScript())
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if len(res.Data) == 0 || string(res.Data) == "null" {
		return snapshot.Snapshot{}, errors.NewScriptError(ScriptGetModel, "model is empty", "")
	}
	s, err := snapshot.Parse(res.Data)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to decode model: %w", err)
	}
	return s, nil
}

// PerformUIMutation runs action and then waits the settle delay.
func (g *Gateway) PerformUIMutation(ctx context.Context, action harness.Action) error {
	if err := action(ctx); err != nil {
		return err
	}
	if g.opts.Settle <= 0 {
		return nil
	}
	t := time.NewTimer(g.opts.Settle)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Model returns the current model as raw JSON.
func (g *Gateway) Model(ctx context.Context) (json.RawMessage, error) {
	s, err := g.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

// OpenExample clicks the example button identified by a CSS selector, in
// the page or in its first frame, and waits for the editor.
func (g *Gateway) OpenExample(ctx context.Context, selector string) error {
	if _, err := g.run(ctx, ScriptOpenExample, openExampleScript(selector)); err != nil {
		return err
	}
	return g.WaitReady(ctx)
}

// FocusLabel selects the vertex whose label is label and returns its cell id.
func (g *Gateway) FocusLabel(ctx context.Context, label string) (string, error) {
	res, err := g.run(ctx, ScriptFocusLabel, focusLabelScript(label))
	return res.ID, err
}

// FocusStyle selects the first vertex whose style contains fragment.
func (g *Gateway) FocusStyle(ctx context.Context, fragment string) (string, error) {
	res, err := g.run(ctx, ScriptFocusStyle, focusStyleScript(fragment))
	return res.ID, err
}

// FocusFirstEdge selects the first edge connected to cellID.
func (g *Gateway) FocusFirstEdge(ctx context.Context, cellID string) (string, error) {
	res, err := g.run(ctx, ScriptFocusFirstEdge, focusFirstEdgeScript(cellID))
	return res.ID, err
}

// FocusCell selects the cell with id cellID.
func (g *Gateway) FocusCell(ctx context.Context, cellID string) error {
	_, err := g.run(ctx, ScriptFocusCell, focusCellScript(cellID))
	return err
}

// SelectShapes selects every vertex whose style contains fragment, for
// example "shape=ellipse".
func (g *Gateway) SelectShapes(ctx context.Context, fragment string) (Selection, error) {
	res, err := g.run(ctx, ScriptSelectShapes, selectShapesScript(fragment))
	return res.selection(), err
}

// SelectEdges selects every edge of the diagram.
func (g *Gateway) SelectEdges(ctx context.Context) (Selection, error) {
	res, err := g.run(ctx, ScriptSelectEdges, selectEdgesScript())
	return res.selection(), err
}

// DeleteSelection runs the editor's delete action on the current selection.
// An empty selection is a warning, not an error.
func (g *Gateway) DeleteSelection(ctx context.Context) error {
	_, err := g.run(ctx, ScriptDeleteSelection, deleteSelectionScript())
	return err
}

// Undo reverts the last editor change. An empty undo history is a warning.
func (g *Gateway) Undo(ctx context.Context) error {
	_, err := g.run(ctx, ScriptUndo, undoScript())
	return err
}

// ActiveValue selects the content of the focused input and returns it.
func (g *Gateway) ActiveValue(ctx context.Context) (string, error) {
	res, err := g.run(ctx, ScriptActiveValue, activeValueScript())
	return res.Value, err
}

// EditActive replaces the content of the focused input with text.
func (g *Gateway) EditActive(ctx context.Context, text string) error {
	_, err := g.run(ctx, ScriptFillActive, fillActiveScript(text))
	return err
}

// EditDialog opens an edit dialog with editButton, replaces the focused
// value with text and confirms with applyButton.
func (g *Gateway) EditDialog(ctx context.Context, editButton, applyButton, text string) error {
	if err := g.driver.Click(ctx, editButton); err != nil {
		return err
	}
	if err := g.EditActive(ctx, text); err != nil {
		return err
	}
	return g.driver.Click(ctx, applyButton)
}

func (g *Gateway) run(ctx context.Context, label, script string) (ScriptResult, error) {
	var res ScriptResult
	if err := g.driver.Eval(ctx, script, &res); err != nil {
		return res, fmt.Errorf("script %s: %w", label, err)
	}
	if err := res.Check(label); err != nil {
		return res, err
	}
	zap.S().Named("editor").Debugw("script done", "script", label, "status", res.Status)
	return res, nil
}

var _ harness.Gateway = (*Gateway)(nil)
