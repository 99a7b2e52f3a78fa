package main

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threagile/editor-e2e/internal/browser"
	"github.com/threagile/editor-e2e/internal/editor"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/pkg/harness"
	"github.com/threagile/editor-e2e/pkg/matchers"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

const groupTimeout = 10 * time.Minute

func openEditor(ctx context.Context) (*editor.Gateway, func()) {
	driver, err := browser.New(ctx, browser.Options{
		Driver:    cfg.Browser.Driver,
		RemoteURL: cfg.Browser.RemoteURL,
		ExecPath:  cfg.Browser.ExecPath,
		Headless:  cfg.Browser.Headless,
		Width:     cfg.Browser.Width,
		Height:    cfg.Browser.Height,
		Timeout:   cfg.Browser.Timeout,
	})
	Expect(err).NotTo(HaveOccurred())

	gw := editor.NewGateway(driver, editor.Options{
		URL:          editorURL,
		ReadyTimeout: cfg.Editor.ReadyTimeout,
		Settle:       cfg.Editor.Settle,
	})
	return gw, func() { _ = driver.Close() }
}

var _ = Describe("Editor model", Ordered, func() {
	var (
		ctx         context.Context
		gw          *editor.Gateway
		closeEditor func()
	)

	BeforeAll(func() {
		ctx = context.Background()
		gw, closeEditor = openEditor(ctx)
		Expect(gw.Open(ctx)).To(Succeed())
		Expect(gw.WaitReady(ctx)).To(Succeed())
		Expect(gw.OpenExample(ctx, catalog.Defaults.Example)).To(Succeed())
	})

	AfterAll(func() {
		closeEditor()
	})

	// Given the example model
	// When we read it
	// Then it should carry the sections every scenario relies on
	It("should expose the example model", func() {
		snap, err := gw.FetchSnapshot(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(snap).NotTo(matchers.BeAbsentAt(snapshot.P("technical_assets")))
		Expect(snap).NotTo(matchers.BeAbsentAt(snapshot.P("data_assets")))
	})

	// Given the example model
	// When every ellipse is deleted and the deletion undone
	// Then the model should be restored
	It("should restore the model after deleting shapes and undoing", func() {
		h := harness.New(gw)
		initial, err := h.Snapshot(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(h.ExpectRestored(ctx, "delete ellipses", harness.Roundtrip{
			Mutate: func(ctx context.Context) error {
				if _, err := gw.SelectShapes(ctx, "shape=ellipse"); err != nil {
					return err
				}
				return gw.DeleteSelection(ctx)
			},
			Undo: gw.Undo,
		})).To(Succeed())

		final, err := h.Snapshot(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(final).To(matchers.BeRestoredFrom(initial))
	})
})

// describeCatalog registers one It per selected group. It runs from main
// once the catalogue is loaded.
func describeCatalog(groups []scenario.Group) bool {
	return Describe("Scenario catalogue", func() {
		for _, g := range groups {
			// Given a fresh editor session
			// When the group's steps run
			// Then every model assertion should hold
			It("should pass group "+g.Name, func(ctx SpecContext) {
				gw, closeEditor := openEditor(ctx)
				defer closeEditor()

				res := scenario.NewRunner(gw, catalog.Defaults).Run(ctx, g)

				Expect(res.Err).NotTo(HaveOccurred())
				for _, s := range res.Steps {
					Expect(s.Err).NotTo(HaveOccurred(), "step %q", s.Step)
				}
			}, SpecTimeout(groupTimeout))
		}
	})
}
