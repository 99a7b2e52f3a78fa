package browser_test

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threagile/editor-e2e/internal/browser"
)

var _ = Describe("RodDriver", func() {
	Describe("scoped pages", func() {
		It("should bound each call by the driver timeout", func() {
			d := browser.NewRodDriverForPage(&rod.Page{}, time.Minute)

			p, cancel := d.Scoped(context.Background())
			defer cancel()

			deadline, ok := p.GetContext().Deadline()
			Expect(ok).To(BeTrue())
			Expect(time.Until(deadline)).To(BeNumerically("~", time.Minute, 5*time.Second))
		})

		It("should release the call context when cancelled", func() {
			// Given a page scoped to a long timeout
			d := browser.NewRodDriverForPage(&rod.Page{}, time.Hour)
			p, cancel := d.Scoped(context.Background())

			// When the call finishes
			cancel()

			// Then its context is done well before the timeout
			Expect(p.GetContext().Err()).To(MatchError(context.Canceled))
		})

		It("should follow the caller's context", func() {
			ctx, stop := context.WithCancel(context.Background())
			d := browser.NewRodDriverForPage(&rod.Page{}, time.Hour)
			p, cancel := d.Scoped(ctx)
			defer cancel()

			stop()

			Expect(p.GetContext().Err()).To(MatchError(context.Canceled))
		})
	})
})

var _ = Describe("New", func() {
	It("should reject unknown drivers", func() {
		_, err := browser.New(context.Background(), browser.Options{Driver: "webkit"})

		Expect(err).To(MatchError(ContainSubstring(`unknown browser driver "webkit"`)))
	})
})
