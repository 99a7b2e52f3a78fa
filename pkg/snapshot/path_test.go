package snapshot_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threagile/editor-e2e/pkg/snapshot"
)

var _ = Describe("Path", func() {
	DescribeTable("ParsePath",
		func(in string, want snapshot.Path) {
			p, err := snapshot.ParsePath(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(want))
		},
		Entry("empty", "", snapshot.Path(nil)),
		Entry("dotted keys", "technical_assets.foo.tags", snapshot.P("technical_assets", "foo", "tags")),
		Entry("an index", "technical_assets.foo.tags[2]", snapshot.P("technical_assets", "foo", "tags", 2)),
		Entry("keys with spaces", "data_assets.Customer Contracts.tags", snapshot.P("data_assets", "Customer Contracts", "tags")),
		Entry("a quoted key", `communication_links["a.b"].data_assets_sent`, snapshot.P("communication_links", "a.b", "data_assets_sent")),
		Entry("a leading index", "[0].id", snapshot.P(0, "id")),
		Entry("a wildcard", "technical_assets[*].communication_links", snapshot.P("technical_assets", snapshot.Wildcard, "communication_links")),
	)

	DescribeTable("rejecting malformed paths",
		func(in string) {
			_, err := snapshot.ParsePath(in)
			Expect(err).To(HaveOccurred())
		},
		Entry("double dot", "a..b"),
		Entry("trailing dot", "a."),
		Entry("unterminated index", "a[1"),
		Entry("non-numeric index", "a[x]"),
		Entry("unterminated quote", `a["b`),
		Entry("key after index without dot", "a[1]b"),
	)

	It("should round-trip through String", func() {
		for _, p := range []snapshot.Path{
			snapshot.P("technical_assets", "foo", "tags", 0),
			snapshot.P("communication_links", "Customer Traffic", "data_assets_sent"),
			snapshot.P("weird", "a.b", "c[d]"),
		} {
			parsed, err := snapshot.ParsePath(p.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(p))
		}
	})

	It("should not share backing arrays on Append", func() {
		base := snapshot.P("a", "b")
		x := base.Parent().Append("x")
		y := base.Parent().Append("y")

		Expect(x).To(Equal(snapshot.P("a", "x")))
		Expect(y).To(Equal(snapshot.P("a", "y")))
		Expect(base).To(Equal(snapshot.P("a", "b")))
	})

	It("should detect prefixes", func() {
		p := snapshot.P("technical_assets", "foo", "tags")
		Expect(p.HasPrefix(snapshot.P("technical_assets"))).To(BeTrue())
		Expect(p.HasPrefix(snapshot.P("technical_assets", "bar"))).To(BeFalse())
		Expect(p.HasPrefix(p.Append("x"))).To(BeFalse())
		Expect(p.Last()).To(Equal("tags"))
	})

	It("should let wildcards match any element", func() {
		links := snapshot.MustParsePath("technical_assets[*].communication_links")

		Expect(snapshot.P("technical_assets", "foo", "communication_links", "x").MatchesPrefix(links)).To(BeTrue())
		Expect(snapshot.P("technical_assets", "foo", "tags").MatchesPrefix(links)).To(BeFalse())
		Expect(snapshot.P("technical_assets", "foo", "communication_links").HasPrefix(links)).To(BeFalse())
		Expect(links.String()).To(Equal("technical_assets[*].communication_links"))
	})
})
