package scenario_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/threagile/editor-e2e/internal/scenario"
)

var _ = Describe("Catalog", func() {
	Context("built-in", func() {
		It("should load and validate", func() {
			c, err := scenario.Default()
			Expect(err).NotTo(HaveOccurred())

			var names []string
			for _, g := range c.Groups {
				names = append(names, g.Name)
			}
			Expect(names).To(Equal([]string{"technical-asset", "communication-link", "trust-boundary", "data-asset", "delete-undo"}))
			Expect(c.Defaults.Apply).NotTo(BeEmpty())
		})

		It("should be what Load returns without a path", func() {
			c, err := scenario.Load("")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Groups).To(HaveLen(5))
		})
	})

	Describe("Select", func() {
		var c *scenario.Catalog

		BeforeEach(func() {
			var err error
			c, err = scenario.Default()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep catalogue order", func() {
			groups, err := c.Select("delete-undo", "technical-asset")
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(2))
			Expect(groups[0].Name).To(Equal("technical-asset"))
			Expect(groups[1].Name).To(Equal("delete-undo"))
		})

		It("should reject unknown groups", func() {
			_, err := c.Select("nope")
			Expect(err).To(MatchError(ContainSubstring(`unknown scenario group "nope"`)))
		})

		It("should return everything without names", func() {
			groups, err := c.Select()
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(len(c.Groups)))
		})
	})

	DescribeTable("rejecting invalid catalogues",
		func(doc, problem string) {
			_, err := scenario.Parse([]byte(doc))
			Expect(err).To(MatchError(ContainSubstring(problem)))
		},
		Entry("unknown kind", `
defaults: {apply: //apply}
groups:
  - name: g
    steps:
      - {name: s, kind: wiggle}
`, `unknown kind "wiggle"`),
		Entry("unknown field", `
defaults: {apply: //apply}
groups:
  - name: g
    steps:
      - {name: s, kind: edit, xpth: //x}
`, "field xpth not found"),
		Entry("missing path", `
defaults: {apply: //apply}
groups:
  - name: g
    steps:
      - {name: s, kind: select, xpath: //x, text: a}
`, "path is required"),
		Entry("malformed path", `
defaults: {apply: //apply}
groups:
  - name: g
    steps:
      - {name: s, kind: toggle, xpath: //x, path: "a..b"}
`, "empty key"),
		Entry("duplicate step", `
defaults: {apply: //apply}
groups:
  - name: g
    steps:
      - {name: s, kind: table, xpath: //t}
      - {name: s, kind: table, xpath: //t}
`, `duplicate step "s"`),
		Entry("duplicate group", `
defaults: {apply: //apply}
groups:
  - {name: g}
  - {name: g}
`, `duplicate group "g"`),
		Entry("bad delete_undo selection", `
defaults: {apply: //apply}
groups:
  - name: g
    steps:
      - {name: s, kind: delete_undo, select: cells, path: a}
`, "select must be"),
		Entry("exclusive focus", `
defaults: {apply: //apply}
groups:
  - name: g
    setup: {focus_label: a, focus_style: b}
`, "exclusive"),
		Entry("no apply button", `
groups: []
`, "defaults.apply is required"),
	)

	It("should load a catalogue file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "catalog.yaml")
		Expect(os.WriteFile(path, []byte(`
defaults: {apply: //apply}
groups:
  - name: tables
    steps:
      - {name: empty table, kind: table, xpath: //table}
`), 0o600)).To(Succeed())

		c, err := scenario.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(c.Groups[0].Steps[0].Kind).To(Equal(scenario.KindTable))
	})
})
