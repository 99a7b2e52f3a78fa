package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/threagile/editor-e2e/pkg/snapshot"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Kind names what a step does to the editor and what it checks.
type Kind string

const (
	KindEdit       Kind = "edit"
	KindEditKey    Kind = "edit_key"
	KindSelect     Kind = "select"
	KindToggle     Kind = "toggle"
	KindRemoveTag  Kind = "remove_tag"
	KindAddTag     Kind = "add_tag"
	KindDelete     Kind = "delete"
	KindDeleteUndo Kind = "delete_undo"
	KindLabels     Kind = "labels"
	KindTable      Kind = "table"
)

const (
	SelectShapes = "shapes"
	SelectEdges  = "edges"
)

// Catalog is a set of scenario groups. Each group runs in its own browser
// session.
type Catalog struct {
	Defaults Defaults `yaml:"defaults"`
	Groups   []Group  `yaml:"groups"`
}

type Defaults struct {
	// Example is the CSS selector of the example model button.
	Example string `yaml:"example"`
	// Apply is the XPath of the edit dialog's apply button.
	Apply string `yaml:"apply"`
}

type Group struct {
	Name  string `yaml:"name"`
	Setup Setup  `yaml:"setup"`
	Steps []Step `yaml:"steps"`
}

// Setup brings a fresh editor into the state the group's steps expect.
type Setup struct {
	FocusLabel string   `yaml:"focus_label,omitempty"`
	FocusStyle string   `yaml:"focus_style,omitempty"`
	FirstEdge  bool     `yaml:"first_edge,omitempty"`
	Rename     *Rename  `yaml:"rename,omitempty"`
	Clicks     []string `yaml:"clicks,omitempty"`
	// RefocusVia, when set, selects the shapes with this style fragment and
	// then repeats the focus after every step.
	RefocusVia string `yaml:"refocus_via,omitempty"`
	// Isolate reloads the editor and repeats the setup before every step.
	Isolate bool `yaml:"isolate,omitempty"`
}

// Rename renames the focused entity through its edit dialog and checks the
// new key exists under Path.
type Rename struct {
	Button string `yaml:"button"`
	Text   string `yaml:"text"`
	Path   string `yaml:"path"`
}

type Step struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
	// Pre is clicked, in order, before the step's own interaction.
	Pre []string `yaml:"pre,omitempty"`

	XPath     string `yaml:"xpath,omitempty"`
	Container string `yaml:"container,omitempty"`
	Option    string `yaml:"option,omitempty"`
	Apply     string `yaml:"apply,omitempty"`
	// Clicks is the click chain of a delete step.
	Clicks []string `yaml:"clicks,omitempty"`

	Path   string `yaml:"path,omitempty"`
	Text   string `yaml:"text,omitempty"`
	Marked string `yaml:"marked,omitempty"`
	// Previous is the option expected to be selected before a select step.
	Previous *string `yaml:"previous,omitempty"`
	// WasChecked is the state expected before a toggle step.
	WasChecked *bool `yaml:"was_checked,omitempty"`
	// Lookup names a top-level mapping; a tag's value is replaced by the id
	// of the entry it names in that mapping.
	Lookup string `yaml:"lookup,omitempty"`

	Texts      []string `yaml:"texts,omitempty"`
	TrimSuffix string   `yaml:"trim_suffix,omitempty"`

	Select       string   `yaml:"select,omitempty"`
	Style        string   `yaml:"style,omitempty"`
	CountRemoved bool     `yaml:"count_removed,omitempty"`
	KeysSubset   bool     `yaml:"keys_subset,omitempty"`
	LinksCleared bool     `yaml:"links_cleared,omitempty"`
	WarnExcept   []string `yaml:"warn_except,omitempty"`
}

// Default returns the built-in catalogue.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalogue file. An empty path loads the built-in one.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalogue. Unknown fields are
// rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Select returns the named groups in catalogue order, or every group when
// names is empty.
func (c *Catalog) Select(names ...string) ([]Group, error) {
	if len(names) == 0 {
		return c.Groups, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Group
	for _, g := range c.Groups {
		if wanted[g.Name] {
			out = append(out, g)
			delete(wanted, g.Name)
		}
	}
	for n := range wanted {
		return nil, fmt.Errorf("unknown scenario group %q", n)
	}
	return out, nil
}

// Validate checks that every step carries the fields its kind needs.
func (c *Catalog) Validate() error {
	var errs []error
	if c.Defaults.Apply == "" {
		errs = append(errs, errors.New("defaults.apply is required"))
	}
	groups := map[string]bool{}
	for _, g := range c.Groups {
		if g.Name == "" {
			errs = append(errs, errors.New("group without name"))
			continue
		}
		if groups[g.Name] {
			errs = append(errs, fmt.Errorf("duplicate group %q", g.Name))
		}
		groups[g.Name] = true
		errs = append(errs, g.validate()...)
	}
	return errors.Join(errs...)
}

func (g Group) validate() []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("group %q: "+format, append([]any{g.Name}, args...)...))
	}

	if g.Setup.FocusLabel != "" && g.Setup.FocusStyle != "" {
		fail("focus_label and focus_style are exclusive")
	}
	if g.Setup.FirstEdge && g.Setup.FocusLabel == "" && g.Setup.FocusStyle == "" {
		fail("first_edge needs a focus")
	}
	if r := g.Setup.Rename; r != nil {
		if r.Button == "" || r.Text == "" {
			fail("rename needs button and text")
		}
		if _, err := snapshot.ParsePath(r.Path); err != nil || r.Path == "" {
			fail("rename path %q is invalid", r.Path)
		}
	}

	steps := map[string]bool{}
	for _, s := range g.Steps {
		if s.Name == "" {
			fail("step without name")
			continue
		}
		if steps[s.Name] {
			fail("duplicate step %q", s.Name)
		}
		steps[s.Name] = true
		for _, msg := range s.problems() {
			fail("step %q: %s", s.Name, msg)
		}
	}
	return errs
}

func (s Step) problems() []string {
	var out []string
	need := func(field, value string) {
		if value == "" {
			out = append(out, field+" is required")
		}
	}
	needPath := func() {
		if s.Path == "" {
			out = append(out, "path is required")
			return
		}
		if _, err := snapshot.ParsePath(s.Path); err != nil {
			out = append(out, err.Error())
		}
	}

	switch s.Kind {
	case KindEdit, KindEditKey, KindSelect:
		need("xpath", s.XPath)
		need("text", s.Text)
		needPath()
	case KindToggle:
		need("xpath", s.XPath)
		needPath()
	case KindRemoveTag:
		need("xpath", s.XPath)
		needPath()
	case KindAddTag:
		need("xpath", s.XPath)
		need("option", s.Option)
		needPath()
	case KindDelete:
		if len(s.Clicks) == 0 {
			out = append(out, "clicks is required")
		}
		needPath()
	case KindDeleteUndo:
		needPath()
		switch s.Select {
		case SelectShapes:
			need("style", s.Style)
		case SelectEdges:
		default:
			out = append(out, fmt.Sprintf("select must be %q or %q", SelectShapes, SelectEdges))
		}
		for _, p := range s.WarnExcept {
			if _, err := snapshot.ParsePath(p); err != nil {
				out = append(out, err.Error())
			}
		}
	case KindLabels:
		need("xpath", s.XPath)
		need("container", s.Container)
		if len(s.Texts) == 0 {
			out = append(out, "texts is required")
		}
	case KindTable:
		need("xpath", s.XPath)
	default:
		out = append(out, fmt.Sprintf("unknown kind %q", s.Kind))
	}
	return out
}
