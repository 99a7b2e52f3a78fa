package scenario

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/internal/editor"
	"github.com/threagile/editor-e2e/pkg/errors"
	"github.com/threagile/editor-e2e/pkg/harness"
	"github.com/threagile/editor-e2e/pkg/modeldiff"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// optionWait bounds the wait for a tag option before the opener is clicked
// a second time.
const optionWait = 2 * time.Second

// StepResult is the outcome of one catalogue step.
type StepResult struct {
	Group    string
	Step     string
	Kind     Kind
	Err      error
	Started  time.Time
	Duration time.Duration
	// Changes lists what the step changed in the model. Empty for steps that
	// only read the UI.
	Changes []errors.Difference
}

func (r StepResult) Passed() bool {
	return r.Err == nil
}

// GroupResult collects the steps of one group. Err is set when the setup
// failed and no step ran.
type GroupResult struct {
	Group string
	Err   error
	Steps []StepResult
}

func (g GroupResult) Failed() bool {
	if g.Err != nil {
		return true
	}
	for _, s := range g.Steps {
		if !s.Passed() {
			return true
		}
	}
	return false
}

// Runner executes catalogue groups against one editor session.
type Runner struct {
	gw       *editor.Gateway
	h        *harness.Harness
	defaults Defaults
	last     harness.Outcome
	onStep   []func(StepResult)
}

func NewRunner(gw *editor.Gateway, defaults Defaults) *Runner {
	r := &Runner{gw: gw, defaults: defaults}
	r.h = harness.New(gw).Observe(func(o harness.Outcome) { r.last = o })
	return r
}

// OnStep registers fn for every finished step.
func (r *Runner) OnStep(fn func(StepResult)) *Runner {
	r.onStep = append(r.onStep, fn)
	return r
}

// Session is the editor state a group's setup leaves behind.
type Session struct {
	// Focused is the id of the cell the setup selected, if any.
	Focused string
}

// Run executes every step of g. A failed step does not stop the group.
func (r *Runner) Run(ctx context.Context, g Group) GroupResult {
	log := zap.S().Named("scenario").With("group", g.Name)
	res := GroupResult{Group: g.Name}

	var sess Session
	if !g.Setup.Isolate {
		var err error
		if sess, err = r.Setup(ctx, g.Setup); err != nil {
			log.Errorw("setup failed", "error", err)
			res.Err = fmt.Errorf("setup of group %s: %w", g.Name, err)
			return res
		}
	}

	for _, s := range g.Steps {
		if ctx.Err() != nil {
			res.Err = ctx.Err()
			break
		}
		sr := StepResult{Group: g.Name, Step: s.Name, Kind: s.Kind, Started: time.Now()}
		r.last = harness.Outcome{}

		if g.Setup.Isolate {
			sess, sr.Err = r.Setup(ctx, g.Setup)
		}
		if sr.Err == nil {
			sr.Err = r.RunStep(ctx, s)
		}
		if g.Setup.RefocusVia != "" && sess.Focused != "" {
			if err := r.refocus(ctx, g.Setup.RefocusVia, sess.Focused); err != nil && sr.Err == nil {
				sr.Err = fmt.Errorf("refocus: %w", err)
			}
		}
		sr.Duration = time.Since(sr.Started)
		if r.last.Step == s.Name && !r.last.Before.IsZero() && !r.last.After.IsZero() {
			sr.Changes = modeldiff.Differences(r.last.Before, r.last.After, modeldiff.StrictOrder())
		}

		if sr.Err != nil {
			log.Infow("step failed", "step", s.Name, "kind", s.Kind, "error", sr.Err)
		} else {
			log.Infow("step passed", "step", s.Name, "kind", s.Kind, "duration", sr.Duration)
		}
		res.Steps = append(res.Steps, sr)
		for _, fn := range r.onStep {
			fn(sr)
		}
	}
	return res
}

// Setup opens the editor with the example model, runs the setup clicks,
// focuses the configured cell and renames it.
func (r *Runner) Setup(ctx context.Context, setup Setup) (Session, error) {
	var sess Session

	if err := r.gw.Open(ctx); err != nil {
		return sess, err
	}
	if r.defaults.Example != "" {
		if err := r.gw.OpenExample(ctx, r.defaults.Example); err != nil {
			return sess, err
		}
	} else if err := r.gw.WaitReady(ctx); err != nil {
		return sess, err
	}
	if err := r.clickAll(ctx, setup.Clicks); err != nil {
		return sess, err
	}

	var err error
	switch {
	case setup.FocusLabel != "":
		sess.Focused, err = r.gw.FocusLabel(ctx, setup.FocusLabel)
	case setup.FocusStyle != "":
		sess.Focused, err = r.gw.FocusStyle(ctx, setup.FocusStyle)
	}
	if err != nil {
		return sess, err
	}

	if rn := setup.Rename; rn != nil {
		root := snapshot.MustParsePath(rn.Path)
		rename := func(ctx context.Context) error {
			return r.gw.EditDialog(ctx, rn.Button, r.defaults.Apply, rn.Text)
		}
		if err := r.h.Expect(ctx, "rename to "+rn.Text, rename, modeldiff.HasKey(root, rn.Text)); err != nil {
			return sess, err
		}
	}

	if setup.FirstEdge {
		if sess.Focused, err = r.gw.FocusFirstEdge(ctx, sess.Focused); err != nil {
			return sess, err
		}
	}
	return sess, nil
}

// RunStep executes a single step in the current editor state.
func (r *Runner) RunStep(ctx context.Context, s Step) error {
	switch s.Kind {
	case KindEdit:
		return r.edit(ctx, s)
	case KindEditKey:
		return r.editKey(ctx, s)
	case KindSelect:
		return r.selectOption(ctx, s)
	case KindToggle:
		return r.toggle(ctx, s)
	case KindRemoveTag:
		return r.removeTag(ctx, s)
	case KindAddTag:
		return r.addTag(ctx, s)
	case KindDelete:
		return r.delete(ctx, s)
	case KindDeleteUndo:
		return r.deleteUndo(ctx, s)
	case KindLabels:
		return r.labels(ctx, s)
	case KindTable:
		return r.table(ctx, s)
	default:
		return fmt.Errorf("unknown step kind %q", s.Kind)
	}
}

func (r *Runner) refocus(ctx context.Context, via, cellID string) error {
	if _, err := r.gw.SelectShapes(ctx, via); err != nil {
		return err
	}
	return r.gw.FocusCell(ctx, cellID)
}

func (r *Runner) clickAll(ctx context.Context, xpaths []string) error {
	for _, x := range xpaths {
		if err := r.gw.Driver().Click(ctx, x); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) apply(s Step) string {
	if s.Apply != "" {
		return s.Apply
	}
	return r.defaults.Apply
}

// openDialog clicks the edit button and checks the focused input starts
// with the marked value.
func (r *Runner) openDialog(ctx context.Context, s Step) error {
	if err := r.clickAll(ctx, s.Pre); err != nil {
		return err
	}
	if err := r.gw.Driver().Click(ctx, s.XPath); err != nil {
		return err
	}
	if s.Marked == "" {
		return nil
	}
	value, err := r.gw.ActiveValue(ctx)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(value, s.Marked) {
		return errors.NewPreconditionError(s.XPath, s.Marked, value)
	}
	return nil
}

func (r *Runner) submitDialog(ctx context.Context, s Step) error {
	if err := r.gw.EditActive(ctx, s.Text); err != nil {
		return err
	}
	return r.gw.Driver().Click(ctx, r.apply(s))
}

func (r *Runner) edit(ctx context.Context, s Step) error {
	p := snapshot.MustParsePath(s.Path)
	action := func(ctx context.Context) error {
		if err := r.openDialog(ctx, s); err != nil {
			return err
		}
		return r.submitDialog(ctx, s)
	}

	var checks []modeldiff.Assertion
	if len(p) >= 2 {
		if key, ok := p.Parent().Last().(string); ok {
			checks = append(checks, modeldiff.HasKey(p.Parent().Parent(), key))
		}
	}
	checks = append(checks, modeldiff.Equals(p, s.Text))
	return r.h.Expect(ctx, s.Name, action, checks...)
}

func (r *Runner) editKey(ctx context.Context, s Step) error {
	p := snapshot.MustParsePath(s.Path)
	action := func(ctx context.Context) error {
		if err := r.openDialog(ctx, s); err != nil {
			return err
		}
		return r.submitDialog(ctx, s)
	}
	return r.h.Expect(ctx, s.Name, action, modeldiff.HasKey(p, s.Text), modeldiff.Unchanged(p))
}

func (r *Runner) selectOption(ctx context.Context, s Step) error {
	p := snapshot.MustParsePath(s.Path)
	driver := r.gw.Driver()
	action := func(ctx context.Context) error {
		if err := r.clickAll(ctx, s.Pre); err != nil {
			return err
		}
		if s.Previous != nil {
			current, err := driver.SelectedOption(ctx, s.XPath)
			if err != nil {
				return err
			}
			if current != *s.Previous {
				return errors.NewPreconditionError(s.XPath, *s.Previous, current)
			}
		}
		return driver.SelectOption(ctx, s.XPath, s.Text)
	}
	return r.h.Expect(ctx, s.Name, action, modeldiff.Equals(p, s.Text))
}

func (r *Runner) toggle(ctx context.Context, s Step) error {
	p := snapshot.MustParsePath(s.Path)
	driver := r.gw.Driver()
	var was bool
	action := func(ctx context.Context) error {
		if err := r.clickAll(ctx, s.Pre); err != nil {
			return err
		}
		var err error
		if was, err = driver.Checked(ctx, s.XPath); err != nil {
			return err
		}
		if s.WasChecked != nil && was != *s.WasChecked {
			return errors.NewPreconditionError(s.XPath, *s.WasChecked, was)
		}
		return driver.Click(ctx, s.XPath)
	}
	negated := func(_, after snapshot.Snapshot) error {
		return modeldiff.AssertValue(after, p, !was)
	}
	return r.h.Expect(ctx, s.Name, action, negated)
}

// element maps a tag value to the model element it stands for.
func element(before snapshot.Snapshot, lookup, value string) string {
	if lookup == "" {
		return value
	}
	if id, ok := before.String(snapshot.P(lookup, value, "id")); ok {
		return id
	}
	return value
}

func (r *Runner) removeTag(ctx context.Context, s Step) error {
	p := snapshot.MustParsePath(s.Path)
	driver := r.gw.Driver()
	var value string
	action := func(ctx context.Context) error {
		if err := r.clickAll(ctx, s.Pre); err != nil {
			return err
		}
		v, ok, err := driver.Attribute(ctx, s.XPath+"/..", "value")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("tag %s has no value", s.XPath)
		}
		value = v
		return driver.Click(ctx, s.XPath)
	}
	absent := func(before, after snapshot.Snapshot) error {
		return modeldiff.AssertElementAbsent(after, p, element(before, s.Lookup, value))
	}
	return r.h.Expect(ctx, s.Name, action, modeldiff.Decreased(p), absent)
}

func (r *Runner) addTag(ctx context.Context, s Step) error {
	p := snapshot.MustParsePath(s.Path)
	driver := r.gw.Driver()
	var value string
	action := func(ctx context.Context) error {
		if err := r.clickAll(ctx, s.Pre); err != nil {
			return err
		}
		if err := driver.Click(ctx, s.XPath); err != nil {
			return err
		}
		waitCtx, cancel := context.WithTimeout(ctx, optionWait)
		err := driver.Wait(waitCtx, s.Option)
		cancel()
		if err != nil {
			zap.S().Named("scenario").Debugw("tag option did not show up, reopening", "option", s.Option)
			if err := driver.Click(ctx, s.XPath); err != nil {
				return err
			}
			if err := driver.Wait(ctx, s.Option); err != nil {
				return err
			}
		}

		v, ok, err := driver.Attribute(ctx, s.Option, "value")
		if err != nil {
			return err
		}
		if !ok {
			if v, err = driver.Text(ctx, s.Option); err != nil {
				return err
			}
		}
		value = strings.TrimSpace(v)
		return driver.Click(ctx, s.Option)
	}
	present := func(before, after snapshot.Snapshot) error {
		return modeldiff.AssertElementPresent(after, p, element(before, s.Lookup, value))
	}
	return r.h.Expect(ctx, s.Name, action, modeldiff.Increased(p), present)
}

func (r *Runner) delete(ctx context.Context, s Step) error {
	p := snapshot.MustParsePath(s.Path)
	action := func(ctx context.Context) error {
		if err := r.clickAll(ctx, s.Pre); err != nil {
			return err
		}
		return r.clickAll(ctx, s.Clicks)
	}
	return r.h.Expect(ctx, s.Name, action, modeldiff.Decreased(p))
}

func (r *Runner) deleteUndo(ctx context.Context, s Step) error {
	p := snapshot.MustParsePath(s.Path)
	var sel editor.Selection
	mutate := func(ctx context.Context) error {
		if err := r.clickAll(ctx, s.Pre); err != nil {
			return err
		}
		var err error
		if s.Select == SelectEdges {
			sel, err = r.gw.SelectEdges(ctx)
		} else {
			sel, err = r.gw.SelectShapes(ctx, s.Style)
		}
		if err != nil {
			return err
		}
		if sel.Count == 0 {
			return fmt.Errorf("nothing to delete: the diagram has no matching %s", s.Select)
		}
		return r.gw.DeleteSelection(ctx)
	}

	var checks []modeldiff.Assertion
	if s.LinksCleared {
		checks = append(checks, modeldiff.Unchanged(p), modeldiff.KeysRemovedSubset(p), linksCleared(p))
	} else {
		checks = append(checks, modeldiff.Decreased(p))
	}
	if s.KeysSubset && !s.LinksCleared {
		checks = append(checks, modeldiff.KeysRemovedSubset(p))
	}
	if s.CountRemoved {
		checks = append(checks, func(before, after snapshot.Snapshot) error {
			return modeldiff.AssertDecreasedBy(before, after, p, sel.Count)
		})
	}
	if len(s.WarnExcept) > 0 {
		checks = append(checks, warnDifferences(s.Name, s.WarnExcept))
	}

	return r.h.ExpectRestored(ctx, s.Name, harness.Roundtrip{
		Mutate: mutate,
		Check:  modeldiff.All(checks...),
		Undo:   r.gw.Undo,
	})
}

// linksCleared requires every entry of the mapping at p to be left without
// communication links.
func linksCleared(p snapshot.Path) modeldiff.Assertion {
	return func(before, after snapshot.Snapshot) error {
		for _, key := range after.Keys(p) {
			links := p.Append(key, "communication_links")
			if n := modeldiff.LengthOf(after, links); n > 0 {
				return errors.NewLengthComparisonError(links.String(), "emptied", modeldiff.LengthOf(before, links), n)
			}
		}
		return nil
	}
}

// warnDifferences logs changes outside the excluded paths without failing.
func warnDifferences(step string, except []string) modeldiff.Assertion {
	paths := make([]snapshot.Path, 0, len(except))
	for _, e := range except {
		paths = append(paths, snapshot.MustParsePath(e))
	}
	return func(before, after snapshot.Snapshot) error {
		diffs := modeldiff.Differences(before, after, modeldiff.Excluding(paths...))
		if len(diffs) > 0 {
			zap.S().Named("scenario").Warnw("unexpected model changes", "step", step, "differences", errors.NewSnapshotDifferenceError(diffs).Error())
		}
		return nil
	}
}

func (r *Runner) labels(ctx context.Context, s Step) error {
	driver := r.gw.Driver()
	if err := r.clickAll(ctx, s.Pre); err != nil {
		return err
	}
	if err := driver.Wait(ctx, s.Container); err != nil {
		return err
	}
	texts, err := driver.Texts(ctx, s.XPath)
	if err != nil {
		return err
	}
	shown := make([]string, 0, len(texts))
	for _, t := range texts {
		shown = append(shown, strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), s.TrimSuffix)))
	}
	for _, want := range s.Texts {
		if !slices.Contains(shown, want) {
			return errors.NewElementNotFoundError(s.XPath, want, shown)
		}
	}
	return nil
}

func (r *Runner) table(ctx context.Context, s Step) error {
	driver := r.gw.Driver()
	if err := r.clickAll(ctx, s.Pre); err != nil {
		return err
	}
	if err := driver.Wait(ctx, s.XPath); err != nil {
		return err
	}
	rows, err := driver.Texts(ctx, s.XPath+"//tr[position()>1]/td[1]")
	if err != nil {
		return err
	}
	if !slices.Equal(rows, s.Texts) {
		return errors.NewValueMismatchError(s.XPath, s.Texts, rows, false)
	}
	return nil
}
