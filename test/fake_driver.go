package test

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/threagile/editor-e2e/internal/browser"
	"github.com/threagile/editor-e2e/internal/editor"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// FakeDriver is a scripted browser.Driver for an editor page. The editor
// model lives in an embedded FakeGateway; clicks and selects are wired to
// model changes with OnClick, Checkbox, SelectBox and EditField.
type FakeDriver struct {
	// Model backs the get-model and undo scripts.
	Model *FakeGateway

	mu       sync.Mutex
	url      string
	calls    []string
	clicks   map[string]func(ctx context.Context) error
	evals    map[string]func(expr string) (any, error)
	attrs    map[string]string
	texts    map[string][]string
	selected map[string]string
	onSelect map[string]func(ctx context.Context, text string) error
	checked  map[string]bool
	active   string
	typed    string
	apply    func(ctx context.Context, text string) error
	closed   bool
}

func NewFakeDriver(model any) *FakeDriver {
	return &FakeDriver{
		Model:    NewFakeGateway(model),
		clicks:   map[string]func(context.Context) error{},
		evals:    map[string]func(string) (any, error){},
		attrs:    map[string]string{},
		texts:    map[string][]string{},
		selected: map[string]string{},
		onSelect: map[string]func(context.Context, string) error{},
		checked:  map[string]bool{},
	}
}

// OnClick runs fn whenever xpath is clicked.
func (d *FakeDriver) OnClick(xpath string, fn func(ctx context.Context) error) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicks[xpath] = fn
	return d
}

// OnEval answers the editor script named name with the value fn returns.
func (d *FakeDriver) OnEval(name string, fn func(expr string) (any, error)) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.evals[name] = fn
	return d
}

// SetAttribute sets the attribute name of the element at xpath.
func (d *FakeDriver) SetAttribute(xpath, name, value string) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attrs[xpath+"@"+name] = value
	return d
}

// SetTexts sets the texts returned for xpath.
func (d *FakeDriver) SetTexts(xpath string, texts ...string) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts[xpath] = texts
	return d
}

// Checkbox wires a checkbox at xpath to the boolean at p.
func (d *FakeDriver) Checkbox(xpath string, p snapshot.Path, checked bool) *FakeDriver {
	d.mu.Lock()
	d.checked[xpath] = checked
	d.mu.Unlock()
	return d.OnClick(xpath, func(ctx context.Context) error {
		d.mu.Lock()
		d.checked[xpath] = !d.checked[xpath]
		now := d.checked[xpath]
		d.mu.Unlock()
		return d.Model.Set(p, now)(ctx)
	})
}

// SelectBox wires a select element at xpath to the value at p.
func (d *FakeDriver) SelectBox(xpath string, p snapshot.Path, current string) *FakeDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected[xpath] = current
	d.onSelect[xpath] = func(ctx context.Context, text string) error {
		return d.Model.Set(p, text)(ctx)
	}
	return d
}

// EditField wires an edit dialog: editButton focuses an input holding
// current, applyButton stores the typed text at p.
func (d *FakeDriver) EditField(editButton, applyButton, current string, p snapshot.Path) *FakeDriver {
	return d.dialog(editButton, applyButton, current, func(ctx context.Context, text string) error {
		return d.Model.Set(p, text)(ctx)
	})
}

// EditKey wires an edit dialog that renames the key current of the mapping
// at parent.
func (d *FakeDriver) EditKey(editButton, applyButton, current string, parent snapshot.Path) *FakeDriver {
	return d.dialog(editButton, applyButton, current, func(ctx context.Context, text string) error {
		return d.Model.RenameKey(parent, current, text)(ctx)
	})
}

// dialog makes editButton arm applyButton with save. Dialogs share one
// apply button; the last opened dialog wins.
func (d *FakeDriver) dialog(editButton, applyButton, current string, save func(ctx context.Context, text string) error) *FakeDriver {
	d.OnClick(editButton, func(context.Context) error {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.active = current
		d.apply = save
		return nil
	})
	return d.OnClick(applyButton, func(ctx context.Context) error {
		d.mu.Lock()
		save, text := d.apply, d.typed
		d.apply = nil
		d.mu.Unlock()
		if save == nil {
			return fmt.Errorf("no dialog open")
		}
		return save(ctx, text)
	})
}

// Typed returns the text last filled into the focused input.
func (d *FakeDriver) Typed() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.typed
}

// Calls lists the driver calls in order, as "<method> <target>".
func (d *FakeDriver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// URL returns the last navigated URL.
func (d *FakeDriver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *FakeDriver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *FakeDriver) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

func (d *FakeDriver) Navigate(ctx context.Context, url string) error {
	d.record("navigate " + url)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
	return nil
}

// Wait succeeds for any xpath the driver was told about.
func (d *FakeDriver) Wait(ctx context.Context, xpath string) error {
	d.record("wait " + xpath)
	d.mu.Lock()
	defer d.mu.Unlock()
	_, text := d.texts[xpath]
	_, click := d.clicks[xpath]
	_, sel := d.selected[xpath]
	_, check := d.checked[xpath]
	if text || click || sel || check {
		return nil
	}
	for key := range d.attrs {
		if strings.HasPrefix(key, xpath+"@") {
			return nil
		}
	}
	return fmt.Errorf("element %s not found", xpath)
}

var typedText = regexp.MustCompile(`var text = ("(?:[^"\\]|\\.)*");`)

func (d *FakeDriver) Eval(ctx context.Context, expr string, out any) error {
	name := editor.ScriptName(expr)
	d.record("eval " + name)

	d.mu.Lock()
	handler := d.evals[name]
	d.mu.Unlock()

	var (
		value any
		err   error
	)
	switch {
	case handler != nil:
		value, err = handler(expr)
	case name == editor.ScriptReady:
		value = map[string]any{"status": "Success"}
	case name == editor.ScriptGetModel:
		var s snapshot.Snapshot
		if s, err = d.Model.FetchSnapshot(ctx); err == nil {
			value = map[string]any{"status": "Success_toJSON", "data": s}
		}
	case name == editor.ScriptUndo:
		if err = d.Model.Undo()(ctx); err == nil {
			value = map[string]any{"status": "Success"}
		}
	case name == editor.ScriptActiveValue:
		d.mu.Lock()
		value = map[string]any{"status": "Success", "value": d.active}
		d.mu.Unlock()
	case name == editor.ScriptFillActive:
		m := typedText.FindStringSubmatch(expr)
		if m == nil {
			return fmt.Errorf("fill script without text")
		}
		var text string
		if err = json.Unmarshal([]byte(m[1]), &text); err == nil {
			d.mu.Lock()
			d.typed, d.active = text, text
			d.mu.Unlock()
			value = map[string]any{"status": "Success", "value": text}
		}
	default:
		value = map[string]any{"status": editor.StatusJSError, "message": "script " + name + " is not scripted"}
	}
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (d *FakeDriver) Click(ctx context.Context, xpath string) error {
	d.record("click " + xpath)
	d.mu.Lock()
	fn := d.clicks[xpath]
	d.mu.Unlock()
	if fn == nil {
		return fmt.Errorf("element %s not found", xpath)
	}
	return fn(ctx)
}

func (d *FakeDriver) Fill(ctx context.Context, xpath, text string) error {
	d.record("fill " + xpath)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.typed = text
	return nil
}

func (d *FakeDriver) SelectOption(ctx context.Context, xpath, text string) error {
	d.record("select " + xpath + "=" + text)
	d.mu.Lock()
	fn, ok := d.onSelect[xpath]
	if ok {
		d.selected[xpath] = text
	}
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("element %s not found", xpath)
	}
	return fn(ctx, text)
}

func (d *FakeDriver) SelectedOption(ctx context.Context, xpath string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.selected[xpath]
	if !ok {
		return "", fmt.Errorf("element %s not found", xpath)
	}
	return v, nil
}

func (d *FakeDriver) Checked(ctx context.Context, xpath string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.checked[xpath]
	if !ok {
		return false, fmt.Errorf("element %s not found", xpath)
	}
	return v, nil
}

func (d *FakeDriver) Attribute(ctx context.Context, xpath, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.attrs[xpath+"@"+name]
	return v, ok, nil
}

func (d *FakeDriver) Text(ctx context.Context, xpath string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	texts, ok := d.texts[xpath]
	if !ok || len(texts) == 0 {
		return "", fmt.Errorf("element %s not found", xpath)
	}
	return texts[0], nil
}

func (d *FakeDriver) Texts(ctx context.Context, xpath string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string{}, d.texts[xpath]...), nil
}

func (d *FakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

var _ browser.Driver = (*FakeDriver)(nil)
