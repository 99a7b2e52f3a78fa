package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	DriverRod      = "rod"
	DriverChromeDP = "chromedp"
)

// Driver is the browser automation surface used by the editor gateway.
// Element methods take an XPath and wait up to the configured timeout for
// the element to appear.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// Wait blocks until an element matches xpath.
	Wait(ctx context.Context, xpath string) error
	// Eval evaluates a JavaScript expression in the page and decodes its
	// JSON value into out. A nil out discards the value.
	Eval(ctx context.Context, expr string, out any) error
	Click(ctx context.Context, xpath string) error
	// Fill replaces the content of an input or textarea.
	Fill(ctx context.Context, xpath, text string) error
	// SelectOption picks the option of a select element by its visible text.
	SelectOption(ctx context.Context, xpath, text string) error
	SelectedOption(ctx context.Context, xpath string) (string, error)
	Checked(ctx context.Context, xpath string) (bool, error)
	// Attribute returns the attribute value and whether it is set.
	Attribute(ctx context.Context, xpath, name string) (string, bool, error)
	Text(ctx context.Context, xpath string) (string, error)
	// Texts returns the trimmed text of every element matching xpath, in
	// document order. It does not wait; no match yields an empty slice.
	Texts(ctx context.Context, xpath string) ([]string, error)
	Close() error
}

// Options configures a browser session.
type Options struct {
	Driver string
	// RemoteURL is the DevTools websocket URL of a running Chrome. Empty
	// launches a local one.
	RemoteURL string
	ExecPath  string
	Headless  bool
	Width     int
	Height    int
	Timeout   time.Duration
}

// New starts a browser session with the implementation named by
// opts.Driver.
func New(ctx context.Context, opts Options) (Driver, error) {
	opts = opts.withDefaults()
	switch opts.Driver {
	case DriverRod, "":
		return NewRodDriver(ctx, opts)
	case DriverChromeDP:
		return NewChromeDPDriver(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown browser driver %q", opts.Driver)
	}
}

// xpathNode is a JavaScript expression yielding the first node matching
// xpath, or null.
func xpathNode(xpath string) string {
	return fmt.Sprintf("document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue", jsString(xpath))
}

func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

const defaultTimeout = 10 * time.Second

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}
