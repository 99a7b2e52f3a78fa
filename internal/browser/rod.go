package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RodDriver drives Chrome through go-rod.
type RodDriver struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	timeout  time.Duration
}

func NewRodDriver(ctx context.Context, opts Options) (*RodDriver, error) {
	log := zap.S().Named("browser")

	opts = opts.withDefaults()
	d := &RodDriver{timeout: opts.Timeout}

	wsURL := opts.RemoteURL
	if wsURL == "" {
		l := launcher.New().Context(ctx).Headless(opts.Headless)
		if opts.ExecPath != "" {
			l = l.Bin(opts.ExecPath)
		}
		if opts.Width > 0 && opts.Height > 0 {
			l = l.Set("window-size", fmt.Sprintf("%d,%d", opts.Width, opts.Height))
		}
		l = l.Set("disable-dev-shm-usage")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		d.launcher = l
		log.Infow("launched local chrome", "url", wsURL, "headless", opts.Headless)
	} else {
		log.Infow("connecting to remote chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		d.cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	d.browser = b

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("browser: open page: %w", err)
	}
	d.page = page

	if opts.Width > 0 && opts.Height > 0 {
		err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: opts.Width, Height: opts.Height})
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("browser: set viewport: %w", err)
		}
	}

	return d, nil
}

// scoped returns the page bound to ctx and the driver timeout. The
// returned cancel releases the timer and must be called once the call
// is done with the page or any element found through it.
func (d *RodDriver) scoped(ctx context.Context) (*rod.Page, context.CancelFunc) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	return d.page.Context(callCtx), cancel
}

func (d *RodDriver) element(ctx context.Context, xpath string) (*rod.Element, context.CancelFunc, error) {
	p, cancel := d.scoped(ctx)
	el, err := p.ElementX(xpath)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("element %s: %w", xpath, err)
	}
	return el, cancel, nil
}

func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	p, cancel := d.scoped(ctx)
	defer cancel()
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("navigate %s: wait load: %w", url, err)
	}
	return nil
}

func (d *RodDriver) Eval(ctx context.Context, expr string, out any) error {
	p, cancel := d.scoped(ctx)
	defer cancel()
	res, err := p.Eval("() => (" + expr + ")")
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	if out == nil {
		return nil
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("eval: encode result: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("eval: decode result: %w", err)
	}
	return nil
}

func (d *RodDriver) Click(ctx context.Context, xpath string) error {
	el, cancel, err := d.element(ctx, xpath)
	if err != nil {
		return err
	}
	defer cancel()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", xpath, err)
	}
	return nil
}

func (d *RodDriver) Fill(ctx context.Context, xpath, text string) error {
	el, cancel, err := d.element(ctx, xpath)
	if err != nil {
		return err
	}
	defer cancel()
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("fill %s: select text: %w", xpath, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("fill %s: %w", xpath, err)
	}
	return nil
}

func (d *RodDriver) SelectOption(ctx context.Context, xpath, text string) error {
	el, cancel, err := d.element(ctx, xpath)
	if err != nil {
		return err
	}
	defer cancel()
	if err := el.Select([]string{text}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("select %q in %s: %w", text, xpath, err)
	}
	return nil
}

func (d *RodDriver) SelectedOption(ctx context.Context, xpath string) (string, error) {
	el, cancel, err := d.element(ctx, xpath)
	if err != nil {
		return "", err
	}
	defer cancel()
	res, err := el.Eval(`() => this.selectedIndex < 0 ? "" : this.options[this.selectedIndex].text`)
	if err != nil {
		return "", fmt.Errorf("selected option %s: %w", xpath, err)
	}
	return res.Value.Str(), nil
}

func (d *RodDriver) Checked(ctx context.Context, xpath string) (bool, error) {
	el, cancel, err := d.element(ctx, xpath)
	if err != nil {
		return false, err
	}
	defer cancel()
	prop, err := el.Property("checked")
	if err != nil {
		return false, fmt.Errorf("checked %s: %w", xpath, err)
	}
	return prop.Bool(), nil
}

func (d *RodDriver) Attribute(ctx context.Context, xpath, name string) (string, bool, error) {
	el, cancel, err := d.element(ctx, xpath)
	if err != nil {
		return "", false, err
	}
	defer cancel()
	v, err := el.Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("attribute %s of %s: %w", name, xpath, err)
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (d *RodDriver) Wait(ctx context.Context, xpath string) error {
	_, cancel, err := d.element(ctx, xpath)
	if err != nil {
		return err
	}
	cancel()
	return nil
}

func (d *RodDriver) Text(ctx context.Context, xpath string) (string, error) {
	el, cancel, err := d.element(ctx, xpath)
	if err != nil {
		return "", err
	}
	defer cancel()
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("text %s: %w", xpath, err)
	}
	return text, nil
}

func (d *RodDriver) Texts(ctx context.Context, xpath string) ([]string, error) {
	p, cancel := d.scoped(ctx)
	defer cancel()
	els, err := p.ElementsX(xpath)
	if err != nil {
		return nil, fmt.Errorf("elements %s: %w", xpath, err)
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, fmt.Errorf("text %s: %w", xpath, err)
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	return texts, nil
}

func (d *RodDriver) Close() error {
	var err error
	if d.page != nil {
		_ = d.page.Close()
	}
	if d.browser != nil {
		err = d.browser.Close()
	}
	d.cleanup()
	return err
}

func (d *RodDriver) cleanup() {
	if d.launcher != nil {
		d.launcher.Cleanup()
		d.launcher = nil
	}
}

var _ Driver = (*RodDriver)(nil)
