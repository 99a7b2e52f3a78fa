package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeDPDriver drives Chrome through chromedp. XPath selectors are
// resolved with chromedp.BySearch.
type ChromeDPDriver struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
}

func NewChromeDPDriver(ctx context.Context, opts Options) (*ChromeDPDriver, error) {
	log := zap.S().Named("browser")
	opts = opts.withDefaults()

	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if opts.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
		log.Infow("connecting to remote chrome", "url", opts.RemoteURL)
	} else {
		execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		if opts.Width > 0 && opts.Height > 0 {
			execOpts = append(execOpts, chromedp.WindowSize(opts.Width, opts.Height))
		}
		if opts.ExecPath != "" {
			execOpts = append(execOpts, chromedp.ExecPath(opts.ExecPath))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), execOpts...)
		log.Infow("launching local chrome", "headless", opts.Headless)
	}

	bctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debugf))
	d := &ChromeDPDriver{ctx: bctx, cancel: cancel, allocCancel: allocCancel, timeout: opts.Timeout}

	// The first Run binds the browser to its context, so it runs on bctx
	// itself. Start-up is bounded by closing the driver instead.
	timer := time.AfterFunc(d.timeout, d.cancel)
	stop := context.AfterFunc(ctx, d.cancel)
	err := chromedp.Run(bctx)
	interrupted := !stop()
	timedOut := !timer.Stop()
	switch {
	case timedOut:
		err = fmt.Errorf("timed out after %s", d.timeout)
	case interrupted:
		err = context.Cause(ctx)
	}
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("browser: start: %w", err)
	}
	return d, nil
}

// runContext derives a per-call context from the browser context, bounded
// by the timeout and cancelled together with ctx.
func (d *ChromeDPDriver) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(d.ctx, d.timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (d *ChromeDPDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := d.runContext(ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (d *ChromeDPDriver) Navigate(ctx context.Context, url string) error {
	if err := d.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (d *ChromeDPDriver) Eval(ctx context.Context, expr string, out any) error {
	var raw json.RawMessage
	if err := d.run(ctx, chromedp.Evaluate(expr, &raw)); err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("eval: decode result: %w", err)
	}
	return nil
}

func (d *ChromeDPDriver) Click(ctx context.Context, xpath string) error {
	err := d.run(ctx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Click(xpath, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("click %s: %w", xpath, err)
	}
	return nil
}

func (d *ChromeDPDriver) Fill(ctx context.Context, xpath, text string) error {
	err := d.run(ctx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Clear(xpath, chromedp.BySearch),
		chromedp.SendKeys(xpath, text, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("fill %s: %w", xpath, err)
	}
	return nil
}

func (d *ChromeDPDriver) SelectOption(ctx context.Context, xpath, text string) error {
	script := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el || !el.options) { return false; }
		const opt = Array.from(el.options).find(o => o.text.trim() === %s);
		if (!opt) { return false; }
		el.value = opt.value;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;
	})()`, xpathNode(xpath), jsString(text))

	var ok bool
	err := d.run(ctx,
		chromedp.WaitVisible(xpath, chromedp.BySearch),
		chromedp.Evaluate(script, &ok),
	)
	if err != nil {
		return fmt.Errorf("select %q in %s: %w", text, xpath, err)
	}
	if !ok {
		return fmt.Errorf("select %q in %s: no such option", text, xpath)
	}
	return nil
}

func (d *ChromeDPDriver) SelectedOption(ctx context.Context, xpath string) (string, error) {
	script := fmt.Sprintf(`(() => {
		const el = %s;
		return el && el.selectedIndex >= 0 ? el.options[el.selectedIndex].text : "";
	})()`, xpathNode(xpath))

	var text string
	err := d.run(ctx,
		chromedp.WaitReady(xpath, chromedp.BySearch),
		chromedp.Evaluate(script, &text),
	)
	if err != nil {
		return "", fmt.Errorf("selected option %s: %w", xpath, err)
	}
	return text, nil
}

func (d *ChromeDPDriver) Checked(ctx context.Context, xpath string) (bool, error) {
	var checked bool
	err := d.run(ctx,
		chromedp.WaitReady(xpath, chromedp.BySearch),
		chromedp.JavascriptAttribute(xpath, "checked", &checked, chromedp.BySearch),
	)
	if err != nil {
		return false, fmt.Errorf("checked %s: %w", xpath, err)
	}
	return checked, nil
}

func (d *ChromeDPDriver) Attribute(ctx context.Context, xpath, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := d.run(ctx,
		chromedp.WaitReady(xpath, chromedp.BySearch),
		chromedp.AttributeValue(xpath, name, &value, &ok, chromedp.BySearch),
	)
	if err != nil {
		return "", false, fmt.Errorf("attribute %s of %s: %w", name, xpath, err)
	}
	return value, ok, nil
}

func (d *ChromeDPDriver) Wait(ctx context.Context, xpath string) error {
	if err := d.run(ctx, chromedp.WaitReady(xpath, chromedp.BySearch)); err != nil {
		return fmt.Errorf("wait %s: %w", xpath, err)
	}
	return nil
}

func (d *ChromeDPDriver) Text(ctx context.Context, xpath string) (string, error) {
	var text string
	err := d.run(ctx,
		chromedp.WaitReady(xpath, chromedp.BySearch),
		chromedp.Text(xpath, &text, chromedp.BySearch),
	)
	if err != nil {
		return "", fmt.Errorf("text %s: %w", xpath, err)
	}
	return text, nil
}

func (d *ChromeDPDriver) Texts(ctx context.Context, xpath string) ([]string, error) {
	script := fmt.Sprintf(`(() => {
		const res = document.evaluate(%s, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		const out = [];
		for (let i = 0; i < res.snapshotLength; i++) {
			out.push(res.snapshotItem(i).textContent.trim());
		}
		return out;
	})()`, jsString(xpath))

	var texts []string
	err := d.run(ctx, chromedp.Evaluate(script, &texts))
	if err != nil {
		return nil, fmt.Errorf("texts %s: %w", xpath, err)
	}
	return texts, nil
}

func (d *ChromeDPDriver) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	if d.allocCancel != nil {
		d.allocCancel()
	}
	return nil
}

var _ Driver = (*ChromeDPDriver)(nil)
