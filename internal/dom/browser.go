package dom

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/visitor-counter/internal/counter"
)

// BrowserOptions configures the Chrome instance behind a BrowserTarget.
type BrowserOptions struct {
	Headless bool
}

// BrowserTarget writes the count into a live page loaded in Chrome.
type BrowserTarget struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	elementID   string
}

// OpenPage navigates a new browser tab to pageURL and returns once the page
// has fired DOMContentLoaded. Close must be called to release the browser.
func OpenPage(ctx context.Context, pageURL, elementID string, opts BrowserOptions) (*BrowserTarget, error) {
	if elementID == "" {
		elementID = counter.DefaultElementID
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	bt := &BrowserTarget{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel, elementID: elementID}

	domReady := make(chan struct{})
	fired := false
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if _, ok := ev.(*page.EventDomContentEventFired); ok && !fired {
			fired = true
			close(domReady)
		}
	})

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(tabCtx, page.Enable(), chromedp.Navigate(pageURL)); err != nil {
		bt.Close()
		return nil, fmt.Errorf("open page %s: %w", pageURL, err)
	}

	select {
	case <-domReady:
	case <-tabCtx.Done():
		bt.Close()
		return nil, fmt.Errorf("wait for DOMContentLoaded: %w", tabCtx.Err())
	}
	return bt, nil
}

// SetDisplayText sets textContent of the element with the configured id.
func (b *BrowserTarget) SetDisplayText(ctx context.Context, text string) error {
	id, _ := json.Marshal(b.elementID)
	value, _ := json.Marshal(text)
	expr := fmt.Sprintf(`(() => {
	const el = document.getElementById(%s);
	if (!el) { return false; }
	el.textContent = %s;
	return true;
})()`, id, value)

	stop := context.AfterFunc(ctx, b.cancel)
	defer stop()

	var found bool
	if err := chromedp.Run(b.ctx, chromedp.Evaluate(expr, &found)); err != nil {
		return fmt.Errorf("set element text: %w", err)
	}
	if !found {
		return counter.ErrTargetNotFound
	}
	return nil
}

// Text returns the element's textContent and whether the element exists.
func (b *BrowserTarget) Text(ctx context.Context) (string, bool, error) {
	id, _ := json.Marshal(b.elementID)
	expr := fmt.Sprintf(`(() => {
	const el = document.getElementById(%s);
	return el ? { found: true, text: el.textContent } : { found: false, text: "" };
})()`, id)

	stop := context.AfterFunc(ctx, b.cancel)
	defer stop()

	var res struct {
		Found bool   `json:"found"`
		Text  string `json:"text"`
	}
	if err := chromedp.Run(b.ctx, chromedp.Evaluate(expr, &res)); err != nil {
		return "", false, fmt.Errorf("read element text: %w", err)
	}
	return res.Text, res.Found, nil
}

// Close shuts the tab and the browser process.
func (b *BrowserTarget) Close() error {
	b.cancel()
	b.allocCancel()
	return nil
}
