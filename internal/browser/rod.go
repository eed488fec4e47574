package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const pageStableDur = 500 * time.Millisecond

// LaunchOptions control the Chromium process behind a session.
type LaunchOptions struct {
	Headless bool
	// BinPath points at a specific Chrome/Chromium binary; empty lets the
	// launcher find or download one.
	BinPath string
	// SlowMotion inserts a delay before every browser action, which makes
	// the automation less bursty and easier to watch in headful mode.
	SlowMotion time.Duration
	// NavigationTimeout caps page loads and element lookups. Rod waits
	// indefinitely for both when the context carries no deadline, so every
	// call below runs under this cap.
	NavigationTimeout time.Duration
}

type rodPage struct {
	browser    *rod.Browser
	page       *rod.Page
	navTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// Launch starts a Chromium process and opens a stealth page on it.
func Launch(opts LaunchOptions) (PageOps, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")
	if opts.BinPath != "" {
		l = l.Bin(opts.BinPath)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if opts.SlowMotion > 0 {
		browser = browser.SlowMotion(opts.SlowMotion)
	}
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	navTimeout := opts.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 30 * time.Second
	}
	return &rodPage{browser: browser, page: page, navTimeout: navTimeout}, nil
}

// bounded returns the page scoped to ctx and capped at the navigation
// timeout.
func (r *rodPage) bounded(ctx context.Context) *rod.Page {
	return r.page.Context(ctx).Timeout(r.navTimeout)
}

func (r *rodPage) Navigate(ctx context.Context, url string) error {
	page := r.bounded(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	// Let client-side rendering settle before selectors are queried.
	_ = page.WaitStable(pageStableDur)
	return nil
}

func (r *rodPage) CurrentURL(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

func (r *rodPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	page := r.page.Context(ctx).Timeout(timeout)
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("find %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible %s: %w", selector, err)
	}
	return nil
}

func (r *rodPage) Exists(ctx context.Context, selector string) (bool, error) {
	has, _, err := r.page.Context(ctx).Has(selector)
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", selector, err)
	}
	return has, nil
}

func (r *rodPage) Click(ctx context.Context, selector string) error {
	el, err := r.bounded(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("find %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (r *rodPage) Fill(ctx context.Context, selector, value string) error {
	el, err := r.bounded(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("find %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text %s: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

func (r *rodPage) InsertText(ctx context.Context, selector, text string) error {
	el, err := r.bounded(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("find %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("focus %s: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("type into %s: %w", selector, err)
	}
	return nil
}

func (r *rodPage) SetFiles(ctx context.Context, selector, path string) error {
	el, err := r.bounded(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("find %s: %w", selector, err)
	}
	if err := el.SetFiles([]string{path}); err != nil {
		return fmt.Errorf("set files on %s: %w", selector, err)
	}
	return nil
}

func (r *rodPage) FirstHref(ctx context.Context, selector string) (string, bool, error) {
	has, el, err := r.page.Context(ctx).Has(selector)
	if err != nil {
		return "", false, fmt.Errorf("probe %s: %w", selector, err)
	}
	if !has {
		return "", false, nil
	}
	attr, err := el.Attribute("href")
	if err != nil {
		return "", false, fmt.Errorf("read href of %s: %w", selector, err)
	}
	if attr == nil {
		return "", false, nil
	}
	return *attr, true, nil
}

func (r *rodPage) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	_ = r.page.Close()
	return r.browser.Close()
}
