package browser

import (
	"context"
	"time"
)

// PageOps abstracts the browser page so the publish state machine can be
// driven against a fake in tests. The rod implementation lives in rod.go.
type PageOps interface {
	// Navigate loads the URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error
	// CurrentURL returns the page URL after any redirects.
	CurrentURL(ctx context.Context) (string, error)
	// WaitVisible blocks until the selector is visible or the timeout
	// elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Exists reports whether the selector matches without waiting.
	Exists(ctx context.Context, selector string) (bool, error)
	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error
	// Fill replaces the value of an input element.
	Fill(ctx context.Context, selector, value string) error
	// InsertText types into a focused rich-text editor.
	InsertText(ctx context.Context, selector, text string) error
	// SetFiles attaches a local file to a file input without opening an OS
	// dialog.
	SetFiles(ctx context.Context, selector, path string) error
	// FirstHref returns the href of the first element matching the
	// selector, with ok=false when nothing matches.
	FirstHref(ctx context.Context, selector string) (href string, ok bool, err error)
	// Close tears the page and browser down. Safe to call more than once.
	Close() error
}
