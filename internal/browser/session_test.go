package browser_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"postforge/internal/browser"
	"postforge/internal/services"
)

// fakePage scripts page behavior for the state machine tests.
type fakePage struct {
	visible map[string]bool
	exists  map[string]bool
	url      string
	href     string
	navStall bool

	onClick  func(selector string)
	clicks   []string
	filled   map[string]string
	inserted map[string]string
	files    []string
	closes   int
}

func newFakePage() *fakePage {
	return &fakePage{
		visible:  make(map[string]bool),
		exists:   make(map[string]bool),
		filled:   make(map[string]string),
		inserted: make(map[string]string),
		url:      "https://www.linkedin.com/feed/",
	}
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	if f.navStall {
		<-ctx.Done()
		return ctx.Err()
	}
	f.url = url
	return nil
}

func (f *fakePage) CurrentURL(context.Context) (string, error) {
	return f.url, nil
}

func (f *fakePage) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	if f.visible[selector] {
		return nil
	}
	return errors.New("selector not visible: " + selector)
}

func (f *fakePage) Exists(_ context.Context, selector string) (bool, error) {
	return f.exists[selector], nil
}

func (f *fakePage) Click(_ context.Context, selector string) error {
	f.clicks = append(f.clicks, selector)
	if f.onClick != nil {
		f.onClick(selector)
	}
	return nil
}

func (f *fakePage) Fill(_ context.Context, selector, value string) error {
	f.filled[selector] = value
	return nil
}

func (f *fakePage) InsertText(_ context.Context, selector, text string) error {
	f.inserted[selector] = text
	return nil
}

func (f *fakePage) SetFiles(_ context.Context, _ string, path string) error {
	f.files = append(f.files, path)
	return nil
}

func (f *fakePage) FirstHref(context.Context, string) (string, bool, error) {
	if f.href == "" {
		return "", false, nil
	}
	return f.href, true, nil
}

func (f *fakePage) Close() error {
	f.closes++
	return nil
}

func sessionConfig() browser.Config {
	return browser.Config{
		Credentials:     browser.Credentials{Email: "user@example.com", Password: "secret"},
		LoginTimeout:    time.Second,
		SelectorTimeout: time.Second,
		ChallengeWait:   10 * time.Millisecond,
	}
}

func markLoggedIn(f *fakePage) {
	f.exists[`[data-test-id="nav-profile-image"]`] = true
	f.visible["button.share-box-feed-entry__trigger"] = true
	f.visible[".ql-editor"] = true
	f.visible["button.share-actions__primary-action"] = true
	f.visible[`[data-test-id="share-success-banner"]`] = true
}

func TestPublishWithMediaHappyPath(t *testing.T) {
	fake := newFakePage()
	markLoggedIn(fake)
	fake.exists[`input[type="file"]`] = true
	fake.href = "/feed/update/urn:li:activity:7123456789012/"

	session := browser.NewSession(fake, sessionConfig(), nil)
	result := session.Publish(context.Background(), "post body", "/tmp/post-image.png")

	if !result.Success {
		t.Fatalf("expected success, got error %v", result.Err)
	}
	if !result.MediaAttached {
		t.Fatal("expected media to be attached")
	}
	if result.ExternalID != "7123456789012" {
		t.Fatalf("unexpected external id %q", result.ExternalID)
	}
	if !strings.HasPrefix(result.PublishedURL, "https://www.linkedin.com/feed/update/") {
		t.Fatalf("unexpected published url %q", result.PublishedURL)
	}
	if got := fake.inserted[".ql-editor"]; got != "post body" {
		t.Fatalf("unexpected editor content %q", got)
	}
	if len(fake.files) != 1 || fake.files[0] != "/tmp/post-image.png" {
		t.Fatalf("unexpected uploaded files %v", fake.files)
	}
	if session.State() != browser.StateClosed {
		t.Fatalf("expected closed session, state %s", session.State())
	}
	if fake.closes != 1 {
		t.Fatalf("expected exactly one close, got %d", fake.closes)
	}
}

func TestPublishLogsInWhenLoggedOut(t *testing.T) {
	fake := newFakePage()
	fake.visible["#username"] = true
	fake.visible["button.share-box-feed-entry__trigger"] = true
	fake.visible[".ql-editor"] = true
	fake.visible["button.share-actions__primary-action"] = true
	fake.visible[`[data-test-id="share-success-banner"]`] = true
	fake.onClick = func(selector string) {
		if selector == `button[type="submit"]` {
			fake.visible[`[data-test-id="nav-profile-image"]`] = true
		}
	}

	session := browser.NewSession(fake, sessionConfig(), nil)
	result := session.Publish(context.Background(), "post body", "")

	if !result.Success {
		t.Fatalf("expected success, got error %v", result.Err)
	}
	if fake.filled["#username"] != "user@example.com" || fake.filled["#password"] != "secret" {
		t.Fatalf("credentials not entered: %v", fake.filled)
	}
	if result.MediaAttached {
		t.Fatal("text-only publish must not report media")
	}
}

func TestPublishSelectorDriftFailsAndCloses(t *testing.T) {
	fake := newFakePage()
	fake.exists[`[data-test-id="nav-profile-image"]`] = true
	// Composer trigger never appears, in either variant.

	session := browser.NewSession(fake, sessionConfig(), nil)
	result := session.Publish(context.Background(), "post body", "")

	if result.Success {
		t.Fatal("expected failure")
	}
	if !errors.Is(result.Err, services.ErrSelectorDrift) {
		t.Fatalf("expected selector drift error, got %v", result.Err)
	}
	history := session.History()
	sawFailed := false
	for _, state := range history {
		if state == browser.StateFailed {
			sawFailed = true
		}
	}
	if !sawFailed {
		t.Fatalf("expected StateFailed in history %v", history)
	}
	if history[len(history)-1] != browser.StateClosed {
		t.Fatalf("expected session to end closed, history %v", history)
	}
	if fake.closes != 1 {
		t.Fatalf("expected exactly one close, got %d", fake.closes)
	}
}

func TestPublishUnresolvedChallengeFails(t *testing.T) {
	fake := newFakePage()
	fake.visible["#username"] = true
	fake.onClick = func(selector string) {
		if selector == `button[type="submit"]` {
			fake.url = "https://www.linkedin.com/checkpoint/challenge/xyz"
		}
	}

	session := browser.NewSession(fake, sessionConfig(), nil)
	result := session.Publish(context.Background(), "post body", "")

	if result.Success {
		t.Fatal("expected failure")
	}
	if !errors.Is(result.Err, services.ErrAuthChallenge) {
		t.Fatalf("expected auth challenge error, got %v", result.Err)
	}
}

func TestPublishDowngradesToTextOnMediaFailure(t *testing.T) {
	fake := newFakePage()
	markLoggedIn(fake)
	// No file input and no media button: attach cannot succeed.

	session := browser.NewSession(fake, sessionConfig(), nil)
	result := session.Publish(context.Background(), "post body", "/tmp/post-image.png")

	if !result.Success {
		t.Fatalf("expected text-only success, got error %v", result.Err)
	}
	if result.MediaAttached {
		t.Fatal("expected media downgrade")
	}
	if len(fake.files) != 0 {
		t.Fatalf("no files should be uploaded, got %v", fake.files)
	}
}

func TestPublishMissingBannerRecoversViaPostLink(t *testing.T) {
	fake := newFakePage()
	markLoggedIn(fake)
	delete(fake.visible, `[data-test-id="share-success-banner"]`)
	fake.href = "/feed/update/urn:li:activity:7000000000001/"

	session := browser.NewSession(fake, sessionConfig(), nil)
	result := session.Publish(context.Background(), "post body", "")

	if !result.Success {
		t.Fatalf("expected success via link recovery, got error %v", result.Err)
	}
	if result.ExternalID != "7000000000001" {
		t.Fatalf("unexpected external id %q", result.ExternalID)
	}
}

func TestPublishMissingBannerAndLinkFails(t *testing.T) {
	fake := newFakePage()
	markLoggedIn(fake)
	delete(fake.visible, `[data-test-id="share-success-banner"]`)

	session := browser.NewSession(fake, sessionConfig(), nil)
	result := session.Publish(context.Background(), "post body", "")

	if result.Success {
		t.Fatal("expected failure without banner or post link")
	}
	if !errors.Is(result.Err, services.ErrSelectorDrift) {
		t.Fatalf("expected selector drift error, got %v", result.Err)
	}
}

func TestPublishStalledNavigationFailsWithinBound(t *testing.T) {
	fake := newFakePage()
	fake.navStall = true

	cfg := sessionConfig()
	cfg.NavigationTimeout = 25 * time.Millisecond
	session := browser.NewSession(fake, cfg, nil)

	start := time.Now()
	result := session.Publish(context.Background(), "post body", "")

	if result.Success {
		t.Fatal("expected failure when the page never loads")
	}
	if !errors.Is(result.Err, services.ErrNavigationTimeout) {
		t.Fatalf("expected navigation timeout error, got %v", result.Err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("publish ran %v, expected the navigation timeout to cut it short", elapsed)
	}
}

func TestPublishRejectsEmptyContent(t *testing.T) {
	fake := newFakePage()
	session := browser.NewSession(fake, sessionConfig(), nil)
	result := session.Publish(context.Background(), "   ", "")
	if result.Success {
		t.Fatal("expected failure for empty content")
	}
	if !errors.Is(result.Err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", result.Err)
	}
}

func TestMissingCredentialsIsConfigurationError(t *testing.T) {
	fake := newFakePage()
	fake.visible["#username"] = true
	cfg := sessionConfig()
	cfg.Credentials = browser.Credentials{}

	session := browser.NewSession(fake, cfg, nil)
	result := session.Publish(context.Background(), "post body", "")
	if !errors.Is(result.Err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", result.Err)
	}
}
