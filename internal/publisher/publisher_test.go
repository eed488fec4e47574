package publisher

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"postforge/internal/audit"
	"postforge/internal/browser"
	"postforge/internal/ledger"
	"postforge/internal/logging"
	"postforge/internal/poststore"
	"postforge/internal/services"
)

type fakeDriver struct {
	result    browser.Result
	published []string
}

func (d *fakeDriver) Publish(_ context.Context, content, _ string) browser.Result {
	d.published = append(d.published, content)
	return d.result
}

// recordingNotifier captures pushed alerts instead of hitting ntfy.
type recordingNotifier struct {
	publishedURLs []string
	failedUnits   []string
}

func (n *recordingNotifier) NotifyPostPublished(_ context.Context, _, publishedURL string, _ bool) error {
	n.publishedURLs = append(n.publishedURLs, publishedURL)
	return nil
}

func (n *recordingNotifier) NotifyPublishFailed(_ context.Context, unitID string, _ error) error {
	n.failedUnits = append(n.failedUnits, unitID)
	return nil
}

func (n *recordingNotifier) NotifyDailyReport(context.Context, int, int) error { return nil }
func (n *recordingNotifier) NotifyError(context.Context, error, string) error  { return nil }
func (n *recordingNotifier) TestNotification(context.Context) error            { return nil }

type env struct {
	dir      string
	store    *poststore.Store
	ledger   *ledger.Ledger
	audit    *audit.Log
	driver   *fakeDriver
	notifier *recordingNotifier
	pub      *Publisher
	now      time.Time
}

func newEnv(t *testing.T, cfg Config) *env {
	t.Helper()
	dir := t.TempDir()
	logger := logging.NewNop()
	now := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	clock := now
	store := poststore.NewStore(filepath.Join(dir, "posts"), logger, poststore.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	e := &env{
		dir:      dir,
		store:    store,
		ledger:   ledger.Open(filepath.Join(dir, "published-posts.json"), logger),
		audit:    audit.Open(filepath.Join(dir, "posts.json"), logger),
		driver:   &fakeDriver{result: browser.Result{Success: true, PublishedURL: "https://www.linkedin.com/feed/update/urn:li:activity:7001/", ExternalID: "7001"}},
		notifier: &recordingNotifier{},
		now:      now,
	}
	e.pub = e.newPublisher(cfg, logger)
	return e
}

func (e *env) newPublisher(cfg Config, logger *slog.Logger) *Publisher {
	factory := func(context.Context) (Driver, error) { return e.driver, nil }
	return New(e.store, e.ledger, e.audit, e.notifier, factory, cfg, logger,
		WithClock(func() time.Time { return e.now }),
		WithRand(rand.New(rand.NewSource(1))))
}

func TestPublishNextSuccess(t *testing.T) {
	e := newEnv(t, Config{})
	unit, err := e.store.CreateUnit("First post #AI", "AI Infrastructure")
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}

	outcome, err := e.pub.PublishNext(context.Background())
	if err != nil {
		t.Fatalf("PublishNext: %v", err)
	}
	if !outcome.Published {
		t.Fatalf("expected published outcome, got skip %q", outcome.SkipReason)
	}
	if outcome.Unit.ID != unit.ID {
		t.Fatalf("published unit %q, want %q", outcome.Unit.ID, unit.ID)
	}
	if !e.ledger.IsPublished(unit.ID) {
		t.Fatal("unit not recorded in ledger")
	}
	records := e.audit.Records()
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(records))
	}
	if records[0].Status != audit.StatusPosted {
		t.Fatalf("audit status = %q, want %q", records[0].Status, audit.StatusPosted)
	}
	if records[0].PublishedURL == "" {
		t.Fatal("audit record missing published URL")
	}
}

func TestPublishNextSkipsAlreadyPublishedAfterReopen(t *testing.T) {
	e := newEnv(t, Config{})
	if _, err := e.store.CreateUnit("Only post", "Cloud"); err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	if _, err := e.pub.PublishNext(context.Background()); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	// Simulate a process restart: reload the ledger from disk.
	e.ledger = ledger.Open(filepath.Join(e.dir, "published-posts.json"), logging.NewNop())
	e.pub = e.newPublisher(Config{}, logging.NewNop())

	outcome, err := e.pub.PublishNext(context.Background())
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if outcome.Published {
		t.Fatal("unit published twice")
	}
	if outcome.SkipReason != "queue empty" {
		t.Fatalf("skip reason = %q, want queue empty", outcome.SkipReason)
	}
	if len(e.driver.published) != 1 {
		t.Fatalf("driver invoked %d times, want 1", len(e.driver.published))
	}
}

func TestPublishNextDailyCap(t *testing.T) {
	e := newEnv(t, Config{MaxPostsPerDay: 1})
	for i := 0; i < 2; i++ {
		if _, err := e.store.CreateUnit("Post content", "Topic"); err != nil {
			t.Fatalf("CreateUnit: %v", err)
		}
	}

	first, err := e.pub.PublishNext(context.Background())
	if err != nil || !first.Published {
		t.Fatalf("first publish: outcome=%+v err=%v", first, err)
	}
	second, err := e.pub.PublishNext(context.Background())
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if second.Published {
		t.Fatal("cap not enforced")
	}
	if second.SkipReason != "daily cap reached" {
		t.Fatalf("skip reason = %q", second.SkipReason)
	}
}

func TestPublishNextFailureRecordsAuditWithoutLedger(t *testing.T) {
	e := newEnv(t, Config{})
	unit, err := e.store.CreateUnit("Doomed post", "Topic")
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	e.driver.result = browser.Result{Err: services.Wrap(services.ErrSelectorDrift, "browser", "compose", "composer trigger not found", nil)}

	outcome, err := e.pub.PublishNext(context.Background())
	if err == nil {
		t.Fatal("expected publish error")
	}
	if !errors.Is(err, services.ErrSelectorDrift) {
		t.Fatalf("error = %v, want selector drift", err)
	}
	if outcome.Published {
		t.Fatal("failed publish reported as success")
	}
	if e.ledger.IsPublished(unit.ID) {
		t.Fatal("failed unit marked published")
	}
	records := e.audit.Records()
	if len(records) != 1 || records[0].Status != audit.StatusFailed {
		t.Fatalf("audit records = %+v, want one failed entry", records)
	}
}

func TestPublishNotificationHonorsToggle(t *testing.T) {
	enabled := newEnv(t, Config{NotifyPublishes: true})
	if _, err := enabled.store.CreateUnit("Announced post", "Topic"); err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	if _, err := enabled.pub.PublishNext(context.Background()); err != nil {
		t.Fatalf("PublishNext: %v", err)
	}
	if len(enabled.notifier.publishedURLs) != 1 {
		t.Fatalf("publish alerts = %d, want 1", len(enabled.notifier.publishedURLs))
	}

	muted := newEnv(t, Config{})
	if _, err := muted.store.CreateUnit("Quiet post", "Topic"); err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	if _, err := muted.pub.PublishNext(context.Background()); err != nil {
		t.Fatalf("PublishNext: %v", err)
	}
	if len(muted.notifier.publishedURLs) != 0 {
		t.Fatalf("publish alerts = %d, want 0 with notifications off", len(muted.notifier.publishedURLs))
	}
	if len(muted.audit.Records()) != 1 {
		t.Fatal("audit record missing when notifications are off")
	}
}

func TestFailureAlertOnlyForDeadEnds(t *testing.T) {
	e := newEnv(t, Config{NotifyErrors: true})
	if _, err := e.store.CreateUnit("Flaky post", "Topic"); err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	e.driver.result = browser.Result{Err: services.Wrap(services.ErrTransient, "browser", "navigate", "page load stalled", nil)}
	if _, err := e.pub.PublishNext(context.Background()); err == nil {
		t.Fatal("expected publish error")
	}
	if len(e.notifier.failedUnits) != 0 {
		t.Fatalf("failure alerts = %d, want 0 for a transient error", len(e.notifier.failedUnits))
	}

	e.driver.result = browser.Result{Err: services.Wrap(services.ErrSelectorDrift, "browser", "compose", "editor missing", nil)}
	if _, err := e.pub.PublishNext(context.Background()); err == nil {
		t.Fatal("expected publish error")
	}
	if len(e.notifier.failedUnits) != 1 {
		t.Fatalf("failure alerts = %d, want 1 for selector drift", len(e.notifier.failedUnits))
	}
}

func TestFailureAlertSuppressedWhenDisabled(t *testing.T) {
	e := newEnv(t, Config{})
	if _, err := e.store.CreateUnit("Doomed post", "Topic"); err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	e.driver.result = browser.Result{Err: services.Wrap(services.ErrSelectorDrift, "browser", "submit", "post button missing", nil)}
	if _, err := e.pub.PublishNext(context.Background()); err == nil {
		t.Fatal("expected publish error")
	}
	if len(e.notifier.failedUnits) != 0 {
		t.Fatalf("failure alerts = %d, want 0 with notifications off", len(e.notifier.failedUnits))
	}
	if len(e.audit.Records()) != 1 {
		t.Fatal("audit record missing when notifications are off")
	}
}

func TestPublishNextFIFOPicksOldest(t *testing.T) {
	e := newEnv(t, Config{SelectionPolicy: PolicyFIFO})
	oldest, err := e.store.CreateUnit("Oldest", "First Topic")
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	if _, err := e.store.CreateUnit("Newer", "Second Topic"); err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}

	outcome, err := e.pub.PublishNext(context.Background())
	if err != nil {
		t.Fatalf("PublishNext: %v", err)
	}
	if outcome.Unit.ID != oldest.ID {
		t.Fatalf("published %q, want oldest %q", outcome.Unit.ID, oldest.ID)
	}
}

func TestPublishBatchStopsOnEmptyQueue(t *testing.T) {
	e := newEnv(t, Config{SelectionPolicy: PolicyFIFO})
	for i := 0; i < 2; i++ {
		if _, err := e.store.CreateUnit("Post content", "Topic"); err != nil {
			t.Fatalf("CreateUnit: %v", err)
		}
	}
	e.pub.sleep = func(context.Context, time.Duration) error { return nil }

	published, err := e.pub.PublishBatch(context.Background(), 5)
	if err != nil {
		t.Fatalf("PublishBatch: %v", err)
	}
	if published != 2 {
		t.Fatalf("published = %d, want 2", published)
	}
	if len(e.driver.published) != 2 {
		t.Fatalf("driver invoked %d times, want 2", len(e.driver.published))
	}
}

func TestStats(t *testing.T) {
	e := newEnv(t, Config{SelectionPolicy: PolicyFIFO})
	published, err := e.store.CreateUnit("Done", "Topic A")
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	if err := e.ledger.MarkPublished(published.ID); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}
	if _, err := e.store.CreateUnit("Pending text", "Topic B"); err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	mediaUnit, err := e.store.CreateUnit("Pending media", "Topic C")
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}
	if err := os.WriteFile(filepath.Join(mediaUnit.Dir, "post-image.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	stats, err := e.pub.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 || stats.Published != 1 || stats.Unpublished != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.UnpublishedText != 1 || stats.UnpublishedMedia != 1 {
		t.Fatalf("stats media split = %+v", stats)
	}
}
