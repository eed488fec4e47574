package scheduler

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"postforge/internal/audit"
	"postforge/internal/browser"
	"postforge/internal/config"
	"postforge/internal/ledger"
	"postforge/internal/logging"
	"postforge/internal/poststore"
	"postforge/internal/publisher"
	"postforge/internal/testsupport"
	"postforge/internal/textgen"
)

// zeroSource makes every rng draw deterministic: Intn returns 0 and
// Float64 returns 0.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

type fakePublishing struct {
	store   *poststore.Store
	ledger  map[string]bool
	publish func(ctx context.Context) (publisher.Outcome, error)
	ticks   int
}

func (f *fakePublishing) Unpublished() ([]poststore.Unit, error) {
	units, err := f.store.List()
	if err != nil {
		return nil, err
	}
	remaining := units[:0]
	for _, unit := range units {
		if !f.ledger[unit.ID] {
			remaining = append(remaining, unit)
		}
	}
	return remaining, nil
}

func (f *fakePublishing) PublishNext(ctx context.Context) (publisher.Outcome, error) {
	f.ticks++
	if f.publish != nil {
		return f.publish(ctx)
	}
	return publisher.Outcome{SkipReason: "queue empty"}, nil
}

type fakeImages struct {
	paths []string
	fail  bool
}

func (f *fakeImages) GenerateImage(_ context.Context, _, _, outputPath string) (string, error) {
	if f.fail {
		return "", os.ErrPermission
	}
	if err := os.WriteFile(outputPath, []byte("png"), 0o644); err != nil {
		return "", err
	}
	f.paths = append(f.paths, outputPath)
	return outputPath, nil
}

func newTestScheduler(t *testing.T, cfg *config.Config) (*Scheduler, *fakePublishing, *fakeImages) {
	t.Helper()
	logger := logging.NewNop()
	store := poststore.NewStore(cfg.Paths.PostsDir, logger)
	pub := &fakePublishing{store: store, ledger: map[string]bool{}}
	images := &fakeImages{}
	text := textgen.NewGenerator(nil, "", 0, logger)
	auditLog := audit.Open(cfg.AuditLogPath(), logger)
	sched := New(cfg, store, pub, text, images, nil, auditLog, nil, logger,
		WithRand(rand.New(zeroSource{})),
		WithClock(func() time.Time {
			return time.Date(2026, time.March, 14, 2, 0, 0, 0, time.UTC)
		}))
	return sched, pub, images
}

func TestRunGenerationNowTopsUpQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMinQueueSize(3))
	sched, pub, images := newTestScheduler(t, cfg)

	created, err := sched.GenerateBatch(context.Background(), 1)
	if err != nil || created != 1 {
		t.Fatalf("seed unit: created=%d err=%v", created, err)
	}

	created, err = sched.RunGenerationNow(context.Background())
	if err != nil {
		t.Fatalf("RunGenerationNow: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d, want 2", created)
	}
	units, err := pub.Unpublished()
	if err != nil {
		t.Fatalf("Unpublished: %v", err)
	}
	if len(units) != 3 {
		t.Fatalf("queue size = %d, want 3", len(units))
	}
	// The zero rng always lands on the media branch.
	if len(images.paths) != 3 {
		t.Fatalf("images generated = %d, want 3", len(images.paths))
	}
	for _, unit := range units {
		if unit.Content == "" {
			t.Fatalf("unit %s has empty content", unit.ID)
		}
	}
}

func TestRunGenerationNowSkipsFullQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMinQueueSize(1))
	sched, _, _ := newTestScheduler(t, cfg)

	if _, err := sched.GenerateBatch(context.Background(), 1); err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	created, err := sched.RunGenerationNow(context.Background())
	if err != nil {
		t.Fatalf("RunGenerationNow: %v", err)
	}
	if created != 0 {
		t.Fatalf("created = %d, want 0", created)
	}
}

func TestGenerateBatchSurvivesImageFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sched, pub, images := newTestScheduler(t, cfg)
	images.fail = true

	created, err := sched.GenerateBatch(context.Background(), 2)
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d, want 2", created)
	}
	units, err := pub.Unpublished()
	if err != nil {
		t.Fatalf("Unpublished: %v", err)
	}
	for _, unit := range units {
		if unit.HasMedia() {
			t.Fatalf("unit %s has media despite image failure", unit.ID)
		}
	}
}

func TestRunMaintenanceNowWritesReport(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sched, _, _ := newTestScheduler(t, cfg)

	if _, err := sched.GenerateBatch(context.Background(), 2); err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if err := sched.RunMaintenanceNow(context.Background()); err != nil {
		t.Fatalf("RunMaintenanceNow: %v", err)
	}

	path := filepath.Join(cfg.ReportsDir(), "daily-report-2026-03-14.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report DailyReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Date != "2026-03-14" {
		t.Fatalf("report date = %q", report.Date)
	}
	if report.QueueSize != 2 {
		t.Fatalf("report queue size = %d, want 2", report.QueueSize)
	}
	if report.PostedToday != 0 {
		t.Fatalf("report posted today = %d, want 0", report.PostedToday)
	}
}

func TestRunPublishingNowDelegates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	sched, pub, _ := newTestScheduler(t, cfg)

	if err := sched.RunPublishingNow(context.Background()); err != nil {
		t.Fatalf("RunPublishingNow: %v", err)
	}
	if pub.ticks != 1 {
		t.Fatalf("publish ticks = %d, want 1", pub.ticks)
	}
}

// stubDriver stands in for a browser session during the full-flow test.
type stubDriver struct {
	result browser.Result
}

func (d *stubDriver) Publish(context.Context, string, string) browser.Result {
	return d.result
}

func TestGenerateThenPublishFlow(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMinQueueSize(1))
	logger := logging.NewNop()
	store := poststore.NewStore(cfg.Paths.PostsDir, logger)
	ledg := ledger.Open(cfg.LedgerPath(), logger)
	auditLog := audit.Open(cfg.AuditLogPath(), logger)

	publishedURL := "https://www.linkedin.com/feed/update/urn:li:activity:7123/"
	driver := &stubDriver{result: browser.Result{Success: true, PublishedURL: publishedURL}}
	factory := func(context.Context) (publisher.Driver, error) { return driver, nil }
	pub := publisher.New(store, ledg, auditLog, nil, factory, publisher.Config{
		LockPath:        cfg.LockPath(),
		SelectionPolicy: publisher.PolicyFIFO,
		MaxPostsPerDay:  cfg.Schedule.MaxPostsPerDay,
	}, logger)

	text := textgen.NewGenerator(nil, "", 0, logger)
	sched := New(cfg, store, pub, text, nil, nil, auditLog, nil, logger,
		WithRand(rand.New(zeroSource{})))

	created, err := sched.RunGenerationNow(context.Background())
	if err != nil {
		t.Fatalf("RunGenerationNow: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
	units, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("units on disk = %d, want 1", len(units))
	}

	if err := sched.RunPublishingNow(context.Background()); err != nil {
		t.Fatalf("RunPublishingNow: %v", err)
	}

	if !ledg.IsPublished(units[0].ID) {
		t.Fatalf("unit %s missing from publish ledger", units[0].ID)
	}
	records := auditLog.Records()
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(records))
	}
	if records[0].ID != units[0].ID || records[0].Status != audit.StatusPosted {
		t.Fatalf("audit record = %+v, want posted entry for %s", records[0], units[0].ID)
	}
	if records[0].PublishedURL != publishedURL {
		t.Fatalf("audit published url = %q, want %q", records[0].PublishedURL, publishedURL)
	}
}
