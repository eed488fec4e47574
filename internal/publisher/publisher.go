// Package publisher reconciles the post store against the publish ledger and
// pushes unpublished units through the browser driver, at most one at a time
// and never more than the daily cap.
package publisher

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"postforge/internal/audit"
	"postforge/internal/browser"
	"postforge/internal/ledger"
	"postforge/internal/logging"
	"postforge/internal/notifications"
	"postforge/internal/poststore"
	"postforge/internal/services"
)

const (
	// PolicyRandom picks a random unpublished unit per tick.
	PolicyRandom = "random"
	// PolicyFIFO publishes oldest first.
	PolicyFIFO = "fifo"
)

const auditSource = "autonomous-publisher"

// Driver is a single-use publish session.
type Driver interface {
	Publish(ctx context.Context, content, imagePath string) browser.Result
}

// SessionFactory opens a fresh browser session. Every publish attempt gets
// its own; sessions are never reused across posts.
type SessionFactory func(ctx context.Context) (Driver, error)

// Config tunes the publisher.
type Config struct {
	// LockPath guards the publish sequence across processes.
	LockPath string
	// SelectionPolicy is PolicyRandom or PolicyFIFO.
	SelectionPolicy string
	// MaxPostsPerDay caps successful publishes per calendar day. Zero or
	// negative disables the cap.
	MaxPostsPerDay int
	// DelayMin and DelayMax bound the randomized pause between batch posts.
	DelayMin time.Duration
	DelayMax time.Duration
	// NotifyPublishes and NotifyErrors gate the per-attempt push
	// notifications. Audit and log records are written either way.
	NotifyPublishes bool
	NotifyErrors    bool
}

// Outcome reports what one publish tick did.
type Outcome struct {
	Published  bool
	SkipReason string
	Unit       *poststore.Unit
	Result     browser.Result
}

// Publisher owns the ledger-check, publish, ledger-write sequence.
type Publisher struct {
	store    *poststore.Store
	ledger   *ledger.Ledger
	auditLog *audit.Log
	notifier notifications.Service
	sessions SessionFactory
	cfg      Config
	logger   *slog.Logger
	rng      *rand.Rand
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// Option customizes a Publisher.
type Option func(*Publisher)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// WithRand overrides the randomness source used for unit selection and
// batch delays.
func WithRand(rng *rand.Rand) Option {
	return func(p *Publisher) {
		if rng != nil {
			p.rng = rng
		}
	}
}

// New constructs a Publisher.
func New(store *poststore.Store, ledg *ledger.Ledger, auditLog *audit.Log, notifier notifications.Service, sessions SessionFactory, cfg Config, logger *slog.Logger, opts ...Option) *Publisher {
	if notifier == nil {
		notifier = notifications.NewService(notifications.Options{})
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.SelectionPolicy == "" {
		cfg.SelectionPolicy = PolicyRandom
	}
	p := &Publisher{
		store:    store,
		ledger:   ledg,
		auditLog: auditLog,
		notifier: notifier,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger.With(logging.String(logging.FieldComponent, "publisher")),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Unpublished returns the units present in the store but absent from the
// ledger, oldest first.
func (p *Publisher) Unpublished() ([]poststore.Unit, error) {
	units, err := p.store.List()
	if err != nil {
		return nil, err
	}
	remaining := units[:0]
	for _, unit := range units {
		if !p.ledger.IsPublished(unit.ID) {
			remaining = append(remaining, unit)
		}
	}
	return remaining, nil
}

// PublishNext runs one publish tick: reconcile, enforce the daily cap, pick
// one unit, publish it through a fresh session, and record the result. The
// whole sequence runs under the data directory lock so concurrent processes
// cannot publish the same unit.
func (p *Publisher) PublishNext(ctx context.Context) (Outcome, error) {
	unlock, err := p.acquireLock(ctx)
	if err != nil {
		return Outcome{}, err
	}
	defer unlock()

	now := p.now()
	if p.cfg.MaxPostsPerDay > 0 && p.auditLog.CountPostedToday(now) >= p.cfg.MaxPostsPerDay {
		p.logger.Info("daily post cap reached, skipping publish",
			logging.Int("cap", p.cfg.MaxPostsPerDay))
		return Outcome{SkipReason: "daily cap reached"}, nil
	}

	units, err := p.Unpublished()
	if err != nil {
		return Outcome{}, err
	}
	if len(units) == 0 {
		p.logger.Info("no unpublished posts in queue")
		return Outcome{SkipReason: "queue empty"}, nil
	}

	unit := p.pick(units)
	ctx = services.WithPostID(ctx, unit.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	attemptLogger := logging.WithContext(ctx, p.logger)
	attemptLogger.Info("publishing post",
		logging.String("topic", unit.Topic),
		logging.Bool("media", unit.HasMedia()))

	driver, err := p.sessions(ctx)
	if err != nil {
		return Outcome{}, services.Wrap(services.ErrExternalTool, "publisher", "session", "open browser session", err)
	}
	result := driver.Publish(ctx, unit.Content, unit.ImagePath)

	if !result.Success {
		p.recordFailure(ctx, attemptLogger, unit, result)
		return Outcome{Unit: &unit, Result: result}, result.Err
	}

	// Ledger first: once the post is live, the record that prevents a second
	// publish matters more than the audit trail.
	if err := p.ledger.MarkPublished(unit.ID); err != nil {
		attemptLogger.Error("post published but ledger write failed", logging.Error(err))
		return Outcome{Published: true, Unit: &unit, Result: result}, err
	}
	p.recordSuccess(ctx, attemptLogger, unit, result)
	return Outcome{Published: true, Unit: &unit, Result: result}, nil
}

// PublishBatch publishes up to count posts with a randomized pause between
// them. It stops early on the daily cap, an empty queue, or a failure.
func (p *Publisher) PublishBatch(ctx context.Context, count int) (int, error) {
	published := 0
	for i := 0; i < count; i++ {
		if i > 0 {
			if err := p.sleep(ctx, p.batchDelay()); err != nil {
				return published, err
			}
		}
		outcome, err := p.PublishNext(ctx)
		if err != nil {
			return published, err
		}
		if !outcome.Published {
			return published, nil
		}
		published++
	}
	return published, nil
}

// Stats summarizes the queue for the CLI.
type Stats struct {
	Total            int
	Published        int
	Unpublished      int
	UnpublishedText  int
	UnpublishedMedia int
	PostedToday      int
}

// Stats computes the queue summary.
func (p *Publisher) Stats() (Stats, error) {
	units, err := p.store.List()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: len(units), PostedToday: p.auditLog.CountPostedToday(p.now())}
	for _, unit := range units {
		if p.ledger.IsPublished(unit.ID) {
			stats.Published++
			continue
		}
		stats.Unpublished++
		if unit.HasMedia() {
			stats.UnpublishedMedia++
		} else {
			stats.UnpublishedText++
		}
	}
	return stats, nil
}

func (p *Publisher) pick(units []poststore.Unit) poststore.Unit {
	if p.cfg.SelectionPolicy == PolicyFIFO {
		return units[0]
	}
	return units[p.rng.Intn(len(units))]
}

func (p *Publisher) recordSuccess(ctx context.Context, logger *slog.Logger, unit poststore.Unit, result browser.Result) {
	record := audit.Record{
		ID:           unit.ID,
		Topic:        unit.Topic,
		PostedAt:     p.now().UTC(),
		Status:       audit.StatusPosted,
		HasMedia:     result.MediaAttached,
		PublishedURL: result.PublishedURL,
		Source:       auditSource,
	}
	if err := p.auditLog.Append(record); err != nil {
		logger.Warn("audit append failed", logging.Error(err))
	}
	if p.cfg.NotifyPublishes {
		if err := p.notifier.NotifyPostPublished(ctx, unit.Topic, result.PublishedURL, result.MediaAttached); err != nil {
			logger.Warn("publish notification failed", logging.Error(err))
		}
	}
	logger.Info("post published",
		logging.String("url", result.PublishedURL),
		logging.Bool("media", result.MediaAttached))
}

func (p *Publisher) recordFailure(ctx context.Context, logger *slog.Logger, unit poststore.Unit, result browser.Result) {
	logger.Error("publish failed", logging.Error(result.Err))
	record := audit.Record{
		ID:       unit.ID,
		Topic:    unit.Topic,
		PostedAt: p.now().UTC(),
		Status:   audit.StatusFailed,
		HasMedia: unit.HasMedia(),
		Source:   auditSource,
	}
	if err := p.auditLog.Append(record); err != nil {
		logger.Warn("audit append failed", logging.Error(err))
	}
	if !p.cfg.NotifyErrors {
		return
	}
	// Transient failures retry on the next tick; only dead ends are worth a
	// push alert.
	if services.Retryable(result.Err) {
		logger.Info("failure looks transient, unit stays queued, alert suppressed")
		return
	}
	if err := p.notifier.NotifyPublishFailed(ctx, unit.ID, result.Err); err != nil {
		logger.Warn("failure notification failed", logging.Error(err))
	}
}

func (p *Publisher) acquireLock(ctx context.Context) (func(), error) {
	if p.cfg.LockPath == "" {
		return func() {}, nil
	}
	lock := flock.New(p.cfg.LockPath)
	locked, err := lock.TryLockContext(ctx, 500*time.Millisecond)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "publisher", "lock", "acquire publish lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "publisher", "lock", "publish lock held by another process", nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("release publish lock failed", logging.Error(err))
		}
	}, nil
}

func (p *Publisher) batchDelay() time.Duration {
	min, max := p.cfg.DelayMin, p.cfg.DelayMax
	if max <= min {
		return min
	}
	return min + time.Duration(p.rng.Int63n(int64(max-min)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
