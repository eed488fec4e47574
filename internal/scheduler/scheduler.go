// Package scheduler runs the autonomous pipeline: cron-driven content
// generation, publishing, and nightly maintenance.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"postforge/internal/audit"
	"postforge/internal/config"
	"postforge/internal/fileutil"
	"postforge/internal/logging"
	"postforge/internal/notifications"
	"postforge/internal/poststore"
	"postforge/internal/publisher"
	"postforge/internal/services"
	"postforge/internal/textgen"
)

const (
	imageFileName      = "post-image.png"
	reportFilePattern  = "daily-report-*.json"
	mediaProbability   = 0.5
	auditRetentionDays = 365
)

// TextGenerator produces post drafts.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, domain string) textgen.Draft
}

// ImageGenerator renders a promotional card for a post.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, postContent, topic, outputPath string) (string, error)
}

// Publishing is the slice of the publisher the scheduler drives.
type Publishing interface {
	PublishNext(ctx context.Context) (publisher.Outcome, error)
	Unpublished() ([]poststore.Unit, error)
}

// HealthChecker probes the generation backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Scheduler wires the cron entries to the pipeline components.
type Scheduler struct {
	cfg      *config.Config
	store    *poststore.Store
	pub      Publishing
	text     TextGenerator
	images   ImageGenerator
	health   HealthChecker
	auditLog *audit.Log
	notifier notifications.Service
	logger   *slog.Logger

	cron       *cron.Cron
	generateID cron.EntryID
	publishID  cron.EntryID
	maintainID cron.EntryID

	rng *rand.Rand
	now func() time.Time
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand overrides the randomness source used for domain selection and
// the text-versus-media coin flip.
func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// New constructs a Scheduler. The image generator and health checker may be
// nil; generation then produces text-only posts and maintenance skips the
// backend probe.
func New(cfg *config.Config, store *poststore.Store, pub Publishing, text TextGenerator, images ImageGenerator, health HealthChecker, auditLog *audit.Log, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Scheduler {
	if notifier == nil {
		notifier = notifications.NewService(notifications.Options{})
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scheduler{
		cfg:      cfg,
		store:    store,
		pub:      pub,
		text:     text,
		images:   images,
		health:   health,
		auditLog: auditLog,
		notifier: notifier,
		logger:   logger.With(logging.String(logging.FieldComponent, "scheduler")),
		cron:     cron.New(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the cron entries and begins running them. Generation and
// publishing entries respect their auto toggles; maintenance always runs.
func (s *Scheduler) Start(ctx context.Context) error {
	sched := s.cfg.Schedule
	var err error
	if sched.AutoGenerate {
		s.generateID, err = s.cron.AddFunc(sched.GenerateCron, func() {
			if _, err := s.RunGenerationNow(ctx); err != nil {
				s.logger.Error("generation tick failed", logging.Error(err))
			}
		})
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "scheduler", "start", "register generation schedule", err)
		}
	}
	if sched.AutoPublish {
		s.publishID, err = s.cron.AddFunc(sched.PublishCron, func() {
			if err := s.RunPublishingNow(ctx); err != nil {
				s.logger.Error("publishing tick failed", logging.Error(err))
			}
		})
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "scheduler", "start", "register publishing schedule", err)
		}
	}
	s.maintainID, err = s.cron.AddFunc(sched.MaintenanceCron, func() {
		if err := s.RunMaintenanceNow(ctx); err != nil {
			s.logger.Error("maintenance tick failed", logging.Error(err))
		}
	})
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "scheduler", "start", "register maintenance schedule", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		logging.Bool("auto_generate", sched.AutoGenerate),
		logging.Bool("auto_publish", sched.AutoPublish),
		logging.String("generate_cron", sched.GenerateCron),
		logging.String("publish_cron", sched.PublishCron),
		logging.String("maintenance_cron", sched.MaintenanceCron))
	return nil
}

// Stop halts the cron loop and waits for in-flight jobs, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return services.Wrap(services.ErrTimeout, "scheduler", "stop", "jobs still running at shutdown deadline", ctx.Err())
	}
}

// NextRuns reports the next fire time for each registered entry.
func (s *Scheduler) NextRuns() map[string]time.Time {
	runs := make(map[string]time.Time)
	if s.generateID != 0 {
		runs["generate"] = s.cron.Entry(s.generateID).Next
	}
	if s.publishID != 0 {
		runs["publish"] = s.cron.Entry(s.publishID).Next
	}
	if s.maintainID != 0 {
		runs["maintenance"] = s.cron.Entry(s.maintainID).Next
	}
	return runs
}

// RunGenerationNow tops the queue back up to min_queue_size. Returns the
// number of units created. A unit that fails to persist is logged and
// skipped; the rest of the batch still runs.
func (s *Scheduler) RunGenerationNow(ctx context.Context) (int, error) {
	queued, err := s.pub.Unpublished()
	if err != nil {
		return 0, err
	}
	deficit := s.cfg.Schedule.MinQueueSize - len(queued)
	if deficit <= 0 {
		s.logger.Info("queue at capacity, skipping generation",
			logging.Int("queued", len(queued)),
			logging.Int("min", s.cfg.Schedule.MinQueueSize))
		return 0, nil
	}
	s.logger.Info("topping up post queue",
		logging.Int("queued", len(queued)),
		logging.Int("deficit", deficit))
	return s.GenerateBatch(ctx, deficit)
}

// GenerateBatch creates count new units, each on a randomly chosen content
// domain, roughly half of them with a generated card image.
func (s *Scheduler) GenerateBatch(ctx context.Context, count int) (int, error) {
	created := 0
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		domain := textgen.RandomDomain(s.rng)
		draft := s.text.Generate(ctx, "", domain)
		unit, err := s.store.CreateUnit(draft.Content, domain)
		if err != nil {
			s.logger.Error("persist generated post failed",
				logging.String("domain", domain),
				logging.Error(err))
			continue
		}
		created++
		s.logger.Info("generated post",
			logging.String("unit", unit.ID),
			logging.String("domain", domain),
			logging.String("source", draft.Source))

		if s.images == nil || s.rng.Float64() >= mediaProbability {
			continue
		}
		imagePath, err := s.images.GenerateImage(ctx, draft.Content, domain, filepath.Join(unit.Dir, imageFileName))
		if err != nil {
			s.logger.Warn("image generation failed, keeping post text-only",
				logging.String("unit", unit.ID),
				logging.Error(err))
			continue
		}
		s.logger.Info("generated post image",
			logging.String("unit", unit.ID),
			logging.String("image", filepath.Base(imagePath)))
	}
	return created, nil
}

// RunPublishingNow publishes at most one queued post.
func (s *Scheduler) RunPublishingNow(ctx context.Context) error {
	outcome, err := s.pub.PublishNext(ctx)
	if err != nil {
		return err
	}
	if outcome.SkipReason != "" {
		s.logger.Info("publishing tick skipped", logging.String("reason", outcome.SkipReason))
	}
	return nil
}

// DailyReport is the maintenance summary written under the reports directory.
type DailyReport struct {
	Date        string               `json:"date"`
	GeneratedAt time.Time            `json:"generated_at"`
	QueueSize   int                  `json:"queue_size"`
	PostedToday int                  `json:"posted_today"`
	NextRuns    map[string]time.Time `json:"next_runs,omitempty"`
}

// RunMaintenanceNow writes the daily report, prunes expired logs, reports,
// and audit entries, and probes the generation backend. Probe failures are
// logged, never fatal.
func (s *Scheduler) RunMaintenanceNow(ctx context.Context) error {
	now := s.now()
	queued, err := s.pub.Unpublished()
	if err != nil {
		return err
	}

	report := DailyReport{
		Date:        now.Format("2006-01-02"),
		GeneratedAt: now.UTC(),
		QueueSize:   len(queued),
		PostedToday: s.auditLog.CountPostedToday(now),
		NextRuns:    s.NextRuns(),
	}
	if err := s.writeReport(report); err != nil {
		return err
	}

	removed := logging.CleanupOldFiles(s.logger, s.cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: s.cfg.Paths.LogDir, Pattern: logging.LogFilePattern},
		logging.RetentionTarget{Dir: s.cfg.ReportsDir(), Pattern: reportFilePattern})
	if removed > 0 {
		s.logger.Info("pruned expired files", logging.Int("removed", removed))
	}
	pruned, err := s.auditLog.Prune(now.AddDate(0, 0, -auditRetentionDays))
	if err != nil {
		s.logger.Warn("audit prune failed", logging.Error(err))
	} else if pruned > 0 {
		s.logger.Info("pruned audit entries", logging.Int("removed", pruned))
	}

	if s.health != nil {
		probeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		if err := s.health.HealthCheck(probeCtx); err != nil {
			s.logger.Warn("generation backend health check failed", logging.Error(err))
		}
		cancel()
	}

	if s.cfg.Notifications.Reports {
		if err := s.notifier.NotifyDailyReport(ctx, report.QueueSize, report.PostedToday); err != nil {
			s.logger.Warn("report notification failed", logging.Error(err))
		}
	}
	s.logger.Info("maintenance complete",
		logging.Int("queue_size", report.QueueSize),
		logging.Int("posted_today", report.PostedToday))
	return nil
}

func (s *Scheduler) writeReport(report DailyReport) error {
	dir := s.cfg.ReportsDir()
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "scheduler", "maintenance", "create reports directory", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrDataIntegrity, "scheduler", "maintenance", "encode daily report", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("daily-report-%s.json", report.Date))
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrDataIntegrity, "scheduler", "maintenance", "write daily report", err)
	}
	s.logger.Info("daily report written", logging.String("report", filepath.Base(path)))
	return nil
}
