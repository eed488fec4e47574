package main

import (
	"context"
	"log/slog"
	"time"

	"postforge/internal/audit"
	"postforge/internal/browser"
	"postforge/internal/config"
	"postforge/internal/imagegen"
	"postforge/internal/ledger"
	"postforge/internal/notifications"
	"postforge/internal/poststore"
	"postforge/internal/publisher"
	"postforge/internal/scheduler"
	"postforge/internal/services/llm"
	"postforge/internal/textgen"
)

// pipeline holds the wired components behind every command.
type pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *poststore.Store
	ledger   *ledger.Ledger
	audit    *audit.Log
	notifier notifications.Service
	backend  *llm.Client
	text     *textgen.Generator
	images   *imagegen.Generator
	pub      *publisher.Publisher
	sched    *scheduler.Scheduler
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) *pipeline {
	p := &pipeline{cfg: cfg, logger: logger}
	p.store = poststore.NewStore(cfg.Paths.PostsDir, logger)
	p.ledger = ledger.Open(cfg.LedgerPath(), logger)
	p.audit = audit.Open(cfg.AuditLogPath(), logger)
	p.notifier = notifications.NewService(notifications.Options{
		Topic:                 cfg.Notifications.NtfyTopic,
		RequestTimeoutSeconds: cfg.Notifications.RequestTimeout,
	})

	var textBackend textgen.Completer
	var imageBackend imagegen.JSONCompleter
	var health scheduler.HealthChecker
	if cfg.LLM.APIKey != "" {
		p.backend = llm.NewClient(llm.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		})
		textBackend = p.backend
		imageBackend = p.backend
		health = p.backend
	}
	p.text = textgen.NewGenerator(textBackend, cfg.Generation.DefaultDomain, cfg.Generation.MaxChars, logger)
	p.images = imagegen.NewGenerator(imageBackend, cfg.Images.Width, cfg.Images.Height, logger)

	p.pub = publisher.New(p.store, p.ledger, p.audit, p.notifier, sessionFactory(cfg, logger), publisher.Config{
		LockPath:        cfg.LockPath(),
		SelectionPolicy: cfg.Schedule.SelectionPolicy,
		MaxPostsPerDay:  cfg.Schedule.MaxPostsPerDay,
		DelayMin:        secondsDuration(cfg.Schedule.PublishDelayMinSecs),
		DelayMax:        secondsDuration(cfg.Schedule.PublishDelayMaxSecs),
		NotifyPublishes: cfg.Notifications.Publishes,
		NotifyErrors:    cfg.Notifications.Errors,
	}, logger)
	p.sched = scheduler.New(cfg, p.store, p.pub, p.text, p.images, health, p.audit, p.notifier, logger)
	return p
}

func sessionFactory(cfg *config.Config, logger *slog.Logger) publisher.SessionFactory {
	return func(context.Context) (publisher.Driver, error) {
		ops, err := browser.Launch(browser.LaunchOptions{
			Headless:          cfg.Browser.Headless,
			BinPath:           cfg.Browser.BinPath,
			SlowMotion:        time.Duration(cfg.Browser.SlowMotionMS) * time.Millisecond,
			NavigationTimeout: secondsDuration(cfg.Browser.NavigationTimeout),
		})
		if err != nil {
			return nil, err
		}
		return browser.NewSession(ops, browser.Config{
			Credentials: browser.Credentials{
				Email:    cfg.LinkedIn.Email,
				Password: cfg.LinkedIn.Password,
			},
			NavigationTimeout: secondsDuration(cfg.Browser.NavigationTimeout),
			LoginTimeout:      secondsDuration(cfg.LinkedIn.LoginTimeout),
			SelectorTimeout:   secondsDuration(cfg.Browser.SelectorTimeout),
			ChallengeWait:     secondsDuration(cfg.LinkedIn.ChallengeWaitSeconds),
		}, logger), nil
	}
}

func secondsDuration(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
