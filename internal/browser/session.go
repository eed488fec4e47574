package browser

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"postforge/internal/logging"
	"postforge/internal/services"
)

// Credentials hold the LinkedIn account used for publishing.
type Credentials struct {
	Email    string
	Password string
}

// Config tunes session timeouts.
type Config struct {
	Credentials Credentials
	// NavigationTimeout bounds each page load, dead pages included. Without
	// it a stalled load would block the caller for as long as its context
	// lives.
	NavigationTimeout time.Duration
	// LoginTimeout bounds the wait for the authenticated landing page after
	// submitting credentials.
	LoginTimeout time.Duration
	// SelectorTimeout bounds each individual selector wait.
	SelectorTimeout time.Duration
	// ChallengeWait is how long a checkpoint interstitial is given for
	// manual resolution before the session gives up.
	ChallengeWait time.Duration
}

// Result reports the outcome of one publish attempt.
type Result struct {
	Success       bool
	PublishedURL  string
	ExternalID    string
	MediaAttached bool
	Err           error
}

// Session drives one post through the publish state machine. A session is
// single use: Publish runs the attempt and Close always follows, whatever
// the outcome.
type Session struct {
	ops     PageOps
	cfg     Config
	logger  *slog.Logger
	state   State
	history []State
}

// NewSession wraps page operations in a publish state machine.
func NewSession(ops PageOps, cfg Config, logger *slog.Logger) *Session {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 30 * time.Second
	}
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = 30 * time.Second
	}
	if cfg.SelectorTimeout <= 0 {
		cfg.SelectorTimeout = 10 * time.Second
	}
	if cfg.ChallengeWait <= 0 {
		cfg.ChallengeWait = 60 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		ops:    ops,
		cfg:    cfg,
		logger: logger.With(logging.String(logging.FieldComponent, "browser")),
		state:  StateUninitialized,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// History returns the states the session has passed through, in order.
func (s *Session) History() []State {
	out := make([]State, len(s.history))
	copy(out, s.history)
	return out
}

// Close tears down the browser. It is the single cleanup path: every publish
// attempt ends here, and calling it again is a no-op.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	if err := s.ops.Close(); err != nil {
		s.logger.Warn("browser close failed", logging.Error(err))
	}
	s.transition(StateClosed)
}

// Publish runs the full attempt: navigate, authenticate, compose, attach
// media, submit, confirm. The session is closed before it returns.
func (s *Session) Publish(ctx context.Context, content, imagePath string) Result {
	defer s.Close()

	s.logger = logging.WithContext(ctx, s.logger)
	result := s.publish(ctx, content, imagePath)
	if result.Err != nil {
		s.transition(StateFailed)
		s.logger.Error("publish attempt failed",
			logging.String("state", s.state.String()),
			logging.Error(result.Err))
	}
	return result
}

func (s *Session) publish(ctx context.Context, content, imagePath string) Result {
	if strings.TrimSpace(content) == "" {
		return Result{Err: services.Wrap(services.ErrValidation, "browser", "publish", "post content required", nil)}
	}

	s.transition(StateLaunching)
	if err := s.navigate(ctx, urlHome); err != nil {
		return Result{Err: services.Wrap(services.ErrNavigationTimeout, "browser", "navigate", "open linkedin", err)}
	}

	loggedIn, err := s.anyExists(ctx, landingSelectors)
	if err != nil {
		return Result{Err: services.Wrap(services.ErrTransient, "browser", "navigate", "probe session", err)}
	}
	if loggedIn {
		s.transition(StateLoggedIn)
	} else {
		s.transition(StateLoggedOut)
		if err := s.login(ctx); err != nil {
			return Result{Err: err}
		}
		s.transition(StateLoggedIn)
	}

	s.transition(StateComposing)
	if err := s.compose(ctx, content); err != nil {
		return Result{Err: err}
	}

	mediaAttached := false
	if imagePath != "" {
		if err := s.attachMedia(ctx, imagePath); err != nil {
			// Publishing text-only beats dropping the post. The downgrade is
			// logged as an explicit decision so drift is visible.
			s.logger.Warn("media attach failed, publishing text-only",
				logging.String("image", imagePath),
				logging.Error(err))
		} else {
			mediaAttached = true
		}
	}

	s.transition(StateSubmitting)
	if _, err := s.clickFirst(ctx, submitSelectors); err != nil {
		return Result{MediaAttached: mediaAttached, Err: services.Wrap(services.ErrSelectorDrift, "browser", "submit", "post button missing", err)}
	}
	confirmErr := s.awaitConfirmation(ctx)
	url, externalID := s.recoverPostURL(ctx)
	if confirmErr != nil {
		// No success banner. A recovered permalink is corroborating evidence
		// that the post landed anyway.
		if url == "" {
			return Result{MediaAttached: mediaAttached, Err: confirmErr}
		}
		s.logger.Warn("success banner missing but post link found, treating as published",
			logging.String("published_url", url))
	}
	s.transition(StateConfirmed)
	s.logger.Info("post confirmed",
		logging.Bool("media", mediaAttached),
		logging.String("published_url", url),
		logging.String("external_id", externalID))
	return Result{
		Success:       true,
		PublishedURL:  url,
		ExternalID:    externalID,
		MediaAttached: mediaAttached,
	}
}

// navigate runs a page load under the navigation timeout so a hung load
// fails instead of stalling the publish tick.
func (s *Session) navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()
	return s.ops.Navigate(navCtx, url)
}

func (s *Session) login(ctx context.Context) error {
	if s.cfg.Credentials.Email == "" || s.cfg.Credentials.Password == "" {
		return services.Wrap(services.ErrConfiguration, "browser", "login", "credentials not configured", nil)
	}
	if err := s.navigate(ctx, urlLogin); err != nil {
		return services.Wrap(services.ErrNavigationTimeout, "browser", "login", "open login page", err)
	}
	if err := s.ops.WaitVisible(ctx, selectorUsername, s.cfg.SelectorTimeout); err != nil {
		return services.Wrap(services.ErrSelectorDrift, "browser", "login", "username field missing", err)
	}
	if err := s.ops.Fill(ctx, selectorUsername, s.cfg.Credentials.Email); err != nil {
		return services.Wrap(services.ErrSelectorDrift, "browser", "login", "enter email", err)
	}
	if err := s.ops.Fill(ctx, selectorPassword, s.cfg.Credentials.Password); err != nil {
		return services.Wrap(services.ErrSelectorDrift, "browser", "login", "enter password", err)
	}
	if err := s.ops.Click(ctx, selectorLoginSubmit); err != nil {
		return services.Wrap(services.ErrSelectorDrift, "browser", "login", "submit credentials", err)
	}
	return s.awaitLanding(ctx)
}

// awaitLanding waits for the authenticated landing page, giving checkpoint
// interstitials a bounded window for manual resolution.
func (s *Session) awaitLanding(ctx context.Context) error {
	if err := s.waitAnyVisible(ctx, landingSelectors, s.cfg.LoginTimeout); err == nil {
		return nil
	}

	url, urlErr := s.ops.CurrentURL(ctx)
	if urlErr != nil {
		return services.Wrap(services.ErrNavigationTimeout, "browser", "login", "landing page never appeared", urlErr)
	}
	if !isChallengeURL(url) {
		return services.Wrap(services.ErrSelectorDrift, "browser", "login", "landing indicator missing on "+url, nil)
	}

	s.logger.Warn("auth challenge detected, waiting for manual resolution",
		logging.String("url", url),
		logging.Duration("window", s.cfg.ChallengeWait))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.ChallengeWait):
	}

	if err := s.waitAnyVisible(ctx, landingSelectors, s.cfg.SelectorTimeout); err == nil {
		s.logger.Info("auth challenge resolved")
		return nil
	}
	return services.Wrap(services.ErrAuthChallenge, "browser", "login", "challenge not resolved within window", nil)
}

func (s *Session) compose(ctx context.Context, content string) error {
	url, err := s.ops.CurrentURL(ctx)
	if err != nil || !strings.Contains(url, "/feed") {
		if err := s.navigate(ctx, urlFeed); err != nil {
			return services.Wrap(services.ErrNavigationTimeout, "browser", "compose", "open feed", err)
		}
	}
	trigger, err := s.clickFirst(ctx, composerTriggerSelectors)
	if err != nil {
		return services.Wrap(services.ErrSelectorDrift, "browser", "compose", "composer trigger missing", err)
	}
	s.logger.Debug("composer opened", logging.String("selector", trigger))

	editor, err := s.firstVisible(ctx, editorSelectors, s.cfg.SelectorTimeout)
	if err != nil {
		return services.Wrap(services.ErrSelectorDrift, "browser", "compose", "editor missing", err)
	}
	if err := s.ops.InsertText(ctx, editor, content); err != nil {
		return services.Wrap(services.ErrSelectorDrift, "browser", "compose", "type content", err)
	}
	return nil
}

func (s *Session) attachMedia(ctx context.Context, imagePath string) error {
	// A file input may already be attached to the composer; prefer it so no
	// OS dialog ever opens.
	if exists, err := s.ops.Exists(ctx, selectorFileInput); err == nil && exists {
		return s.ops.SetFiles(ctx, selectorFileInput, imagePath)
	}
	if _, err := s.clickFirst(ctx, mediaButtonSelectors); err != nil {
		return err
	}
	if err := s.ops.WaitVisible(ctx, selectorFileInput, s.cfg.SelectorTimeout); err != nil {
		return err
	}
	return s.ops.SetFiles(ctx, selectorFileInput, imagePath)
}

func (s *Session) awaitConfirmation(ctx context.Context) error {
	if err := s.waitAnyVisible(ctx, successBannerSelectors, s.cfg.SelectorTimeout); err != nil {
		return services.Wrap(services.ErrSelectorDrift, "browser", "submit", "success banner never appeared", err)
	}
	return nil
}

var activityIDPattern = regexp.MustCompile(`urn:li:activity:(\d+)`)

// recoverPostURL best-effort extracts the published post's permalink and
// activity ID from the confirmation view. Failure here never fails the
// publish; the post is already live.
func (s *Session) recoverPostURL(ctx context.Context) (string, string) {
	href, ok, err := s.ops.FirstHref(ctx, selectorPostLink)
	if err != nil || !ok {
		if err != nil {
			s.logger.Debug("post url recovery failed", logging.Error(err))
		}
		return "", ""
	}
	if strings.HasPrefix(href, "/") {
		href = urlHome + href
	}
	var externalID string
	if m := activityIDPattern.FindStringSubmatch(href); len(m) == 2 {
		externalID = m[1]
	}
	return href, externalID
}

func (s *Session) transition(to State) {
	s.logger.Debug("session state",
		logging.String("from", s.state.String()),
		logging.String("to", to.String()))
	s.state = to
	s.history = append(s.history, to)
}

func (s *Session) anyExists(ctx context.Context, selectors []string) (bool, error) {
	for _, selector := range selectors {
		exists, err := s.ops.Exists(ctx, selector)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

// waitAnyVisible waits for the first selector in order, falling through to
// the secondaries only after the previous one times out.
func (s *Session) waitAnyVisible(ctx context.Context, selectors []string, timeout time.Duration) error {
	_, err := s.firstVisible(ctx, selectors, timeout)
	return err
}

func (s *Session) firstVisible(ctx context.Context, selectors []string, timeout time.Duration) (string, error) {
	var lastErr error
	for _, selector := range selectors {
		if err := s.ops.WaitVisible(ctx, selector, timeout); err != nil {
			lastErr = err
			continue
		}
		return selector, nil
	}
	return "", lastErr
}

func (s *Session) clickFirst(ctx context.Context, selectors []string) (string, error) {
	selector, err := s.firstVisible(ctx, selectors, s.cfg.SelectorTimeout)
	if err != nil {
		return "", err
	}
	if err := s.ops.Click(ctx, selector); err != nil {
		return "", err
	}
	return selector, nil
}

func isChallengeURL(url string) bool {
	for _, fragment := range challengeURLFragments {
		if strings.Contains(url, fragment) {
			return true
		}
	}
	return false
}
