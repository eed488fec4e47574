package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	PostsDir string `toml:"posts_dir"`
	LogDir   string `toml:"log_dir"`
}

// LinkedIn contains credentials and login behavior for the target site.
// Email and Password may also be supplied via the LINKEDIN_EMAIL and
// LINKEDIN_PASSWORD environment variables, which take precedence.
type LinkedIn struct {
	Email                string `toml:"email"`
	Password             string `toml:"password"`
	LoginTimeout         int    `toml:"login_timeout"`
	ChallengeWaitSeconds int    `toml:"challenge_wait_seconds"`
}

// Browser contains headless browser settings for the publishing driver.
type Browser struct {
	Headless          bool   `toml:"headless"`
	BinPath           string `toml:"bin_path"`
	SlowMotionMS      int    `toml:"slow_motion_ms"`
	NavigationTimeout int    `toml:"navigation_timeout"`
	SelectorTimeout   int    `toml:"selector_timeout"`
}

// LLM contains connection settings for the text generation and image
// enhancement backend. The API key may also come from POSTFORGE_LLM_API_KEY.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Generation contains content generation settings.
type Generation struct {
	DefaultDomain string `toml:"default_domain"`
	MaxChars      int    `toml:"max_chars"`
}

// Images contains image generation settings.
type Images struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Schedule contains the cron cadences and control-loop thresholds for the
// autonomous scheduler.
type Schedule struct {
	GenerateCron        string `toml:"generate_cron"`
	PublishCron         string `toml:"publish_cron"`
	MaintenanceCron     string `toml:"maintenance_cron"`
	MaxPostsPerDay      int    `toml:"max_posts_per_day"`
	MinQueueSize        int    `toml:"min_queue_size"`
	AutoGenerate        bool   `toml:"auto_generate"`
	AutoPublish         bool   `toml:"auto_publish"`
	SelectionPolicy     string `toml:"selection_policy"`
	PublishDelayMinSecs int    `toml:"publish_delay_min_seconds"`
	PublishDelayMaxSecs int    `toml:"publish_delay_max_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Publishes      bool   `toml:"publishes"`
	Errors         bool   `toml:"errors"`
	Reports        bool   `toml:"reports"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for postforge.
//
// Configuration sections by subsystem:
//   - Paths: data, posts, and log directories
//   - LinkedIn: target-site credentials and login behavior
//   - Browser: headless driver settings
//   - LLM: text generation / image enhancement backend
//   - Generation: content generation defaults
//   - Images: generated image dimensions
//   - Schedule: cron cadences and control-loop thresholds
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	LinkedIn      LinkedIn      `toml:"linkedin"`
	Browser       Browser       `toml:"browser"`
	LLM           LLM           `toml:"llm"`
	Generation    Generation    `toml:"generation"`
	Images        Images        `toml:"images"`
	Schedule      Schedule      `toml:"schedule"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/postforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was found on disk.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("postforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("LINKEDIN_EMAIL")); v != "" {
		c.LinkedIn.Email = v
	}
	if v := strings.TrimSpace(os.Getenv("LINKEDIN_PASSWORD")); v != "" {
		c.LinkedIn.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("POSTFORGE_LLM_API_KEY")); v != "" {
		c.LLM.APIKey = v
	}
}

// EnsureDirectories creates the directories the pipeline requires.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.PostsDir, c.Paths.LogDir, c.ReportsDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the location of the publish ledger file.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.DataDir, "published-posts.json")
}

// AuditLogPath returns the location of the posted-content audit log.
func (c *Config) AuditLogPath() string {
	return filepath.Join(c.Paths.DataDir, "posts.json")
}

// ReportsDir returns the directory daily reports are written to.
func (c *Config) ReportsDir() string {
	if c.Paths.DataDir == "" {
		return ""
	}
	return filepath.Join(c.Paths.DataDir, "reports")
}

// LockPath returns the advisory lock file guarding the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "postforge.lock")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample configuration to path, refusing to overwrite
// an existing file unless force is set.
func WriteSample(path string, force bool) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(expanded); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", expanded)
		}
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
