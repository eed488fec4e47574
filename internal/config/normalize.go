package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeGeneration()
	c.normalizeImages()
	c.normalizeSchedule()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.PostsDir, err = expandPath(c.Paths.PostsDir); err != nil {
		return fmt.Errorf("paths.posts_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
}

func (c *Config) normalizeGeneration() {
	c.Generation.DefaultDomain = strings.TrimSpace(c.Generation.DefaultDomain)
	if c.Generation.DefaultDomain == "" {
		c.Generation.DefaultDomain = defaultDomain
	}
	if c.Generation.MaxChars <= 0 {
		c.Generation.MaxChars = defaultMaxChars
	}
}

func (c *Config) normalizeImages() {
	if c.Images.Width <= 0 {
		c.Images.Width = defaultImageWidth
	}
	if c.Images.Height <= 0 {
		c.Images.Height = defaultImageHeight
	}
}

func (c *Config) normalizeSchedule() {
	c.Schedule.GenerateCron = strings.TrimSpace(c.Schedule.GenerateCron)
	if c.Schedule.GenerateCron == "" {
		c.Schedule.GenerateCron = defaultGenerateCron
	}
	c.Schedule.PublishCron = strings.TrimSpace(c.Schedule.PublishCron)
	if c.Schedule.PublishCron == "" {
		c.Schedule.PublishCron = defaultPublishCron
	}
	c.Schedule.MaintenanceCron = strings.TrimSpace(c.Schedule.MaintenanceCron)
	if c.Schedule.MaintenanceCron == "" {
		c.Schedule.MaintenanceCron = defaultMaintenanceCron
	}
	if c.Schedule.MaxPostsPerDay <= 0 {
		c.Schedule.MaxPostsPerDay = defaultMaxPostsPerDay
	}
	if c.Schedule.MinQueueSize <= 0 {
		c.Schedule.MinQueueSize = defaultMinQueueSize
	}
	c.Schedule.SelectionPolicy = strings.ToLower(strings.TrimSpace(c.Schedule.SelectionPolicy))
	if c.Schedule.SelectionPolicy == "" {
		c.Schedule.SelectionPolicy = defaultSelectionPolicy
	}
	if c.Schedule.PublishDelayMinSecs <= 0 {
		c.Schedule.PublishDelayMinSecs = defaultPublishDelayMin
	}
	if c.Schedule.PublishDelayMaxSecs < c.Schedule.PublishDelayMinSecs {
		c.Schedule.PublishDelayMaxSecs = c.Schedule.PublishDelayMinSecs
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
