package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBrowser(); err != nil {
		return err
	}
	if err := c.validateSchedule(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.PostsDir == "" {
		return errors.New("paths.posts_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateBrowser() error {
	if c.Browser.NavigationTimeout <= 0 {
		return errors.New("browser.navigation_timeout must be positive")
	}
	if c.Browser.SelectorTimeout <= 0 {
		return errors.New("browser.selector_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSchedule() error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for _, expr := range []struct {
		key   string
		value string
	}{
		{"schedule.generate_cron", c.Schedule.GenerateCron},
		{"schedule.publish_cron", c.Schedule.PublishCron},
		{"schedule.maintenance_cron", c.Schedule.MaintenanceCron},
	} {
		if _, err := parser.Parse(expr.value); err != nil {
			return fmt.Errorf("%s: invalid cron expression %q: %w", expr.key, expr.value, err)
		}
	}
	switch c.Schedule.SelectionPolicy {
	case "random", "fifo":
	default:
		return fmt.Errorf("schedule.selection_policy must be %q or %q, got %q", "random", "fifo", c.Schedule.SelectionPolicy)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	return nil
}
