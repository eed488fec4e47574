// Package config loads, normalizes, and validates postforge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LINKEDIN_EMAIL and POSTFORGE_LLM_API_KEY. The Config type centralizes every
// knob the scheduler and CLI need, so the posts directory, ledger location,
// cron cadences, and external backend credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, parsed-and-validated cron expressions, and clear validation
// errors.
package config
