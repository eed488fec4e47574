// Package notifications delivers pipeline events via ntfy push messages.
//
// The service publishes to the topic URL from config.toml and gracefully
// degrades to a no-op when no topic is configured, so callers never need to
// branch on whether notifications are enabled.
package notifications
