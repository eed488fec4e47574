// Package services defines shared utilities consumed by the pipeline
// components and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures for
//     consistent classification (retry vs operator review).
//   - Context helpers that stamp post identifiers and correlation IDs for
//     logging.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability, retries) stays uniform.
package services
