// Package llm provides a small client for OpenRouter-compatible chat
// completion APIs.
//
// The client retries transient failures (HTTP 5xx, 408, 429, network
// timeouts, empty completions) with exponential backoff, honouring
// Retry-After headers when present. DecodeJSON tolerates the formatting
// quirks models add around JSON payloads, like markdown code fences.
//
// Both the post text generator and the image enhancement step build on this
// package.
package llm
