// Package main hosts the postforge CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot generation and publishing,
// queue statistics, configuration scaffolding, and the long-running
// scheduler daemon. It centralizes configuration resolution and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
