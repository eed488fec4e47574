// Package browser publishes posts through a real LinkedIn web session driven
// by rod. Each publish attempt is a single-use Session walking an explicit
// state machine (launching, login, composing, submitting, confirmed or
// failed) with one unconditional cleanup path.
//
// Page interaction sits behind the PageOps interface so the state machine is
// testable without a browser; rod.go provides the live implementation with
// the current LinkedIn selectors. All waits are bounded. Auth checkpoints
// get a bounded window for manual resolution before the attempt is abandoned.
package browser
