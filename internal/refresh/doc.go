// SPDX-License-Identifier: MPL-2.0

// Package refresh decides when resolution passes run.
//
// A Coordinator keys every request by a target (a document path, or Cleared
// when no supported document is focused) and guarantees that at most one
// pass per target is in flight. Requests arriving mid-pass collapse into a
// single follow-up carrying the latest parameters. Text edits go through a
// per-target debounce; saves and forced refreshes bypass it. Clearing waits
// for a short grace period so focus passing through an unsupported view
// does not flicker. Timers come from a Scheduler so tests can drive them
// with a fake clock.
package refresh
