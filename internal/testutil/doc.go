// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by tests: environment and working
// directory management with automatic restore (MustSetenv, MustChdir,
// SetHomeDir) and a FakeClock that drives refresh timers by hand.
package testutil
