// SPDX-License-Identifier: MPL-2.0

// Package watch reports debounced filesystem changes under a project root.
//
// Events for the same path inside the debounce window collapse into one
// Change carrying the last operation seen, and the batch is delivered sorted
// by path. Paths are relative to the base directory and use forward slashes.
package watch
