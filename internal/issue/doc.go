// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown guidance
// for the failures a keylens user can fix: missing or malformed locale files,
// unreadable project settings, invalid configuration and unwritable entries.
package issue
