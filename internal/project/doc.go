// SPDX-License-Identifier: MPL-2.0

// Package project describes the localized project keylens works on: where
// its root is, which locales it declares, which of them is the base, and
// where each locale's data file lives. Settings come from
// project.inlang/settings.json when present and fall back to defaults.
package project
