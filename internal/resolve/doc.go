// SPDX-License-Identifier: MPL-2.0

// Package resolve turns scanned calls into display values.
//
// Each call is looked up in the active locale first, then in the other
// configured locales in declared order. The outcome is one of three states:
// Resolved, ResolvedElsewhere (with the locale it came from), or Unresolved.
// Locale data is re-read for every pass; within a pass each locale file is
// read at most once.
package resolve
