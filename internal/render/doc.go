// SPDX-License-Identifier: MPL-2.0

// Package render turns resolution results into terminal text: inline hints,
// the locale/key tree and the hover table. Functions here are pure; nothing
// in the resolution core depends on this package.
package render
