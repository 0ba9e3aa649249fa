// SPDX-License-Identifier: MPL-2.0

// Package localedata reads and writes per-locale message files.
//
// A locale file holds one mapping whose values are strings, variant lists, or
// further mappings. JSON is the default format; YAML, TOML, and CUE files are
// selected by extension. Files are re-read on every call; nothing is cached.
package localedata
