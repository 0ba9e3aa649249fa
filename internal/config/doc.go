// SPDX-License-Identifier: MPL-2.0

// Package config loads keylens settings with Viper, using CUE as the file
// format.
//
// The file is read from --config when given, otherwise from config.cue in the
// platform config directory ($XDG_CONFIG_HOME/keylens on Linux,
// ~/Library/Application Support/keylens on macOS, %APPDATA%\keylens on
// Windows), otherwise from keylens.cue in the working directory. The file is
// validated against an embedded schema (config_schema.cue) and merged over
// defaults; KEYLENS_* environment variables override both, for example
// KEYLENS_LIVE_UPDATES_DEBOUNCE_MS=500.
package config
