// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE helpers shared by configuration loading and
// CUE-formatted locale files.
//
// The usual flow is:
//
//  1. CheckFileSize on the raw bytes
//  2. Compile (optionally unified with an embedded schema definition)
//  3. FormatError on failure so messages carry a JSON-style path
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	value, err := cueutil.CompileWithSchema(schema, "#Config", data, "config.cue")
//	if err != nil {
//	    return err // includes "config.cue: live_updates.debounce_ms: ..."
//	}
package cueutil
