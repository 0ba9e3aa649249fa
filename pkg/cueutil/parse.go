// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds every CUE document read from disk.
const DefaultMaxFileSize int64 = 5 << 20

// Compile compiles data as a standalone CUE document. The filename only
// appears in error messages.
func Compile(data []byte, filename string) (cue.Value, error) {
	if filename == "" {
		filename = "<input>"
	}
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if value.Err() != nil {
		return cue.Value{}, FormatError(value.Err(), filename)
	}
	return value, nil
}

// CompileWithSchema compiles data, unifies it with the definition at
// schemaPath inside schema, and validates the result. Fields left open by
// the schema are allowed to stay non-concrete so defaults can fill them.
func CompileWithSchema(schema, schemaPath string, data []byte, filename string) (cue.Value, error) {
	if filename == "" {
		filename = "<input>"
	}
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return unified, nil
}
