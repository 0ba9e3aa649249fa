// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	"cuelang.org/go/cue"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "messages/en.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is prefixed with the file", func(t *testing.T) {
		t.Parallel()

		original := errors.New("disk on fire")
		err := FormatError(original, "messages/en.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.HasPrefix(err.Error(), "messages/en.cue: ") {
			t.Errorf("error should start with the file path, got: %v", err)
		}
		if !errors.Is(err, original) {
			t.Errorf("error should wrap the original, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{"empty path", []string{}, ""},
		{"single element", []string{"greeting"}, "greeting"},
		{"nested path", []string{"login", "title"}, "login.title"},
		{"variant index", []string{"greeting", "0", "match"}, "greeting[0].match"},
		{"leading number is a key", []string{"404", "title"}, "404.title"},
		{"nested indices", []string{"items", "0", "values", "1"}, "items[0].values[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"within limit", 11, false},
		{"exact limit", 100, false},
		{"over limit", 101, true},
		{"empty", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "en.cue")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && (!strings.Contains(err.Error(), "en.cue") || !strings.Contains(err.Error(), "101")) {
				t.Errorf("error should name the file and size, got: %v", err)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	value, err := Compile([]byte(`greeting: "Hello"`), "en.cue")
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	got, err := value.LookupPath(cue.ParsePath("greeting")).String()
	if err != nil || got != "Hello" {
		t.Errorf("greeting = %q, %v", got, err)
	}

	if _, err := Compile([]byte(`greeting: "Hello`), "broken.cue"); err == nil {
		t.Error("expected a syntax error")
	} else if !strings.Contains(err.Error(), "broken.cue") {
		t.Errorf("error should name the file, got: %v", err)
	}
}

func TestCompileWithSchema(t *testing.T) {
	t.Parallel()

	schema := `#Config: {
	delay?: int & >=0
	name?:  string
}`

	if _, err := CompileWithSchema(schema, "#Config", []byte(`delay: 10`), "ok.cue"); err != nil {
		t.Errorf("valid document rejected: %v", err)
	}

	_, err := CompileWithSchema(schema, "#Config", []byte(`delay: -1`), "bad.cue")
	if err == nil {
		t.Fatal("expected bound violation")
	}
	if !strings.Contains(err.Error(), "bad.cue") || !strings.Contains(err.Error(), "delay") {
		t.Errorf("error should carry file and path, got: %v", err)
	}

	if _, err := CompileWithSchema(schema, "#Config", []byte(`unknown: 1`), "closed.cue"); err == nil {
		t.Error("definitions are closed; unknown fields should fail")
	}

	if _, err := CompileWithSchema(schema, "#Missing", []byte(`delay: 1`), "x.cue"); err == nil {
		t.Error("expected missing definition error")
	}
}
