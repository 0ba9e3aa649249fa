// SPDX-License-Identifier: MPL-2.0

package localedata

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRepository_LoadFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "en.json", `{"$schema": "x", "greeting": "Hello", "login": {"title": "Sign in"}}`},
		{"yaml", "en.yaml", "greeting: Hello\nlogin:\n  title: Sign in\n"},
		{"yml", "en.yml", "greeting: Hello\nlogin:\n  title: Sign in\n"},
		{"toml", "en.toml", "greeting = \"Hello\"\n[login]\ntitle = \"Sign in\"\n"},
		{"cue", "en.cue", "greeting: \"Hello\"\nlogin: title: \"Sign in\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			obj := NewRepository(nil).Load(path, "en")
			if obj == nil {
				t.Fatalf("Load(%s) returned nil", tt.file)
			}
			if v, _ := obj.Get("greeting"); v != "Hello" {
				t.Errorf("greeting = %#v, want Hello", v)
			}
			login, ok := obj.Get("login")
			if !ok {
				t.Fatal("login missing")
			}
			nested, ok := login.(*Object)
			if !ok {
				t.Fatalf("login is %T, want *Object", login)
			}
			if v, _ := nested.Get("title"); v != "Sign in" {
				t.Errorf("login.title = %#v", v)
			}
		})
	}
}

func TestRepository_PreservesKeyOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := NewRepository(nil)
	want := []string{"zeta", "alpha", "mid"}

	for name, content := range map[string]string{
		"o.json": `{"zeta": "1", "alpha": "2", "mid": "3"}`,
		"o.yaml": "zeta: '1'\nalpha: '2'\nmid: '3'\n",
		"o.cue":  "zeta: \"1\"\nalpha: \"2\"\nmid: \"3\"\n",
	} {
		obj := repo.Load(writeFile(t, dir, name, content), "en")
		if got := obj.Keys(); !slices.Equal(got, want) {
			t.Errorf("%s keys = %v, want %v", name, got, want)
		}
	}

	obj := repo.Load(writeFile(t, dir, "o.toml", "zeta = \"1\"\nalpha = \"2\"\nmid = \"3\"\n"), "en")
	if got := obj.Keys(); !slices.Equal(got, want) {
		t.Errorf("toml keys = %v, want %v", got, want)
	}
}

func TestDecode_TOMLDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := `title = "T"
nav.zeta = "z"
nav.alpha = "a"
inline = { b = "1", a = "2" }

[[greeting]]
[greeting.match]
"count=other" = "Many"
"count=one" = "One"

[[greeting]]
match = { y = "Y", x = "X" }

[z_table]
k = "v"

[a_table]
k = "v"
`
	obj, err := Decode([]byte(doc), FormatTOML)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := obj.Keys(); !slices.Equal(got, []string{"title", "nav", "inline", "greeting", "z_table", "a_table"}) {
		t.Errorf("top-level keys = %v", got)
	}

	keysAt := func(v any) []string {
		t.Helper()
		o, ok := v.(*Object)
		if !ok {
			t.Fatalf("value is %T, want *Object", v)
		}
		return o.Keys()
	}
	nav, _ := obj.Get("nav")
	if got := keysAt(nav); !slices.Equal(got, []string{"zeta", "alpha"}) {
		t.Errorf("nav keys = %v", got)
	}
	inline, _ := obj.Get("inline")
	if got := keysAt(inline); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("inline keys = %v", got)
	}

	greeting, _ := obj.Get("greeting")
	records, ok := greeting.([]any)
	if !ok || len(records) != 2 {
		t.Fatalf("greeting = %#v, want 2 records", greeting)
	}
	for i, want := range [][]string{{"count=other", "count=one"}, {"y", "x"}} {
		match, _ := records[i].(*Object).Get("match")
		if got := keysAt(match); !slices.Equal(got, want) {
			t.Errorf("record %d match keys = %v, want %v", i, got, want)
		}
	}
}

func TestRepository_VariantLists(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "en.json",
		`{"greeting": [{"match": {"count=one": "One", "count=other": "Many"}}, {"match": {"x": "Yo"}}]}`)
	obj := NewRepository(nil).Load(path, "en")

	v, _ := obj.Get("greeting")
	list, ok := v.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("greeting = %#v, want 2-element list", v)
	}
	first, ok := list[0].(*Object)
	if !ok {
		t.Fatalf("variant record is %T", list[0])
	}
	match, _ := first.Get("match")
	if keys := match.(*Object).Keys(); !slices.Equal(keys, []string{"count=one", "count=other"}) {
		t.Errorf("match keys = %v", keys)
	}
}

func TestRepository_ReadFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := NewRepository(nil)

	tests := []struct {
		name     string
		file     string
		content  string
		sentinel error
	}{
		{"invalid json", "bad.json", `{"greeting": "Hello",`, ErrMalformedData},
		{"json array top level", "arr.json", `["a", "b"]`, ErrMalformedData},
		{"json string top level", "str.json", `"hello"`, ErrMalformedData},
		{"json trailing data", "trail.json", `{"a": "b"} {"c": "d"}`, ErrMalformedData},
		{"empty json", "empty.json", ``, ErrMalformedData},
		{"yaml list top level", "list.yaml", "- a\n- b\n", ErrMalformedData},
		{"invalid yaml", "bad.yaml", "a: [b\n", ErrMalformedData},
		{"invalid toml", "bad.toml", "a = \n", ErrMalformedData},
		{"invalid cue", "bad.cue", "a: \"b\n", ErrMalformedData},
		{"cue list top level", "list.cue", "[1, 2]\n", ErrMalformedData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, dir, tt.file, tt.content)
			obj, err := repo.Read(path)
			if obj != nil {
				t.Errorf("Read() returned data %v, want nil", obj)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Read() error = %v, want %v", err, tt.sentinel)
			}
			var malformed *MalformedDataError
			if !errors.As(err, &malformed) || malformed.Path != path {
				t.Errorf("expected *MalformedDataError for %s, got %T", path, err)
			}
			if got := repo.Load(path, "en"); got != nil {
				t.Errorf("Load() = %v, want nil", got)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "nope.json")
		_, err := repo.Read(path)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Read() error = %v, want ErrNotFound", err)
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Path != path {
			t.Errorf("expected *NotFoundError, got %T", err)
		}
		if repo.Load(path, "en") != nil {
			t.Error("Load() of a missing file must be nil")
		}
	})
}

func TestRepository_Exists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := NewRepository(nil)
	path := writeFile(t, dir, "en.json", `not even json`)

	if !repo.Exists(path) {
		t.Error("Exists() = false for a present file")
	}
	if repo.Exists(filepath.Join(dir, "fr.json")) {
		t.Error("Exists() = true for a missing file")
	}
	if repo.Exists(dir) {
		t.Error("Exists() = true for a directory")
	}
}

func TestRepository_SetEntry(t *testing.T) {
	t.Parallel()

	t.Run("creates file and nested path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "messages", "de.json")
		repo := NewRepository(nil)
		if err := repo.SetEntry(path, "login.inputs.email", "E-Mail"); err != nil {
			t.Fatalf("SetEntry() error: %v", err)
		}
		obj := repo.Load(path, "de")
		login, _ := obj.Get("login")
		inputs, _ := login.(*Object).Get("inputs")
		if v, _ := inputs.(*Object).Get("email"); v != "E-Mail" {
			t.Errorf("login.inputs.email = %#v", v)
		}
	})

	t.Run("preserves order and literal keys", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "en.json", `{"b": "1", "a.b": "literal", "a": {"x": "2"}}`)
		repo := NewRepository(nil)
		if err := repo.SetEntry(path, "a.b", "changed"); err != nil {
			t.Fatalf("SetEntry() error: %v", err)
		}
		if err := repo.SetEntry(path, "a.y", "new"); err != nil {
			t.Fatalf("SetEntry() error: %v", err)
		}
		obj := repo.Load(path, "en")
		if got := obj.Keys(); !slices.Equal(got, []string{"b", "a.b", "a"}) {
			t.Errorf("keys = %v", got)
		}
		if v, _ := obj.Get("a.b"); v != "changed" {
			t.Errorf("literal key = %#v", v)
		}
		a, _ := obj.Get("a")
		if got := a.(*Object).Keys(); !slices.Equal(got, []string{"x", "y"}) {
			t.Errorf("a keys = %v", got)
		}
	})

	t.Run("yaml and toml round trip", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		repo := NewRepository(nil)
		paths := map[string]string{
			"new yaml":   filepath.Join(dir, "fresh.yaml"),
			"empty toml": writeFile(t, dir, "en.toml", ""),
		}
		for name, path := range paths {
			if err := repo.SetEntry(path, "nav.home", "Home"); err != nil {
				t.Fatalf("%s: SetEntry() error: %v", name, err)
			}
			obj := repo.Load(path, "en")
			nav, _ := obj.Get("nav")
			navObj, ok := nav.(*Object)
			if !ok {
				t.Fatalf("%s: nav is %T", name, nav)
			}
			if v, _ := navObj.Get("home"); v != "Home" {
				t.Errorf("%s: nav.home = %#v", name, v)
			}
		}
	})

	t.Run("toml keeps key order", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "en.toml",
			"zeta = \"1\"\nalpha = \"2\"\n\n[nav]\nhome = \"Home\"\nabout = \"About\"\n\n[[plural]]\n[plural.match]\n\"n=other\" = \"Many\"\n\"n=one\" = \"One\"\n")
		repo := NewRepository(nil)
		if err := repo.SetEntry(path, "nav.back", "Back"); err != nil {
			t.Fatalf("SetEntry() error: %v", err)
		}
		if err := repo.SetEntry(path, "beta", "3"); err != nil {
			t.Fatalf("SetEntry() error: %v", err)
		}
		obj := repo.Load(path, "en")
		if got := obj.Keys(); !slices.Equal(got, []string{"zeta", "alpha", "beta", "nav", "plural"}) {
			t.Errorf("keys = %v", got)
		}
		nav, _ := obj.Get("nav")
		if got := nav.(*Object).Keys(); !slices.Equal(got, []string{"home", "about", "back"}) {
			t.Errorf("nav keys = %v", got)
		}
		plural, _ := obj.Get("plural")
		match, _ := plural.([]any)[0].(*Object).Get("match")
		if got := match.(*Object).Keys(); !slices.Equal(got, []string{"n=other", "n=one"}) {
			t.Errorf("plural match keys = %v", got)
		}
	})

	t.Run("conflict with string leaf", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "en.json", `{"login": "Login"}`)
		err := NewRepository(nil).SetEntry(path, "login.title", "x")
		if !errors.Is(err, ErrKeyConflict) {
			t.Errorf("SetEntry() error = %v, want ErrKeyConflict", err)
		}
	})

	t.Run("cue is read-only", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "en.cue", `a: "b"`)
		if err := NewRepository(nil).SetEntry(path, "a", "c"); !errors.Is(err, ErrReadOnlyFormat) {
			t.Errorf("SetEntry() error = %v, want ErrReadOnlyFormat", err)
		}
	})

	t.Run("malformed file is not clobbered", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "en.json", `{oops`)
		if err := NewRepository(nil).SetEntry(path, "a", "b"); !errors.Is(err, ErrMalformedData) {
			t.Errorf("SetEntry() error = %v, want ErrMalformedData", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != `{oops` {
			t.Errorf("file was rewritten: %q", data)
		}
	})
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"messages/en.json": FormatJSON,
		"messages/en.YAML": FormatYAML,
		"en.yml":           FormatYAML,
		"en.toml":          FormatTOML,
		"en.cue":           FormatCUE,
		"en.txt":           FormatJSON,
		"en":               FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestObject_NilSafe(t *testing.T) {
	t.Parallel()

	var o *Object
	if _, ok := o.Get("x"); ok {
		t.Error("nil Object reported a key")
	}
	if o.Len() != 0 || o.Keys() != nil {
		t.Error("nil Object should be empty")
	}
	data, err := o.MarshalJSON()
	if err != nil || string(data) != "null" {
		t.Errorf("MarshalJSON() = %s, %v", data, err)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	obj, err := Decode([]byte(`{"a": {"b": "c"}}`), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if obj.Len() != 1 {
		t.Errorf("Len() = %d", obj.Len())
	}
	if _, err := Decode([]byte(`a: [`), FormatYAML); err == nil {
		t.Error("expected YAML error")
	}
}
