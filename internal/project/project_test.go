// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/keylens/keylens/internal/issue"
)

func writeSettings(t *testing.T, root, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(SettingsFile))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.SettingsPath() != "" {
		t.Errorf("SettingsPath() = %q, want empty", p.SettingsPath())
	}
	if p.BaseLocale() != DefaultLocale || !slices.Equal(p.Locales(), []string{DefaultLocale}) {
		t.Errorf("base=%q locales=%v", p.BaseLocale(), p.Locales())
	}
	if p.PathPattern() != DefaultPathPattern {
		t.Errorf("PathPattern() = %q", p.PathPattern())
	}
	if got, want := p.LocalePath("de"), filepath.Join(p.Root(), "messages", "de.json"); got != want {
		t.Errorf("LocalePath(de) = %q, want %q", got, want)
	}
	locale, tier := p.ActiveLocale("")
	if locale != DefaultLocale || tier != TierDefault {
		t.Errorf("ActiveLocale() = %q, %v", locale, tier)
	}
}

func TestLoad_Settings(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSettings(t, root, `{
		"$schema": "https://inlang.com/schema/project-settings",
		"baseLocale": "fr",
		"locales": ["en", "fr", "de", "en"],
		"plugin.inlang.messageFormat": {"pathPattern": "./i18n/{locale}.yaml"}
	}`)

	p, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.SettingsPath() == "" {
		t.Error("SettingsPath() should name the settings file")
	}
	if p.BaseLocale() != "fr" {
		t.Errorf("BaseLocale() = %q", p.BaseLocale())
	}
	if got := p.Locales(); !slices.Equal(got, []string{"en", "fr", "de"}) {
		t.Errorf("Locales() = %v", got)
	}
	set := p.LocaleSet()
	if set.Base != "fr" || !set.Contains("de") {
		t.Errorf("LocaleSet() = %+v", set)
	}
	if got, want := p.LocalePath("de"), filepath.Join(p.Root(), "i18n", "de.yaml"); got != want {
		t.Errorf("LocalePath(de) = %q, want %q", got, want)
	}
	locale, tier := p.ActiveLocale("")
	if locale != "fr" || tier != TierProject {
		t.Errorf("ActiveLocale() = %q, %v", locale, tier)
	}
	locale, tier = p.ActiveLocale(" de ")
	if locale != "de" || tier != TierOverride {
		t.Errorf("ActiveLocale(de) = %q, %v", locale, tier)
	}
}

func TestLoad_BaseLocaleAlwaysIncluded(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSettings(t, root, `{"baseLocale": "en", "locales": ["de", "fr"], "pathPattern": "locales/{locale}.json"}`)

	p, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := p.Locales(); !slices.Equal(got, []string{"en", "de", "fr"}) {
		t.Errorf("Locales() = %v", got)
	}
	if p.PathPattern() != "locales/{locale}.json" {
		t.Errorf("PathPattern() = %q", p.PathPattern())
	}
}

func TestLoad_InvalidSettings(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"bad json":          `{"baseLocale": `,
		"locales not list":  `{"locales": "en"}`,
		"locale not string": `{"locales": ["en", 3]}`,
		"empty base":        `{"baseLocale": ""}`,
		"pattern w/o slot":  `{"pathPattern": "./messages/all.json"}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeSettings(t, root, content)
			_, err := Load(root, nil)
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Issue != issue.ProjectSettingsInvalidId {
				t.Errorf("error = %v, want actionable settings error", err)
			}
			if name != "bad json" && !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestProject_IsLocaleFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p, err := Load(root, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file string
		want bool
	}{
		{"messages/en.json", true},
		{"./messages/de.json", true},
		{filepath.Join(root, "messages", "fr.json"), true},
		{"messages/nested/en.json", false},
		{"messages/en.yaml", false},
		{"src/app.ts", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := p.IsLocaleFile(tt.file); got != tt.want {
			t.Errorf("IsLocaleFile(%q) = %v, want %v", tt.file, got, tt.want)
		}
	}
}

func TestProject_LocaleOf(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSettings(t, root, `{"baseLocale": "en", "locales": ["en", "de"]}`)
	p, err := Load(root, nil)
	if err != nil {
		t.Fatal(err)
	}

	if locale, ok := p.LocaleOf("messages/de.json"); !ok || locale != "de" {
		t.Errorf("LocaleOf(de) = %q, %v", locale, ok)
	}
	if _, ok := p.LocaleOf("messages/it.json"); ok {
		t.Error("undeclared locale file should not map to a locale")
	}
}

func TestFindRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSettings(t, root, `{}`)
	deep := filepath.Join(root, "src", "routes")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindRoot(deep); got != root {
		t.Errorf("FindRoot() = %q, want %q", got, root)
	}

	lonely := t.TempDir()
	if got := FindRoot(lonely); got != lonely {
		t.Errorf("FindRoot() without settings = %q, want start", got)
	}
}

func TestTier_String(t *testing.T) {
	t.Parallel()

	for tier, want := range map[Tier]string{
		TierOverride: "override",
		TierProject:  "project",
		TierDefault:  "default",
		Tier(9):      "tier(9)",
	} {
		if got := tier.String(); got != want {
			t.Errorf("Tier(%d).String() = %q, want %q", int(tier), got, want)
		}
	}
}
