// SPDX-License-Identifier: MPL-2.0

package messages

import (
	"embed"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// Message IDs present in every embedded catalog.
const (
	HintMissing            = "hint_missing"
	HintFoundIn            = "hint_found_in"
	TreeActiveLocale       = "tree_active_locale"
	TreeKeys               = "tree_keys"
	TreeOccurrences        = "tree_occurrences"
	HoverTitle             = "hover_title"
	HoverLocale            = "hover_locale"
	HoverValue             = "hover_value"
	HoverAbsent            = "hover_absent"
	StateResolved          = "state_resolved"
	StateResolvedElsewhere = "state_resolved_elsewhere"
	StateUnresolved        = "state_unresolved"
	LocaleChosenBy         = "locale_chosen_by"
	EntryWritten           = "entry_written"
	WatchStarted           = "watch_started"
	NoCalls                = "no_calls"
)

var (
	//go:embed active.*.toml
	catalogFS embed.FS

	catalogFiles = []string{"active.en.toml", "active.de.toml"}
)

// Catalog renders CLI labels in one language.
type Catalog struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	tag       language.Tag
}

// New builds a Catalog for lang, matched against the embedded languages.
// Unknown or empty tags select English.
func New(lang string) *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range catalogFiles {
		if _, err := bundle.LoadMessageFileFS(catalogFS, file); err != nil {
			log.Warn("messages: failed to load catalog", "file", file, "err", err)
		}
	}

	tag := language.English
	if requested, err := language.Parse(lang); err == nil {
		matcher := language.NewMatcher(bundle.LanguageTags())
		_, idx, conf := matcher.Match(requested)
		if conf != language.No {
			tag = bundle.LanguageTags()[idx]
		}
	}

	return &Catalog{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		tag:       tag,
	}
}

// Language returns the tag the catalog renders in.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// T renders message id with data. An unknown id renders as the id itself.
func (c *Catalog) T(id string, data map[string]any) string {
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

// Plural renders the plural form of id selected by count. Count is also
// available to the template as {{.Count}}.
func (c *Catalog) Plural(id string, count int, data map[string]any) string {
	merged := make(map[string]any, len(data)+1)
	for k, v := range data {
		merged[k] = v
	}
	merged["Count"] = count

	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: merged,
		PluralCount:  count,
	})
	if err != nil {
		return id
	}
	return msg
}

// Detect picks the CLI language: configured wins, then LC_ALL, LC_MESSAGES and
// LANG, then English. POSIX locale names such as de_DE.UTF-8 are accepted.
func Detect(configured string) string {
	if tag := normalize(configured); tag != "" {
		return tag
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag := normalize(os.Getenv(env)); tag != "" {
			return tag
		}
	}
	return language.English.String()
}

func normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" || raw == "C" || raw == "POSIX" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return ""
	}
	return tag.String()
}
