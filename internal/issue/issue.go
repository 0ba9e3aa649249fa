// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedId Id = iota + 1
	ProjectSettingsInvalidId
	LocaleFileNotFoundId
	LocaleFileMalformedId
	LocaleFormatReadOnlyId
	LocaleKeyConflictId
	SourceFileUnreadableId
	UnknownLocaleId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of a catalog entry.
	MarkdownMsg string

	// HttpLink is an external reference.
	HttpLink string

	// Issue is one catalog entry.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

keylens reads its settings from a CUE file.

## Search locations (in order of precedence):
1. The file passed with ` + "`--config`" + `
2. ` + "`$XDG_CONFIG_HOME/keylens/config.cue`" + ` (platform equivalent elsewhere)
3. ` + "`./keylens.cue`" + `

## Things you can try:
- Print the effective defaults and start from them:
~~~
$ keylens config show > keylens.cue
~~~
- Check field names and types; unknown fields are rejected.`,
		docLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
	}

	projectSettingsInvalidIssue = &Issue{
		id: ProjectSettingsInvalidId,
		mdMsg: `
# Project settings are invalid

` + "`project.inlang/settings.json`" + ` exists but could not be read.

## Things you can try:
- Validate the JSON syntax.
- Make sure ` + "`locales`" + ` is a list of strings and ` + "`baseLocale`" + ` is a string.
- Delete the file to fall back to the defaults (base locale ` + "`en`" + `, files in ` + "`./messages/{locale}.json`" + `).`,
	}

	localeFileNotFoundIssue = &Issue{
		id: LocaleFileNotFoundId,
		mdMsg: `
# Locale file not found

No data file exists for the requested locale.

## Things you can try:
- Check the ` + "`pathPattern`" + ` in your project settings.
- Create the file, or write a first entry:
~~~
$ keylens set greeting "Hello" --locale en
~~~`,
	}

	localeFileMalformedIssue = &Issue{
		id: LocaleFileMalformedId,
		mdMsg: `
# Locale file is malformed

The file could not be parsed, so every key in it is treated as missing.

## Things you can try:
- Fix the syntax; the top level must be a mapping.
- Supported formats are JSON, YAML, TOML and CUE (by extension).`,
	}

	localeFormatReadOnlyIssue = &Issue{
		id: LocaleFormatReadOnlyId,
		mdMsg: `
# Locale format is read-only

CUE locale files can be resolved but not written.

## Things you can try:
- Edit the CUE file by hand.
- Switch the locale to JSON, YAML or TOML if you need ` + "`keylens set`" + `.`,
	}

	localeKeyConflictIssue = &Issue{
		id: LocaleKeyConflictId,
		mdMsg: `
# Key conflicts with an existing value

A segment of the dotted key already holds a value that is not a mapping,
so the nested path cannot be created.

## Things you can try:
- Pick a key that does not pass through a string leaf.
- Rename or move the existing value first.`,
	}

	sourceFileUnreadableIssue = &Issue{
		id: SourceFileUnreadableId,
		mdMsg: `
# Source file could not be read

## Things you can try:
- Check the path and file permissions.
- Pass files relative to the current directory or as absolute paths.`,
	}

	unknownLocaleIssue = &Issue{
		id: UnknownLocaleId,
		mdMsg: `
# Unknown locale

The locale is not part of the project's locale list.

## Things you can try:
- List the configured locales:
~~~
$ keylens locale
~~~
- Add the locale to ` + "`locales`" + ` in ` + "`project.inlang/settings.json`" + `.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		projectSettingsInvalidIssue.Id(): projectSettingsInvalidIssue,
		localeFileNotFoundIssue.Id():     localeFileNotFoundIssue,
		localeFileMalformedIssue.Id():    localeFileMalformedIssue,
		localeFormatReadOnlyIssue.Id():   localeFormatReadOnlyIssue,
		localeKeyConflictIssue.Id():      localeKeyConflictIssue,
		sourceFileUnreadableIssue.Id():   sourceFileUnreadableIssue,
		unknownLocaleIssue.Id():          unknownLocaleIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the entry with the named glamour style ("dark", "light",
// "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
