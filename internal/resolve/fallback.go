// SPDX-License-Identifier: MPL-2.0

package resolve

import "context"

// SearchOtherLocales walks set.Locales in declared order, skipping exclude,
// and returns the first locale that resolves key. It is a first-configured
// match, not a best match. A locale whose data cannot be loaded counts as
// having no value; the search moves on. A cancelled context ends the search
// without a hit.
func SearchOtherLocales(ctx context.Context, src Source, key, exclude string, set LocaleSet) (Hit, bool) {
	for _, locale := range set.Locales {
		if locale == exclude {
			continue
		}
		if ctx.Err() != nil {
			return Hit{}, false
		}
		if value, ok := Resolve(src.Data(ctx, locale), key); ok {
			return Hit{Locale: locale, Value: value}, true
		}
	}
	return Hit{}, false
}

// AllLocales resolves key in every locale of set, in declared order.
func AllLocales(ctx context.Context, src Source, key string, set LocaleSet) []LocaleValue {
	src = forPass(src)
	out := make([]LocaleValue, 0, len(set.Locales))
	for _, locale := range set.Locales {
		value, ok := Resolve(src.Data(ctx, locale), key)
		out = append(out, LocaleValue{Locale: locale, Value: value, Found: ok})
	}
	return out
}
