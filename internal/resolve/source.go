// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"sync"

	"github.com/keylens/keylens/internal/localedata"
)

type (
	// Loader loads one locale file, returning nil when it is missing or
	// malformed. *localedata.Repository implements it.
	Loader interface {
		Load(path, locale string) *localedata.Object
	}

	// Locator maps a locale identifier to its data file.
	Locator interface {
		LocalePath(locale string) string
	}

	// Source hands out locale data by locale identifier.
	Source interface {
		Data(ctx context.Context, locale string) *localedata.Object
	}

	// Files is a Source that reads a locale's file on every call.
	Files struct {
		Loader  Loader
		Locator Locator
	}

	// passSource memoizes a Source for the duration of one resolution pass.
	passSource struct {
		src  Source
		mu   sync.Mutex
		data map[string]*localedata.Object
	}
)

// Data loads locale's file. A cancelled context yields nil.
func (f Files) Data(ctx context.Context, locale string) *localedata.Object {
	if ctx.Err() != nil {
		return nil
	}
	return f.Loader.Load(f.Locator.LocalePath(locale), locale)
}

// forPass wraps src so each locale is loaded at most once. The result must
// not outlive the pass: data read through it is never refreshed.
func forPass(src Source) *passSource {
	if ps, ok := src.(*passSource); ok {
		return ps
	}
	return &passSource{src: src, data: make(map[string]*localedata.Object)}
}

func (p *passSource) Data(ctx context.Context, locale string) *localedata.Object {
	p.mu.Lock()
	defer p.mu.Unlock()

	if obj, ok := p.data[locale]; ok {
		return obj
	}
	obj := p.src.Data(ctx, locale)
	if ctx.Err() == nil {
		p.data[locale] = obj
	}
	return obj
}
