// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"fmt"
	"io"

	"github.com/keylens/keylens/internal/localedata"
	"github.com/keylens/keylens/internal/scan"

	"github.com/charmbracelet/log"
)

// Pipeline scans a document and resolves every call in it.
type Pipeline struct {
	scanner *scan.Scanner
	logger  *log.Logger
}

// NewPipeline creates a Pipeline. A nil scanner uses the default namespace;
// a nil logger discards output.
func NewPipeline(scanner *scan.Scanner, logger *log.Logger) *Pipeline {
	if scanner == nil {
		scanner = scan.New(scan.DefaultNamespace)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{scanner: scanner, logger: logger.With("component", "resolve")}
}

// Scanner returns the scanner the pipeline uses.
func (p *Pipeline) Scanner() *scan.Scanner {
	return p.scanner
}

// Run loads the active locale's data from src and resolves text against it.
func (p *Pipeline) Run(ctx context.Context, text string, src Source, activeLocale string, set LocaleSet) []ResolvedCall {
	pass := forPass(src)
	return p.ResolveDocument(ctx, text, pass.Data(ctx, activeLocale), pass, activeLocale, set)
}

// ResolveDocument resolves every call in text, in scan order.
//
// A call that resolves against active is Resolved. Otherwise the other
// locales in set are searched and a hit is ResolvedElsewhere. Anything left
// is Unresolved. active may be nil, in which case every call goes straight
// to the search. A failure while resolving one call makes that call
// Unresolved and never affects its siblings.
func (p *Pipeline) ResolveDocument(
	ctx context.Context,
	text string,
	active *localedata.Object,
	src Source,
	activeLocale string,
	set LocaleSet,
) []ResolvedCall {
	calls := p.scan(text)
	pass := forPass(src)

	out := make([]ResolvedCall, 0, len(calls))
	for _, call := range calls {
		out = append(out, p.resolveCall(ctx, call, active, pass, activeLocale, set))
	}
	return out
}

func (p *Pipeline) scan(text string) (calls []scan.Call) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("scan failed", "err", fmt.Sprint(rec))
			calls = nil
		}
	}()
	return p.scanner.Scan(text)
}

func (p *Pipeline) resolveCall(
	ctx context.Context,
	call scan.Call,
	active *localedata.Object,
	src Source,
	activeLocale string,
	set LocaleSet,
) (rc ResolvedCall) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("resolve failed", "key", call.Key, "offset", call.Start, "err", fmt.Sprint(rec))
			rc = ResolvedCall{Call: call, State: Unresolved}
		}
	}()

	if value, ok := Resolve(active, call.Key); ok {
		return ResolvedCall{Call: call, Value: &value, State: Resolved}
	}

	if hit, ok := SearchOtherLocales(ctx, src, call.Key, activeLocale, set); ok {
		return ResolvedCall{Call: call, Value: &hit.Value, State: ResolvedElsewhere, FoundIn: hit.Locale}
	}

	p.logger.Debug("key unresolved", "key", call.Key, "locale", activeLocale)
	return ResolvedCall{Call: call, State: Unresolved}
}
