// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"sync"
	"testing"

	"github.com/keylens/keylens/internal/localedata"
)

// mustJSON decodes a JSON locale mapping or fails the test.
func mustJSON(t *testing.T, doc string) *localedata.Object {
	t.Helper()
	obj, err := localedata.Decode([]byte(doc), localedata.FormatJSON)
	if err != nil {
		t.Fatalf("decode %s: %v", doc, err)
	}
	return obj
}

// mapSource serves fixed data per locale and counts loads.
type mapSource struct {
	mu    sync.Mutex
	data  map[string]*localedata.Object
	loads map[string]int
}

func newMapSource(data map[string]*localedata.Object) *mapSource {
	return &mapSource{data: data, loads: make(map[string]int)}
}

func (m *mapSource) Data(_ context.Context, locale string) *localedata.Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads[locale]++
	return m.data[locale]
}

func (m *mapSource) loadCount(locale string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads[locale]
}
