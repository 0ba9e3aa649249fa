// SPDX-License-Identifier: MPL-2.0

package localedata

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

type (
	// tomlOrder records the document order of the keys of every table in a
	// TOML document. Table paths join keys with \x00 and array indexes with
	// \x01.
	tomlOrder struct {
		keys   map[string][]string
		seen   map[string]bool
		arrays map[string]int
	}
)

// decodeTOML takes values from go-toml's decoder and key order from its
// expression parser, which sees the document as written.
func decodeTOML(data []byte) (*Object, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	order, err := readTOMLOrder(data)
	if err != nil {
		return nil, err
	}
	if m == nil {
		// An empty TOML document is an empty table.
		return NewObject(), nil
	}
	obj, _ := order.build("", m).(*Object)
	return obj, nil
}

func readTOMLOrder(data []byte) (*tomlOrder, error) {
	o := &tomlOrder{
		keys:   make(map[string][]string),
		seen:   make(map[string]bool),
		arrays: make(map[string]int),
	}

	var p unstable.Parser
	p.Reset(data)
	current := ""
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			current = o.path("", tomlKeyParts(expr.Key()))
		case unstable.ArrayTable:
			parts := tomlKeyParts(expr.Key())
			table := o.add(o.path("", parts[:len(parts)-1]), parts[len(parts)-1])
			o.arrays[table]++
			current = table + tomlIndex(o.arrays[table]-1)
		case unstable.KeyValue:
			o.keyValue(current, expr)
		}
	}
	return o, p.Error()
}

func tomlKeyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func tomlIndex(i int) string {
	return "\x01" + strconv.Itoa(i)
}

// add registers key under parent and returns the key's path.
func (o *tomlOrder) add(parent, key string) string {
	child := parent + "\x00" + key
	if !o.seen[child] {
		o.seen[child] = true
		o.keys[parent] = append(o.keys[parent], key)
	}
	return child
}

// path walks a dotted key from base. A segment naming an array of tables
// continues in its last element.
func (o *tomlOrder) path(base string, parts []string) string {
	for _, k := range parts {
		base = o.add(base, k)
		if n := o.arrays[base]; n > 0 {
			base += tomlIndex(n - 1)
		}
	}
	return base
}

func (o *tomlOrder) keyValue(base string, kv *unstable.Node) {
	parts := tomlKeyParts(kv.Key())
	parent := o.path(base, parts[:len(parts)-1])
	o.value(o.add(parent, parts[len(parts)-1]), kv.Value())
}

func (o *tomlOrder) value(path string, v *unstable.Node) {
	switch v.Kind {
	case unstable.InlineTable:
		it := v.Children()
		for it.Next() {
			o.keyValue(path, it.Node())
		}
	case unstable.Array:
		it := v.Children()
		for i := 0; it.Next(); i++ {
			o.value(path+tomlIndex(i), it.Node())
		}
	}
}

// build converts decoded TOML values into Objects ordered as the document
// lists them.
func (o *tomlOrder) build(path string, v any) any {
	switch t := v.(type) {
	case map[string]any:
		obj := NewObject()
		for _, k := range o.keys[path] {
			if child, ok := t[k]; ok {
				obj.Set(k, o.build(path+"\x00"+k, child))
			}
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if _, ok := obj.Get(k); !ok {
				obj.Set(k, o.build(path+"\x00"+k, t[k]))
			}
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = o.build(path+tomlIndex(i), e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = o.build(path+tomlIndex(i), e)
		}
		return out
	default:
		return v
	}
}

// encodeTOML writes obj keeping its key order. Within a table, plain values
// precede sub-tables because a table header ends the previous table.
func encodeTOML(obj *Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTOMLTable(&buf, "", obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTOMLTable(buf *bytes.Buffer, header string, obj *Object) error {
	var tables []string
	for _, k := range obj.keys {
		v := obj.values[k]
		if _, ok := v.(*Object); ok || isTableArray(v) {
			tables = append(tables, k)
			continue
		}
		line, err := toml.Marshal(map[string]any{k: plain(v)})
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Write(line)
	}

	for _, k := range tables {
		name, err := tomlKey(k)
		if err != nil {
			return err
		}
		if header != "" {
			name = header + "." + name
		}
		switch v := obj.values[k].(type) {
		case *Object:
			fmt.Fprintf(buf, "\n[%s]\n", name)
			if err := writeTOMLTable(buf, name, v); err != nil {
				return err
			}
		case []any:
			for _, e := range v {
				fmt.Fprintf(buf, "\n[[%s]]\n", name)
				if err := writeTOMLTable(buf, name, e.(*Object)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// isTableArray reports whether v is a non-empty list of mappings.
func isTableArray(v any) bool {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return false
	}
	for _, e := range list {
		if _, ok := e.(*Object); !ok {
			return false
		}
	}
	return true
}

// tomlKey quotes k the way go-toml quotes keys.
func tomlKey(k string) (string, error) {
	line, err := toml.Marshal(map[string]any{k: ""})
	if err != nil {
		return "", fmt.Errorf("encode key %q: %w", k, err)
	}
	s := string(line)
	i := strings.LastIndex(s, " = ")
	if i < 0 {
		return "", fmt.Errorf("encode key %q: unexpected output %q", k, s)
	}
	return s[:i], nil
}
