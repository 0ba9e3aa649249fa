// SPDX-License-Identifier: MPL-2.0

package localedata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/keylens/keylens/pkg/cueutil"

	"cuelang.org/go/cue"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON is the default locale format.
	FormatJSON Format = "json"
	// FormatYAML covers .yaml and .yml files.
	FormatYAML Format = "yaml"
	// FormatTOML covers .toml files.
	FormatTOML Format = "toml"
	// FormatCUE covers .cue files. They can be read but not written.
	FormatCUE Format = "cue"
)

// errTopLevel reports a document whose root is not a mapping.
var errTopLevel = errors.New("top-level value must be a mapping")

// Format names a locale file encoding.
type Format string

// FormatFor picks the format from the file extension. Unknown extensions are
// read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".cue":
		return FormatCUE
	default:
		return FormatJSON
	}
}

// Decode parses data as a locale mapping in format f.
func Decode(data []byte, f Format) (*Object, error) {
	return f.decode(data, "<input>."+string(f))
}

func (f Format) decode(data []byte, filename string) (*Object, error) {
	switch f {
	case FormatYAML:
		return decodeYAML(data)
	case FormatTOML:
		return decodeTOML(data)
	case FormatCUE:
		return decodeCUE(data, filename)
	default:
		return decodeJSON(data)
	}
}

func (f Format) encode(obj *Object) ([]byte, error) {
	switch f {
	case FormatYAML:
		node, err := yamlNode(obj)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(node)
	case FormatTOML:
		return encodeTOML(obj)
	case FormatCUE:
		return nil, ErrReadOnlyFormat
	default:
		out, err := json.MarshalIndent(obj, "", "\t")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}

// --- JSON ---

func decodeJSON(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, errTopLevel
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return obj, nil
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			v, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := make([]any, 0)
		for dec.More() {
			v, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// --- YAML ---

func decodeYAML(data []byte) (*Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errTopLevel
	}
	v, err := fromYAML(doc.Content[0])
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, errTopLevel
	}
	return obj, nil
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported YAML node at line %d", n.Line)
	}
}

func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.keys {
			child, err := yamlNode(t.values[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			child, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(t); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// --- CUE ---

func decodeCUE(data []byte, filename string) (*Object, error) {
	value, err := cueutil.Compile(data, filename)
	if err != nil {
		return nil, err
	}
	if value.IncompleteKind() != cue.StructKind {
		return nil, errTopLevel
	}
	v, err := fromCUE(value)
	if err != nil {
		return nil, cueutil.FormatError(err, filename)
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, errTopLevel
	}
	return obj, nil
}

func fromCUE(v cue.Value) (any, error) {
	switch v.IncompleteKind() {
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		obj := NewObject()
		for iter.Next() {
			child, err := fromCUE(iter.Value())
			if err != nil {
				return nil, err
			}
			obj.Set(iter.Selector().Unquoted(), child)
		}
		return obj, nil
	case cue.ListKind:
		items, err := v.List()
		if err != nil {
			return nil, err
		}
		list := make([]any, 0)
		for items.Next() {
			child, err := fromCUE(items.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, child)
		}
		return list, nil
	case cue.StringKind:
		return v.String()
	default:
		var out any
		if err := v.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
