package tree

import (
	"bytes"
	"reflect"

	"github.com/lnrecon/lnrecon/src/source"
	"github.com/ugorji/go/codec"
)

// Reserved dump keys. Schema field names may not start with an underscore.
const (
	KeyField    = "_key"
	SourceField = "_source"
	ValueField  = "_value"
)

// Encode renders snap as plain nested maps and slices.
func Encode(s *Schema, snap *Snapshot) map[string]interface{} {
	m := encodeObject(s, snap.Root)
	m[KeyField] = snap.Key
	return m
}

func encodeObject(s *Schema, n *Node) map[string]interface{} {
	m := map[string]interface{}{
		SourceField: string(n.Source),
	}
	for _, f := range s.Fields {
		c := n.Get(f.Name)
		if c == nil {
			continue
		}
		switch f.Schema.Type {
		case ObjectType:
			m[f.Name] = encodeObject(f.Schema, c)
		case ListType:
			items := make([]interface{}, len(c.Items))
			for i, e := range c.Items {
				items[i] = encodeObject(f.Schema.Elem, e)
			}
			m[f.Name] = items
		default:
			if c.Source == n.Source {
				m[f.Name] = c.Value
			} else {
				m[f.Name] = map[string]interface{}{
					SourceField: string(c.Source),
					ValueField:  c.Value,
				}
			}
		}
	}
	return m
}

// Decode parses a dump produced by Encode. Unknown fields, unknown tags and
// values of the wrong type are rejected with a MalformedViewError.
func Decode(s *Schema, raw map[string]interface{}) (*Snapshot, error) {
	key, ok := raw[KeyField].(string)
	if !ok {
		return nil, NewMalformedViewError(nil, "missing %s", KeyField)
	}
	root, err := decodeObject(s, raw, "", Path{})
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Key:  key,
		Root: root,
	}
	return snap, nil
}

// DecodeView parses a single-source view document: the dump of a view, in
// which every tag is the same.
func DecodeView(s *Schema, raw map[string]interface{}) (*View, error) {
	snap, err := Decode(s, raw)
	if err != nil {
		return nil, err
	}
	src := snap.Root.Source
	var mixed Path
	Walk(s, snap.Root, func(path Path, ns *Schema, n *Node) bool {
		if mixed == nil && ns.Type != ListType && n.Source != src {
			mixed = path
		}
		return mixed == nil
	})
	if mixed != nil {
		return nil, NewMalformedViewError(mixed, "view mixes sources %s and %s", src, snap.Root.Lookup(mixed...).Source)
	}
	return &View{
		Source: src,
		Key:    snap.Key,
		Root:   snap.Root,
	}, nil
}

func decodeTag(v interface{}, path Path) (source.Tag, error) {
	s, ok := v.(string)
	if !ok {
		return "", NewMalformedViewError(path, "missing %s", SourceField)
	}
	tag, err := source.Parse(s)
	if err != nil {
		return "", NewMalformedViewError(path, "%v", err)
	}
	return tag, nil
}

func decodeObject(s *Schema, raw map[string]interface{}, parent source.Tag, path Path) (*Node, error) {
	var src source.Tag
	if v, ok := raw[SourceField]; ok || parent == "" {
		tag, err := decodeTag(v, path)
		if err != nil {
			return nil, err
		}
		src = tag
	} else {
		src = parent
	}

	for name := range raw {
		if name == SourceField || (name == KeyField && len(path) == 0) {
			continue
		}
		if _, ok := s.Field(name); !ok {
			return nil, NewMalformedViewError(path, "unknown field %q", name)
		}
	}

	n := NewObject(src)
	for _, f := range s.Fields {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			continue
		}
		fp := path.Append(f.Name)
		var (
			child *Node
			err   error
		)
		switch f.Schema.Type {
		case ObjectType:
			m, ok := asMap(v)
			if !ok {
				return nil, NewMalformedViewError(fp, "expected object, got %T", v)
			}
			child, err = decodeObject(f.Schema, m, src, fp)
		case ListType:
			child, err = decodeList(f.Schema, v, src, fp)
		default:
			child, err = decodeLeaf(f.Schema, v, src, fp)
		}
		if err != nil {
			return nil, err
		}
		n.Set(f.Name, child)
	}
	return n, nil
}

func decodeList(s *Schema, v interface{}, parent source.Tag, path Path) (*Node, error) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, NewMalformedViewError(path, "expected list, got %T", v)
	}
	n := NewList()
	for i, e := range items {
		m, ok := asMap(e)
		if !ok {
			return nil, NewMalformedViewError(path.Append(i), "expected object, got %T", e)
		}
		elem, err := decodeObject(s.Elem, m, parent, path.Append(i))
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, elem)
	}
	if err := checkList(s, n, path); err != nil {
		return nil, err
	}
	SortList(s, n)
	return n, nil
}

func decodeLeaf(s *Schema, v interface{}, parent source.Tag, path Path) (*Node, error) {
	src := parent
	if m, ok := asMap(v); ok {
		for name := range m {
			if name != SourceField && name != ValueField {
				return nil, NewMalformedViewError(path, "unexpected key %q in tagged leaf", name)
			}
		}
		tag, err := decodeTag(m[SourceField], path)
		if err != nil {
			return nil, err
		}
		src = tag
		v = m[ValueField]
	}
	val, ok := normalize(s.Type, v)
	if !ok {
		return nil, NewMalformedViewError(path, "expected %s, got %T", s.Type, v)
	}
	return NewLeaf(src, val), nil
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		res := make(map[string]interface{}, len(m))
		for k, e := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			res[ks] = e
		}
		return res, true
	}
	return nil, false
}

func jsonHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return jh
}

// Marshal encodes a dump, a projection or a diff as canonical JSON: map keys
// are sorted, so equal documents give identical bytes.
func Marshal(v interface{}) ([]byte, error) {
	var b bytes.Buffer
	enc := codec.NewEncoder(&b, jsonHandle())
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal decodes a JSON object into plain maps.
func Unmarshal(data []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	dec := codec.NewDecoderBytes(data, jsonHandle())
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarshalDump encodes snap as canonical JSON.
func MarshalDump(s *Schema, snap *Snapshot) ([]byte, error) {
	return Marshal(Encode(s, snap))
}

// UnmarshalDump is the inverse of MarshalDump.
func UnmarshalDump(s *Schema, data []byte) (*Snapshot, error) {
	raw, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Decode(s, raw)
}
