package tree

import (
	"github.com/lnrecon/lnrecon/src/source"
)

// Attrs is the plain input adapters use to describe a view. Values are
// scalars (or pointers to scalars), nested Attrs, or []Attrs for lists. A nil
// value, a nil pointer or an object whose fields are all absent is treated as
// absent.
type Attrs map[string]interface{}

// Build converts attrs to a tree where every node is tagged with src.
func Build(s *Schema, src source.Tag, attrs Attrs) (*Node, error) {
	if s.Type != ObjectType {
		return nil, NewMalformedViewError(nil, "root schema must be an object")
	}
	n, err := build(s, src, attrs, Path{})
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = NewObject(src)
	}
	return n, nil
}

// BuildView is Build followed by packaging into a View.
func BuildView(s *Schema, src source.Tag, key string, attrs Attrs) (*View, error) {
	root, err := Build(s, src, attrs)
	if err != nil {
		return nil, err
	}
	return &View{
		Source: src,
		Key:    key,
		Root:   root,
	}, nil
}

func build(s *Schema, src source.Tag, v interface{}, path Path) (*Node, error) {
	v, ok := deref(v)
	if !ok {
		return nil, nil
	}

	switch s.Type {
	case ObjectType:
		var attrs map[string]interface{}
		switch a := v.(type) {
		case Attrs:
			attrs = a
		case map[string]interface{}:
			attrs = a
		default:
			return nil, NewMalformedViewError(path, "expected object, got %T", v)
		}
		for name := range attrs {
			if _, ok := s.Field(name); !ok {
				return nil, NewMalformedViewError(path, "unknown field %q", name)
			}
		}
		n := NewObject(src)
		for _, f := range s.Fields {
			child, err := build(f.Schema, src, attrs[f.Name], path.Append(f.Name))
			if err != nil {
				return nil, err
			}
			if child != nil {
				n.Set(f.Name, child)
			}
		}
		if len(n.Fields) == 0 {
			return nil, nil
		}
		return n, nil

	case ListType:
		var elems []interface{}
		switch l := v.(type) {
		case []Attrs:
			for _, e := range l {
				elems = append(elems, e)
			}
		case []interface{}:
			elems = l
		default:
			return nil, NewMalformedViewError(path, "expected list, got %T", v)
		}
		n := NewList()
		for i, e := range elems {
			child, err := build(s.Elem, src, e, path.Append(i))
			if err != nil {
				return nil, err
			}
			if child != nil {
				n.Items = append(n.Items, child)
			}
		}
		if len(n.Items) == 0 {
			return nil, nil
		}
		if err := checkList(s, n, path); err != nil {
			return nil, err
		}
		SortList(s, n)
		return n, nil

	default:
		val, ok := normalize(s.Type, v)
		if !ok {
			return nil, NewMalformedViewError(path, "expected %s, got %T", s.Type, v)
		}
		return NewLeaf(src, val), nil
	}
}
