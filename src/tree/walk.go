package tree

// Visitor is called for every present node, in schema order. Returning false
// skips the node's children.
type Visitor func(path Path, s *Schema, n *Node) bool

// Walk visits n and its descendants following s.
func Walk(s *Schema, n *Node, fn Visitor) {
	walk(s, n, Path{}, fn)
}

func walk(s *Schema, n *Node, path Path, fn Visitor) {
	if n == nil {
		return
	}
	if !fn(path, s, n) {
		return
	}
	switch s.Type {
	case ObjectType:
		for _, f := range s.Fields {
			walk(f.Schema, n.Get(f.Name), path.Append(f.Name), fn)
		}
	case ListType:
		for i, e := range n.Items {
			walk(s.Elem, e, path.Append(i), fn)
		}
	}
}

// AnyLeaf reports whether some leaf of n satisfies pred.
func AnyLeaf(s *Schema, n *Node, pred func(path Path, leaf *Node) bool) bool {
	found := false
	Walk(s, n, func(path Path, ls *Schema, ln *Node) bool {
		if found {
			return false
		}
		if ls.IsLeaf() && pred(path, ln) {
			found = true
		}
		return true
	})
	return found
}

// Validate checks that n conforms to s: no undeclared fields, leaf values of
// the declared type, known provenance tags, and well-formed lists.
func Validate(s *Schema, n *Node) error {
	return validate(s, n, Path{})
}

func validate(s *Schema, n *Node, path Path) error {
	if n == nil {
		return nil
	}
	switch s.Type {
	case ObjectType:
		if !n.Source.Valid() {
			return NewMalformedViewError(path, "unknown source %q", n.Source)
		}
		for name := range n.Fields {
			if _, ok := s.Field(name); !ok {
				return NewMalformedViewError(path, "unknown field %q", name)
			}
		}
		for _, f := range s.Fields {
			if err := validate(f.Schema, n.Get(f.Name), path.Append(f.Name)); err != nil {
				return err
			}
		}
	case ListType:
		for i, e := range n.Items {
			if err := validate(s.Elem, e, path.Append(i)); err != nil {
				return err
			}
		}
		return checkList(s, n, path)
	default:
		if !n.Source.Valid() {
			return NewMalformedViewError(path, "unknown source %q", n.Source)
		}
		if _, ok := normalize(s.Type, n.Value); !ok {
			return NewMalformedViewError(path, "expected %s, got %T", s.Type, n.Value)
		}
	}
	return nil
}
