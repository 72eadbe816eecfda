package tree

import "fmt"

// Type is the type of a schema node.
type Type int

const (
	// ObjectType is a node with named children in a declared order.
	ObjectType Type = iota
	// ListType is a sequence of elements sharing one schema.
	ListType
	// StringType is a string leaf.
	StringType
	// IntType is an int64 leaf.
	IntType
	// BoolType is a bool leaf.
	BoolType
)

// String ...
func (t Type) String() string {
	switch t {
	case ObjectType:
		return "object"
	case ListType:
		return "list"
	case StringType:
		return "string"
	case IntType:
		return "int"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// Field is a named child of an object schema.
type Field struct {
	Name   string
	Schema *Schema
}

// Schema describes the shape of an entity's attribute tree.
type Schema struct {
	Type   Type
	Fields []Field  // ObjectType, in declared order
	Elem   *Schema  // ListType
	Match  []string // ListType, path to the sub-identity leaf inside an element

	index map[string]*Schema
}

// F declares a field.
func F(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// Object declares an object schema. The order of fields is the traversal
// order used everywhere.
func Object(fields ...Field) *Schema {
	s := &Schema{
		Type:   ObjectType,
		Fields: fields,
		index:  make(map[string]*Schema, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("tree: duplicate field %q", f.Name))
		}
		if len(f.Name) > 0 && f.Name[0] == '_' {
			panic(fmt.Sprintf("tree: field %q uses the reserved prefix", f.Name))
		}
		s.index[f.Name] = f.Schema
	}
	return s
}

// List declares a list whose elements are paired across trees by the leaf
// found at match inside each element.
func List(elem *Schema, match ...string) *Schema {
	if elem.Type != ObjectType {
		panic("tree: list elements must be objects")
	}
	if leaf := elem.Descend(match...); leaf == nil || !leaf.IsLeaf() {
		panic(fmt.Sprintf("tree: match path %v does not name a leaf", match))
	}
	return &Schema{
		Type:  ListType,
		Elem:  elem,
		Match: match,
	}
}

// String declares a string leaf.
func String() *Schema { return &Schema{Type: StringType} }

// Int declares an integer leaf.
func Int() *Schema { return &Schema{Type: IntType} }

// Bool declares a bool leaf.
func Bool() *Schema { return &Schema{Type: BoolType} }

// IsLeaf reports whether s describes a scalar.
func (s *Schema) IsLeaf() bool {
	return s.Type != ObjectType && s.Type != ListType
}

// Field returns the schema of a named child.
func (s *Schema) Field(name string) (*Schema, bool) {
	if s.Type != ObjectType {
		return nil, false
	}
	f, ok := s.index[name]
	return f, ok
}

// Descend follows a path of field names through nested objects. It returns
// nil if the path leaves the schema.
func (s *Schema) Descend(path ...string) *Schema {
	cur := s
	for _, name := range path {
		next, ok := cur.Field(name)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}
