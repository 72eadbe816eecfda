package entity

import (
	"fmt"

	"github.com/lnrecon/lnrecon/src/tree"
)

// RequireKnown fails with UnknownEntityError unless an authoritative source
// confirmed the entity. accessor names the caller in the error.
func (e *Entity) RequireKnown(accessor string) error {
	if e.State() == Unknown {
		return UnknownEntityError{
			Kind:     e.kind.Name,
			Key:      e.Key(),
			Accessor: accessor,
		}
	}
	return nil
}

// RequireMine fails with UnknownEntityError for unknown entities and with
// NotAuthorizedViewError for known entities the local node is not part of.
func (e *Entity) RequireMine(accessor string) error {
	switch e.State() {
	case Unknown:
		return UnknownEntityError{
			Kind:     e.kind.Name,
			Key:      e.Key(),
			Accessor: accessor,
		}
	case KnownForeign:
		return NotAuthorizedViewError{
			Kind:     e.kind.Name,
			Key:      e.Key(),
			Accessor: accessor,
		}
	}
	return nil
}

// Value returns the leaf at path, or AbsentFieldError when no source has
// supplied it.
func (e *Entity) Value(path ...interface{}) (interface{}, error) {
	n := e.Lookup(path...)
	if n == nil {
		return nil, AbsentFieldError{
			Kind:  e.kind.Name,
			Key:   e.Key(),
			Field: tree.Path(path).String(),
		}
	}
	return n.Value, nil
}

// StringAt returns the string leaf at path.
func (e *Entity) StringAt(path ...interface{}) (string, error) {
	v, err := e.Value(path...)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: %s is %T, not a string", e.kind.Name, tree.Path(path), v)
	}
	return s, nil
}

// IntAt returns the integer leaf at path.
func (e *Entity) IntAt(path ...interface{}) (int64, error) {
	v, err := e.Value(path...)
	if err != nil {
		return 0, err
	}
	i, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("%s: %s is %T, not an integer", e.kind.Name, tree.Path(path), v)
	}
	return i, nil
}

// BoolAt returns the bool leaf at path.
func (e *Entity) BoolAt(path ...interface{}) (bool, error) {
	v, err := e.Value(path...)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s: %s is %T, not a bool", e.kind.Name, tree.Path(path), v)
	}
	return b, nil
}
