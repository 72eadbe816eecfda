package entity

import (
	"github.com/lnrecon/lnrecon/src/tree"
)

// check verifies a merged snapshot before it replaces the live one: the key
// is unchanged, the tree fits the schema, the identity fields still hash to
// the key, and every leaf came from either the old snapshot or the view.
func (e *Entity) check(next *tree.Snapshot, view *tree.Node) error {
	if next.Key != e.Key() {
		return InconsistentMutationError{Key: e.Key(), Reason: "key changed to " + next.Key}
	}
	if err := tree.Validate(e.kind.Schema, next.Root); err != nil {
		return InconsistentMutationError{Key: e.Key(), Reason: err.Error()}
	}
	key, err := e.kind.Identify(next.Root)
	if err != nil || key != e.Key() {
		return InconsistentMutationError{Key: e.Key(), Reason: "identity fields changed"}
	}
	if p, ok := uncovered(e.kind.Schema, next.Root, e.snap.Root, view, tree.Path{}); !ok {
		return InconsistentMutationError{Key: e.Key(), Path: p, Reason: "leaf absent from both the snapshot and the view"}
	}
	return nil
}

// uncovered walks n alongside a and b and returns the path of the first leaf
// of n that neither a nor b holds. List elements are paired by sub-identity.
func uncovered(s *tree.Schema, n, a, b *tree.Node, path tree.Path) (tree.Path, bool) {
	if n == nil {
		return nil, true
	}
	switch s.Type {
	case tree.ObjectType:
		for _, f := range s.Fields {
			if p, ok := uncovered(f.Schema, n.Get(f.Name), a.Get(f.Name), b.Get(f.Name), path.Append(f.Name)); !ok {
				return p, false
			}
		}
	case tree.ListType:
		for i, elem := range n.Items {
			m, _ := s.MatchValue(elem)
			ea := a.At(tree.FindElem(s, a, m))
			eb := b.At(tree.FindElem(s, b, m))
			if p, ok := uncovered(s.Elem, elem, ea, eb, path.Append(i)); !ok {
				return p, false
			}
		}
	default:
		if a == nil && b == nil {
			return path, false
		}
	}
	return nil, true
}
