package tree

import "sort"

// MatchValue returns the sub-identity of a list element.
func (s *Schema) MatchValue(elem *Node) (interface{}, bool) {
	if s.Type != ListType {
		return nil, false
	}
	leaf := elem
	for _, name := range s.Match {
		leaf = leaf.Get(name)
	}
	if leaf == nil {
		return nil, false
	}
	return leaf.Value, true
}

// SortList orders the elements of a list by their sub-identity, so that the
// same set of elements always lands at the same indexes.
func SortList(s *Schema, list *Node) {
	sort.SliceStable(list.Items, func(i, j int) bool {
		a, _ := s.MatchValue(list.Items[i])
		b, _ := s.MatchValue(list.Items[j])
		return Less(a, b)
	})
}

// FindElem returns the index of the element whose sub-identity is v.
func FindElem(s *Schema, list *Node, v interface{}) int {
	if list == nil {
		return -1
	}
	for i, e := range list.Items {
		if m, ok := s.MatchValue(e); ok && m == v {
			return i
		}
	}
	return -1
}

// checkList verifies that every element has a sub-identity and that no two
// elements share one.
func checkList(s *Schema, list *Node, path Path) error {
	seen := make(map[interface{}]bool, len(list.Items))
	for i, e := range list.Items {
		m, ok := s.MatchValue(e)
		if !ok {
			return NewMalformedViewError(path.Append(i), "element has no %v", s.Match)
		}
		if seen[m] {
			return NewMalformedViewError(path.Append(i), "duplicate element %v", m)
		}
		seen[m] = true
	}
	return nil
}
