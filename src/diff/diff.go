// Package diff computes the leaf-level changes between two attribute trees.
package diff

import (
	"fmt"

	"github.com/lnrecon/lnrecon/src/tree"
)

// Entry is one changed leaf. A nil From or To means the leaf is absent on
// that side.
type Entry struct {
	Path tree.Path
	From interface{}
	To   interface{}
}

// String ...
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s -> %s", e.Path, show(e.From), show(e.To))
}

func show(v interface{}) string {
	if v == nil {
		return "<absent>"
	}
	return fmt.Sprintf("%v", v)
}

// Diff is an ordered list of changes. The order follows the schema: declared
// field order for objects, element index for lists.
type Diff []Entry

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d) == 0
}

// Paths renders the changed paths, e.g. for log fields.
func (d Diff) Paths() []string {
	res := make([]string, len(d))
	for i, e := range d {
		res[i] = e.Path.String()
	}
	return res
}

// Encode renders d as a JSON-compatible array of {path, from, to} objects.
// Absent sides are encoded as null.
func (d Diff) Encode() []interface{} {
	res := make([]interface{}, len(d))
	for i, e := range d {
		path := make([]interface{}, len(e.Path))
		copy(path, e.Path)
		res[i] = map[string]interface{}{
			"path": path,
			"from": e.From,
			"to":   e.To,
		}
	}
	return res
}

// Compare returns the changes that turn old into new. Either side may be nil.
//
// Values are compared exactly; provenance is ignored. List elements are
// paired by sub-identity and addressed by their index in new. Elements that
// only exist in old follow, addressed by their index in old.
func Compare(s *tree.Schema, old, new *tree.Node) Diff {
	d := Diff{}
	compare(s, old, new, tree.Path{}, &d)
	return d
}

func compare(s *tree.Schema, old, new *tree.Node, path tree.Path, d *Diff) {
	if old == nil && new == nil {
		return
	}
	switch s.Type {
	case tree.ObjectType:
		for _, f := range s.Fields {
			compare(f.Schema, old.Get(f.Name), new.Get(f.Name), path.Append(f.Name), d)
		}
	case tree.ListType:
		compareList(s, old, new, path, d)
	default:
		from, to := value(old), value(new)
		if from != to {
			*d = append(*d, Entry{Path: path, From: from, To: to})
		}
	}
}

func compareList(s *tree.Schema, old, new *tree.Node, path tree.Path, d *Diff) {
	paired := make(map[int]bool)
	if new != nil {
		for i, e := range new.Items {
			m, _ := s.MatchValue(e)
			j := tree.FindElem(s, old, m)
			if j >= 0 {
				paired[j] = true
			}
			compare(s.Elem, old.At(j), e, path.Append(i), d)
		}
	}
	if old != nil {
		for j, e := range old.Items {
			if !paired[j] {
				compare(s.Elem, e, nil, path.Append(j), d)
			}
		}
	}
}

func value(n *tree.Node) interface{} {
	if n == nil {
		return nil
	}
	return n.Value
}
