package diff

import (
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/lnrecon/lnrecon/src/tree"
)

// JSONPatch returns an RFC 6902 patch that turns the projection of old into
// the projection of new (see tree.Project). Subtrees missing on one side are
// added or removed whole.
func JSONPatch(s *tree.Schema, old, new *tree.Node) ([]byte, error) {
	ops := []interface{}{}
	patchObject(s, old, new, "", &ops)
	return tree.Marshal(ops)
}

// ApplyPatch applies patch to doc and returns the patched document. doc is
// not modified.
func ApplyPatch(doc map[string]interface{}, patch []byte) (map[string]interface{}, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, err
	}
	in, err := tree.Marshal(doc)
	if err != nil {
		return nil, err
	}
	out, err := p.Apply(in)
	if err != nil {
		return nil, err
	}
	return tree.Unmarshal(out)
}

func op(kind, ptr string, value interface{}) map[string]interface{} {
	o := map[string]interface{}{
		"op":   kind,
		"path": ptr,
	}
	if kind != "remove" {
		o["value"] = value
	}
	return o
}

func pointer(parent string, seg interface{}) string {
	switch s := seg.(type) {
	case int:
		return parent + "/" + strconv.Itoa(s)
	default:
		name := strings.Replace(s.(string), "~", "~0", -1)
		name = strings.Replace(name, "/", "~1", -1)
		return parent + "/" + name
	}
}

func patchObject(s *tree.Schema, old, new *tree.Node, ptr string, ops *[]interface{}) {
	for _, f := range s.Fields {
		o, n := old.Get(f.Name), new.Get(f.Name)
		fp := pointer(ptr, f.Name)
		switch {
		case o == nil && n == nil:
		case o == nil:
			*ops = append(*ops, op("add", fp, tree.ProjectValue(f.Schema, n)))
		case n == nil:
			*ops = append(*ops, op("remove", fp, nil))
		default:
			switch f.Schema.Type {
			case tree.ObjectType:
				patchObject(f.Schema, o, n, fp, ops)
			case tree.ListType:
				patchList(f.Schema, o, n, fp, ops)
			default:
				if o.Value != n.Value {
					*ops = append(*ops, op("replace", fp, n.Value))
				}
			}
		}
	}
}

// patchList removes the elements missing from new, highest index first, so
// that the survivors keep their relative order. Both lists are sorted by
// sub-identity, so element i of new is then either the survivor at i or an
// insertion at i.
func patchList(s *tree.Schema, old, new *tree.Node, ptr string, ops *[]interface{}) {
	for j := len(old.Items) - 1; j >= 0; j-- {
		m, _ := s.MatchValue(old.Items[j])
		if tree.FindElem(s, new, m) < 0 {
			*ops = append(*ops, op("remove", pointer(ptr, j), nil))
		}
	}
	for i, e := range new.Items {
		m, _ := s.MatchValue(e)
		j := tree.FindElem(s, old, m)
		ep := pointer(ptr, i)
		if j < 0 {
			*ops = append(*ops, op("add", ep, tree.Project(s.Elem, e)))
			continue
		}
		patchObject(s.Elem, old.Items[j], e, ep, ops)
	}
}
