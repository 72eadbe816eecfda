package tree

// Project returns the attribute values of n with all provenance stripped.
// Lists become slices, absent fields are omitted.
func Project(s *Schema, n *Node) map[string]interface{} {
	if n == nil {
		return map[string]interface{}{}
	}
	return projectObject(s, n)
}

func projectObject(s *Schema, n *Node) map[string]interface{} {
	m := make(map[string]interface{}, len(n.Fields))
	for _, f := range s.Fields {
		c := n.Get(f.Name)
		if c == nil {
			continue
		}
		m[f.Name] = project(f.Schema, c)
	}
	return m
}

func project(s *Schema, n *Node) interface{} {
	switch s.Type {
	case ObjectType:
		return projectObject(s, n)
	case ListType:
		items := make([]interface{}, len(n.Items))
		for i, e := range n.Items {
			items[i] = projectObject(s.Elem, e)
		}
		return items
	default:
		return n.Value
	}
}

// ProjectValue projects a single node of schema s: a map for objects, a slice
// for lists, the bare value for leaves, nil for an absent node.
func ProjectValue(s *Schema, n *Node) interface{} {
	if n == nil {
		return nil
	}
	return project(s, n)
}
