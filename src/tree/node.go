package tree

import (
	"github.com/lnrecon/lnrecon/src/source"
)

// Node is an object, a list or a leaf of an attribute tree.
type Node struct {
	Source source.Tag
	Value  interface{}      // leaves: string, int64 or bool
	Fields map[string]*Node // objects
	Items  []*Node          // lists
}

// NewObject returns an empty object tagged with src.
func NewObject(src source.Tag) *Node {
	return &Node{
		Source: src,
		Fields: make(map[string]*Node),
	}
}

// NewList returns an empty list.
func NewList() *Node {
	return &Node{Items: []*Node{}}
}

// NewLeaf returns a leaf tagged with src.
func NewLeaf(src source.Tag, v interface{}) *Node {
	return &Node{Source: src, Value: v}
}

// Get returns a named child, or nil. It is safe to call on a nil Node.
func (n *Node) Get(name string) *Node {
	if n == nil || n.Fields == nil {
		return nil
	}
	return n.Fields[name]
}

// At returns the i-th element of a list, or nil.
func (n *Node) At(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Items) {
		return nil
	}
	return n.Items[i]
}

// Lookup follows a path of field names and list indexes. It returns nil when
// any segment is absent.
func (n *Node) Lookup(path ...interface{}) *Node {
	cur := n
	for _, seg := range path {
		switch s := seg.(type) {
		case string:
			cur = cur.Get(s)
		case int:
			cur = cur.At(s)
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Set attaches a child to an object.
func (n *Node) Set(name string, child *Node) {
	if n.Fields == nil {
		n.Fields = make(map[string]*Node)
	}
	n.Fields[name] = child
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Source: n.Source,
		Value:  n.Value,
	}
	if n.Fields != nil {
		c.Fields = make(map[string]*Node, len(n.Fields))
		for k, v := range n.Fields {
			c.Fields[k] = v.Clone()
		}
	}
	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, v := range n.Items {
			c.Items[i] = v.Clone()
		}
	}
	return c
}

// View is a normalized partial view: one upstream response about one entity.
type View struct {
	Source source.Tag
	Key    string
	Root   *Node
}

// Snapshot is the composite tree of one entity.
type Snapshot struct {
	Key  string
	Root *Node
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		Key:  s.Key,
		Root: s.Root.Clone(),
	}
}
