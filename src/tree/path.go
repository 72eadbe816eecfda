package tree

import (
	"bytes"
	"fmt"
)

// Path addresses a node: field names (string) and list indexes (int).
type Path []interface{}

// Append returns a new path extended by seg; p is never modified.
func (p Path) Append(seg interface{}) Path {
	res := make(Path, len(p), len(p)+1)
	copy(res, p)
	return append(res, seg)
}

// String renders p as accounting.capacity.millisatoshis or partners[1].state.
func (p Path) String() string {
	var b bytes.Buffer
	for i, seg := range p {
		switch s := seg.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", s)
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			fmt.Fprint(&b, s)
		}
	}
	return b.String()
}
