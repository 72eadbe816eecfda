// Package entity implements the lifecycle shared by channels and nodes:
// construction from a single view or from a dump, incremental updates through
// Apply, and the capability state that gates privileged accessors.
//
// An Entity is not safe for concurrent use. Callers that share one between
// goroutines serialize access per entity (see the tracker package).
package entity

import (
	"github.com/lnrecon/lnrecon/src/diff"
	"github.com/lnrecon/lnrecon/src/reconcile"
	"github.com/lnrecon/lnrecon/src/tree"
)

// Entity is a reconciled channel or node.
type Entity struct {
	kind *Kind
	snap *tree.Snapshot
}

// Origin is the argument of New. Exactly one of View and Dump must be set.
type Origin struct {
	View *tree.View
	Dump map[string]interface{}
}

// New builds an entity from whichever origin is set.
func New(k *Kind, o Origin) (*Entity, error) {
	switch {
	case o.View != nil && o.Dump != nil:
		return nil, ConstructionArgumentError{Reason: "both a view and a dump were given"}
	case o.View != nil:
		return FromView(k, o.View)
	case o.Dump != nil:
		return FromDump(k, o.Dump)
	default:
		return nil, ConstructionArgumentError{Reason: "neither a view nor a dump was given"}
	}
}

// FromView builds an entity from its first partial view.
func FromView(k *Kind, v *tree.View) (*Entity, error) {
	if v == nil || v.Root == nil {
		return nil, tree.NewMalformedViewError(nil, "empty view")
	}
	key, err := k.Identify(v.Root)
	if err != nil {
		return nil, err
	}
	if v.Key != "" && v.Key != key {
		return nil, IdentityMismatchError{Expected: v.Key, Got: key}
	}

	keyed := *v
	keyed.Key = key
	snap, err := reconcile.Merge(k.Schema, nil, &keyed)
	if err != nil {
		return nil, err
	}

	return &Entity{
		kind: k,
		snap: snap,
	}, nil
}

// FromDump restores an entity from the output of Dump.
func FromDump(k *Kind, dump map[string]interface{}) (*Entity, error) {
	snap, err := tree.Decode(k.Schema, dump)
	if err != nil {
		return nil, err
	}
	if err := tree.Validate(k.Schema, snap.Root); err != nil {
		return nil, err
	}
	key, err := k.Identify(snap.Root)
	if err != nil {
		return nil, err
	}
	if key != snap.Key {
		return nil, IdentityMismatchError{Expected: snap.Key, Got: key}
	}

	return &Entity{
		kind: k,
		snap: snap,
	}, nil
}

// UnmarshalDump restores an entity from the output of MarshalDump.
func UnmarshalDump(k *Kind, data []byte) (*Entity, error) {
	raw, err := tree.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return FromDump(k, raw)
}

// Kind returns the kind descriptor of e.
func (e *Entity) Kind() *Kind {
	return e.kind
}

// Key returns the identity key. It never changes.
func (e *Entity) Key() string {
	return e.snap.Key
}

// Snapshot returns a copy of the composite snapshot.
func (e *Entity) Snapshot() *tree.Snapshot {
	return e.snap.Clone()
}

// Lookup returns the node at path in the live snapshot, or nil. The result
// must not be modified.
func (e *Entity) Lookup(path ...interface{}) *tree.Node {
	return e.snap.Root.Lookup(path...)
}

// Apply merges v into the entity and returns what changed.
//
// The view's identity fields must hash to the entity key. The merge runs on a
// scratch copy, which replaces the live snapshot only once it has been
// checked, so on error the entity is left exactly as it was. Applying the
// same view twice returns an empty diff the second time.
func (e *Entity) Apply(v *tree.View) (diff.Diff, error) {
	if v == nil || v.Root == nil {
		return nil, tree.NewMalformedViewError(nil, "empty view")
	}
	key, err := e.kind.Identify(v.Root)
	if err != nil {
		return nil, err
	}
	if key != e.Key() {
		return nil, IdentityMismatchError{Expected: e.Key(), Got: key}
	}
	if v.Key != "" && v.Key != key {
		return nil, IdentityMismatchError{Expected: key, Got: v.Key}
	}

	keyed := *v
	keyed.Key = key
	next, err := reconcile.Merge(e.kind.Schema, e.snap, &keyed)
	if err != nil {
		return nil, err
	}

	d := diff.Compare(e.kind.Schema, e.snap.Root, next.Root)

	if err := e.check(next, keyed.Root); err != nil {
		return nil, err
	}

	e.snap = next
	return d, nil
}

// Dump returns the snapshot as JSON-compatible maps, provenance included.
func (e *Entity) Dump() map[string]interface{} {
	return tree.Encode(e.kind.Schema, e.snap)
}

// MarshalDump returns Dump as canonical JSON.
func (e *Entity) MarshalDump() ([]byte, error) {
	return tree.MarshalDump(e.kind.Schema, e.snap)
}

// ToView returns the attribute values without provenance.
func (e *Entity) ToView() map[string]interface{} {
	return tree.Project(e.kind.Schema, e.snap.Root)
}

// State returns the current capability state.
func (e *Entity) State() State {
	return e.kind.State(e.snap.Root)
}

// Known reports whether an authoritative source confirmed the entity.
func (e *Entity) Known() bool {
	return e.State() != Unknown
}

// Mine reports whether the local node participates in the entity.
func (e *Entity) Mine() bool {
	return e.State() == KnownMine
}
