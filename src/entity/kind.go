package entity

import (
	"github.com/lnrecon/lnrecon/src/tree"
)

// Kind describes an entity kind to the generic engine.
type Kind struct {
	// Name is the identity kind, e.g. identity.ChannelKind.
	Name string

	// Schema declares the attribute tree and its traversal order.
	Schema *tree.Schema

	// Identify recomputes the identity key from the identity fields of a
	// tree. It fails when those fields are absent.
	Identify func(root *tree.Node) (string, error)

	// Mine reports whether an authoritative source flagged the local node as
	// a participant.
	Mine func(root *tree.Node) bool
}

// Flagged reports whether n is a true leaf supplied by an authoritative
// source. Kinds use it to implement Mine.
func Flagged(n *tree.Node) bool {
	return n != nil && n.Value == true && n.Source.Authoritative()
}

// Known reports whether any leaf under root comes from an authoritative
// source.
func (k *Kind) Known(root *tree.Node) bool {
	return tree.AnyLeaf(k.Schema, root, func(_ tree.Path, leaf *tree.Node) bool {
		return leaf.Source.Authoritative()
	})
}

// State derives the capability state of root.
func (k *Kind) State(root *tree.Node) State {
	if !k.Known(root) {
		return Unknown
	}
	if k.Mine != nil && k.Mine(root) {
		return KnownMine
	}
	return KnownForeign
}
