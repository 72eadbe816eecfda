// Package node is the node entity. Aliases and colors are readable once an
// authoritative source confirmed the node; the platform it runs is only known
// for the local node.
package node

import (
	"github.com/lnrecon/lnrecon/src/diff"
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/tree"
)

// Node is a reconciled Lightning node.
type Node struct {
	e *entity.Entity
}

// FromView creates a node from its first view.
func FromView(v *tree.View) (*Node, error) {
	e, err := entity.FromView(Kind, v)
	if err != nil {
		return nil, err
	}
	return &Node{e: e}, nil
}

// FromDump restores a node from the output of Dump.
func FromDump(dump map[string]interface{}) (*Node, error) {
	e, err := entity.FromDump(Kind, dump)
	if err != nil {
		return nil, err
	}
	return &Node{e: e}, nil
}

// New creates a node from exactly one origin.
func New(o entity.Origin) (*Node, error) {
	e, err := entity.New(Kind, o)
	if err != nil {
		return nil, err
	}
	return &Node{e: e}, nil
}

// UnmarshalDump restores a node from the output of MarshalDump.
func UnmarshalDump(data []byte) (*Node, error) {
	e, err := entity.UnmarshalDump(Kind, data)
	if err != nil {
		return nil, err
	}
	return &Node{e: e}, nil
}

// Entity exposes the generic entity.
func (n *Node) Entity() *entity.Entity {
	return n.e
}

// Apply merges a view of this node and returns what changed.
func (n *Node) Apply(v *tree.View) (diff.Diff, error) {
	return n.e.Apply(v)
}

// ApplyGossip adapts a gossip announcement and applies it.
func (n *Node) ApplyGossip(u lnd.NodeUpdate) (diff.Diff, error) {
	v, err := FromNodeUpdate(u)
	if err != nil {
		return nil, err
	}
	return n.e.Apply(v)
}

// Dump ...
func (n *Node) Dump() map[string]interface{} {
	return n.e.Dump()
}

// MarshalDump ...
func (n *Node) MarshalDump() ([]byte, error) {
	return n.e.MarshalDump()
}

// ToView ...
func (n *Node) ToView() map[string]interface{} {
	return n.e.ToView()
}

// Key ...
func (n *Node) Key() string {
	return n.e.Key()
}

// PublicKey returns the compressed public key in hex.
func (n *Node) PublicKey() string {
	pk, _ := n.e.StringAt("public_key")
	return pk
}

// State ...
func (n *Node) State() entity.State {
	return n.e.State()
}

// Known ...
func (n *Node) Known() bool {
	return n.e.Known()
}

// Mine ...
func (n *Node) Mine() bool {
	return n.e.Mine()
}

// Myself reports whether this is the local node.
func (n *Node) Myself() (bool, error) {
	return n.e.BoolAt("myself")
}

// Alias ...
func (n *Node) Alias() (string, error) {
	if err := n.e.RequireKnown("alias"); err != nil {
		return "", err
	}
	return n.e.StringAt("alias")
}

// Color ...
func (n *Node) Color() (string, error) {
	if err := n.e.RequireKnown("color"); err != nil {
		return "", err
	}
	return n.e.StringAt("color")
}

// Platform describes the software of the local node.
func (n *Node) Platform() (*Platform, error) {
	if err := n.e.RequireMine("platform"); err != nil {
		return nil, err
	}
	return &Platform{e: n.e}, nil
}

// Platform reads the platform subtree.
type Platform struct {
	e *entity.Entity
}

// Blockchain is e.g. bitcoin.
func (p *Platform) Blockchain() (string, error) {
	return p.e.StringAt("platform", "blockchain")
}

// Network is e.g. mainnet or testnet.
func (p *Platform) Network() (string, error) {
	return p.e.StringAt("platform", "network")
}

// Implementation ...
func (p *Platform) Implementation() (string, error) {
	return p.e.StringAt("platform", "lightning", "implementation")
}

// Version ...
func (p *Platform) Version() (string, error) {
	return p.e.StringAt("platform", "lightning", "version")
}
