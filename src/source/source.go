// Package source defines provenance tags and the precedence between them.
//
// Every attribute of a partial view, and every leaf of a composite snapshot,
// records the upstream call that produced it. Calls are grouped in four tiers
// of decreasing fidelity:
//
//  Direct  a lookup of this specific entity (get_chan_info, get_node_info, get_info)
//  Bulk    a listing that happens to include the entity (list_channels)
//  Graph   the generic graph description (describe_graph)
//  Gossip  the public gossip stream (subscribe_channel_graph)
//
// Within a tier each tag has its own rank, so two distinct tags never tie and
// merging the same set of views in any order yields the same result.
package source

import "fmt"

// Tag identifies the upstream call that produced a value.
type Tag string

// Known provenance tags.
const (
	GetChanInfo           Tag = "get_chan_info"
	GetInfo               Tag = "get_info"
	GetNodeInfo           Tag = "get_node_info"
	ListChannels          Tag = "list_channels"
	DescribeGraph         Tag = "describe_graph"
	SubscribeChannelGraph Tag = "subscribe_channel_graph"
)

// Tier groups tags by fidelity. Lower is better.
type Tier int

const (
	// Direct is an authoritative lookup of one entity.
	Direct Tier = iota + 1
	// Bulk is a listing call.
	Bulk
	// Graph is the generic graph description.
	Graph
	// Gossip is the unauthenticated broadcast stream.
	Gossip
)

// String ...
func (t Tier) String() string {
	switch t {
	case Direct:
		return "Direct"
	case Bulk:
		return "Bulk"
	case Graph:
		return "Graph"
	case Gossip:
		return "Gossip"
	default:
		return "Unknown"
	}
}

// precedence lists every tag from highest to lowest fidelity.
var precedence = []struct {
	tag  Tag
	tier Tier
}{
	{GetChanInfo, Direct},
	{GetInfo, Direct},
	{GetNodeInfo, Direct},
	{ListChannels, Bulk},
	{DescribeGraph, Graph},
	{SubscribeChannelGraph, Gossip},
}

// Parse validates a tag read from serialized data.
func Parse(s string) (Tag, error) {
	for _, p := range precedence {
		if string(p.tag) == s {
			return p.tag, nil
		}
	}
	return "", fmt.Errorf("unknown source tag %q", s)
}

// Valid reports whether t is a known tag.
func (t Tag) Valid() bool {
	_, err := Parse(string(t))
	return err == nil
}

// Rank returns the position of t in the precedence list; 0 is the highest.
// Unknown tags rank below every known one.
func (t Tag) Rank() int {
	for i, p := range precedence {
		if p.tag == t {
			return i
		}
	}
	return len(precedence)
}

// Tier returns the fidelity tier of t, or 0 for an unknown tag.
func (t Tag) Tier() Tier {
	for _, p := range precedence {
		if p.tag == t {
			return p.tier
		}
	}
	return 0
}

// Authoritative reports whether values from t prove the entity exists as seen
// by the local node, i.e. t is not gossip.
func (t Tag) Authoritative() bool {
	tier := t.Tier()
	return tier != 0 && tier < Gossip
}

// Outranks reports whether t should overwrite a value recorded with other.
// Equal tags outrank each other so that a fresh view of the same call
// replaces what it previously said.
func (t Tag) Outranks(other Tag) bool {
	return t.Rank() <= other.Rank()
}

// Best returns whichever of a and b ranks higher.
func Best(a, b Tag) Tag {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}
