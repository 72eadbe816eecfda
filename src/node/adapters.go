package node

import (
	"github.com/lnrecon/lnrecon/src/crypto/keys"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/source"
	"github.com/lnrecon/lnrecon/src/tree"
)

// FromGetInfo adapts the description of the local node.
func FromGetInfo(info lnd.GetInfoResponse) (*tree.View, error) {
	pub, err := nodeKey(info.IdentityPubkey)
	if err != nil {
		return nil, err
	}

	platform := tree.Attrs{
		"lightning": tree.Attrs{
			"implementation": Implementation,
			"version":        optional(info.Version),
		},
	}
	if len(info.Chains) > 0 {
		platform["blockchain"] = optional(info.Chains[0].Chain)
		platform["network"] = optional(info.Chains[0].Network)
	}

	return view(source.GetInfo, pub, tree.Attrs{
		"alias":    optional(info.Alias),
		"color":    optional(info.Color),
		"myself":   true,
		"platform": platform,
	})
}

// FromNodeInfo adapts the response of GetNodeInfo. When local is set the
// node is flagged as the local node or not.
func FromNodeInfo(local string, info lnd.NodeInfo) (*tree.View, error) {
	return announcement(local, source.GetNodeInfo, info.Node)
}

// FromGraphNode adapts a node of DescribeGraph.
func FromGraphNode(local string, n lnd.LightningNode) (*tree.View, error) {
	return announcement(local, source.DescribeGraph, n)
}

// FromNodeUpdate adapts a gossip node announcement.
func FromNodeUpdate(u lnd.NodeUpdate) (*tree.View, error) {
	pub, err := nodeKey(u.IdentityKey)
	if err != nil {
		return nil, err
	}
	return view(source.SubscribeChannelGraph, pub, tree.Attrs{
		"alias": optional(u.Alias),
		"color": optional(u.Color),
	})
}

func announcement(local string, src source.Tag, n lnd.LightningNode) (*tree.View, error) {
	pub, err := nodeKey(n.PubKey)
	if err != nil {
		return nil, err
	}
	attrs := tree.Attrs{
		"alias": optional(n.Alias),
		"color": optional(n.Color),
	}
	if local != "" {
		localKey, err := nodeKey(local)
		if err != nil {
			return nil, err
		}
		attrs["myself"] = pub == localKey
	}
	return view(src, pub, attrs)
}

func view(src source.Tag, pub string, attrs tree.Attrs) (*tree.View, error) {
	attrs["public_key"] = pub
	return tree.BuildView(Schema, src, identity.Node(pub), attrs)
}

func nodeKey(pub string) (string, error) {
	k, err := keys.NormalizeNodeKey(pub)
	if err != nil {
		return "", tree.NewMalformedViewError(tree.Path{"public_key"}, "%v", err)
	}
	return k, nil
}

func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
