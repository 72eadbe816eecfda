package channel

import (
	"fmt"
	"time"

	"github.com/lnrecon/lnrecon/src/crypto/keys"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/source"
	"github.com/lnrecon/lnrecon/src/tree"
)

// FromListChannel adapts an entry of ListChannels. local is the public key
// of the local node, which is always one of the two partners. fetchedAt is
// when the listing was taken and anchors up_at.
func FromListChannel(local string, c lnd.Channel, fetchedAt time.Time) (*tree.View, error) {
	localKey, err := nodeKey(local)
	if err != nil {
		return nil, err
	}
	remoteKey, err := nodeKey(c.RemotePubkey)
	if err != nil {
		return nil, err
	}

	var upAt interface{}
	if !fetchedAt.IsZero() && c.Uptime > 0 {
		upAt = fetchedAt.Unix() - c.Uptime
	}

	exposure := Public
	if c.Private {
		exposure = Private
	}

	return view(source.ListChannels, lnd.FormatChannelID(c.ChanID), tree.Attrs{
		"point":    optional(c.ChannelPoint),
		"up_at":    upAt,
		"state":    activity(c.Active),
		"exposure": exposure,
		"accounting": tree.Attrs{
			"capacity":  sats(c.Capacity),
			"sent":      sats(c.TotalSatoshisSent),
			"received":  sats(c.TotalSatoshisReceived),
			"unsettled": sats(c.UnsettledBalance),
		},
		"partners": []tree.Attrs{
			{
				"node":       tree.Attrs{"public_key": localKey, "myself": true},
				"initiator":  c.Initiator,
				"accounting": tree.Attrs{"balance": sats(c.LocalBalance)},
			},
			{
				"node":       tree.Attrs{"public_key": remoteKey, "myself": false},
				"initiator":  !c.Initiator,
				"accounting": tree.Attrs{"balance": sats(c.RemoteBalance)},
			},
		},
	})
}

// FromChannelEdge adapts a graph edge returned by GetChanInfo or
// DescribeGraph; src says which. When local is set, the partner that is the
// local node is flagged as such. Announced edges are public.
func FromChannelEdge(local string, src source.Tag, e lnd.ChannelEdge) (*tree.View, error) {
	if src != source.GetChanInfo && src != source.DescribeGraph {
		return nil, fmt.Errorf("channel edges come from %s or %s, not %s", source.GetChanInfo, source.DescribeGraph, src)
	}

	var localKey string
	if local != "" {
		k, err := nodeKey(local)
		if err != nil {
			return nil, err
		}
		localKey = k
	}

	var partners []tree.Attrs
	for _, side := range []struct {
		pub    string
		policy *lnd.RoutingPolicy
	}{
		{e.Node1Pub, e.Node1Policy},
		{e.Node2Pub, e.Node2Policy},
	} {
		k, err := nodeKey(side.pub)
		if err != nil {
			return nil, err
		}
		node := tree.Attrs{"public_key": k}
		if localKey != "" {
			node["myself"] = k == localKey
		}
		partners = append(partners, tree.Attrs{
			"node":   node,
			"policy": policy(side.policy),
			"state":  policyState(side.policy),
		})
	}

	return view(src, lnd.FormatChannelID(e.ChannelID), tree.Attrs{
		"point":    optional(e.ChanPoint),
		"state":    edgeState(e.Node1Policy, e.Node2Policy),
		"exposure": Public,
		"accounting": tree.Attrs{
			"capacity": positiveSats(e.Capacity),
		},
		"partners": partners,
	})
}

// FromEdgeUpdate adapts a gossip update, which describes the policy of the
// advertising node only. Gossiped channels are announced, hence public.
func FromEdgeUpdate(u lnd.ChannelEdgeUpdate) (*tree.View, error) {
	adv, err := nodeKey(u.AdvertisingNode)
	if err != nil {
		return nil, err
	}
	partners := []tree.Attrs{
		{
			"node":   tree.Attrs{"public_key": adv},
			"policy": policy(u.RoutingPolicy),
			"state":  policyState(u.RoutingPolicy),
		},
	}
	if u.ConnectingNode != "" {
		conn, err := nodeKey(u.ConnectingNode)
		if err != nil {
			return nil, err
		}
		partners = append(partners, tree.Attrs{
			"node": tree.Attrs{"public_key": conn},
		})
	}

	return view(source.SubscribeChannelGraph, lnd.FormatChannelID(u.ChanID), tree.Attrs{
		"point":    optional(u.ChanPoint),
		"exposure": Public,
		"accounting": tree.Attrs{
			"capacity": positiveSats(u.Capacity),
		},
		"partners": partners,
	})
}

func view(src source.Tag, id string, attrs tree.Attrs) (*tree.View, error) {
	attrs["id"] = id
	return tree.BuildView(Schema, src, identity.Channel(id), attrs)
}

func nodeKey(pub string) (string, error) {
	k, err := keys.NormalizeNodeKey(pub)
	if err != nil {
		return "", tree.NewMalformedViewError(tree.Path{"partners"}, "%v", err)
	}
	return k, nil
}

func policy(p *lnd.RoutingPolicy) interface{} {
	if p == nil {
		return nil
	}
	var max interface{}
	if p.MaxHTLCMsat > 0 {
		max = tree.Attrs{"millisatoshis": p.MaxHTLCMsat}
	}
	return tree.Attrs{
		"fee": tree.Attrs{
			"base": tree.Attrs{"millisatoshis": p.FeeBaseMsat},
			"rate": tree.Attrs{"parts_per_million": p.FeeRateMilliMsat},
		},
		"htlc": tree.Attrs{
			"minimum": tree.Attrs{"millisatoshis": p.MinHTLC},
			"maximum": max,
			"blocks": tree.Attrs{
				"delta": tree.Attrs{"minimum": int64(p.TimeLockDelta)},
			},
		},
	}
}

func policyState(p *lnd.RoutingPolicy) interface{} {
	if p == nil {
		return nil
	}
	return activity(!p.Disabled)
}

// edgeState is active when at least one announced direction is enabled, and
// unknown when neither side has announced a policy.
func edgeState(policies ...*lnd.RoutingPolicy) interface{} {
	announced := false
	for _, p := range policies {
		if p == nil {
			continue
		}
		announced = true
		if !p.Disabled {
			return Active
		}
	}
	if !announced {
		return nil
	}
	return Inactive
}

func activity(active bool) string {
	if active {
		return Active
	}
	return Inactive
}

func sats(sat int64) tree.Attrs {
	return tree.Attrs{"millisatoshis": sat * 1000}
}

func positiveSats(sat int64) interface{} {
	if sat <= 0 {
		return nil
	}
	return sats(sat)
}

func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
