package channel

import (
	"testing"
	"time"

	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/source"
	"github.com/lnrecon/lnrecon/src/tree"
)

// The first three multiples of the secp256k1 generator, in ascending order.
const (
	keyA = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	keyB = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"
	keyC = "02f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9"
)

var (
	chanID    = uint64(700000)<<40 | uint64(1234)<<16 | 1
	otherID   = uint64(700001)<<40 | uint64(7)<<16
	chanPoint = "9d3e2cbbd1e1b0d0cc6ed7cc0ef3e6b77cf44ad3e5ad4b3d6a0b25dae5c7c9f1:1"
	fetchedAt = time.Unix(1600000000, 0)
)

// gossipB is keyB's first announcement of its policy.
func gossipB() lnd.ChannelEdgeUpdate {
	return lnd.ChannelEdgeUpdate{
		ChanID:          chanID,
		ChanPoint:       chanPoint,
		Capacity:        5000000,
		AdvertisingNode: keyB,
		ConnectingNode:  keyA,
		RoutingPolicy: &lnd.RoutingPolicy{
			TimeLockDelta:    40,
			MinHTLC:          1000,
			FeeBaseMsat:      1000,
			FeeRateMilliMsat: 1,
		},
	}
}

// gossipBUpdate raises the capacity and changes every policy field of keyB.
func gossipBUpdate() lnd.ChannelEdgeUpdate {
	return lnd.ChannelEdgeUpdate{
		ChanID:          chanID,
		ChanPoint:       chanPoint,
		Capacity:        6000000,
		AdvertisingNode: keyB,
		ConnectingNode:  keyA,
		RoutingPolicy: &lnd.RoutingPolicy{
			TimeLockDelta:    144,
			MinHTLC:          1,
			FeeBaseMsat:      1700,
			FeeRateMilliMsat: 800,
			MaxHTLCMsat:      5940000000,
			Disabled:         true,
		},
	}
}

// listed is the channel as keyA, the local node, lists it.
func listed() lnd.Channel {
	return lnd.Channel{
		Active:                true,
		RemotePubkey:          keyB,
		ChannelPoint:          chanPoint,
		ChanID:                chanID,
		Capacity:              5000000,
		LocalBalance:          3000000,
		RemoteBalance:         1990000,
		TotalSatoshisSent:     20,
		TotalSatoshisReceived: 30,
		UnsettledBalance:      4,
		Initiator:             true,
		Uptime:                3600,
	}
}

// edge is the channel between keyB and keyC as the graph describes it.
func edge() lnd.ChannelEdge {
	return lnd.ChannelEdge{
		ChannelID: otherID,
		ChanPoint: "aa:0",
		Node1Pub:  keyC,
		Node2Pub:  keyB,
		Capacity:  1000000,
		Node1Policy: &lnd.RoutingPolicy{
			TimeLockDelta:    40,
			FeeBaseMsat:      1000,
			FeeRateMilliMsat: 10,
			MinHTLC:          1000,
			MaxHTLCMsat:      990000000,
		},
		Node2Policy: &lnd.RoutingPolicy{
			TimeLockDelta: 80,
			Disabled:      true,
		},
	}
}

func mustView(v *tree.View, err error) *tree.View {
	if err != nil {
		panic(err)
	}
	return v
}

func gossipChannel(t *testing.T) *Channel {
	c, err := FromView(mustView(FromEdgeUpdate(gossipB())))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func foreignChannel(t *testing.T) *Channel {
	c, err := FromView(mustView(FromChannelEdge(keyA, source.DescribeGraph, edge())))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mineChannel(t *testing.T) *Channel {
	c, err := FromView(mustView(FromListChannel(keyA, listed(), fetchedAt)))
	if err != nil {
		t.Fatal(err)
	}
	return c
}
