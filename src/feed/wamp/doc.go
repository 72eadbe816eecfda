// Package wamp carries Lightning gossip and reconciled changes over WAMP
// pub/sub.
//
// A Subscriber listens on the gossip topics and feeds every update into a
// tracker.Tracker. A Publisher sends gossip updates on the same topics, and can
// be registered on a Tracker to announce the resulting changes. Server hosts a
// nexus router behind a websocket listener for setups without an external
// router.
//
// Every event carries one update per argument, each encoded as a JSON string.
package wamp

const (
	// TopicChannel carries lnd.ChannelEdgeUpdate messages.
	TopicChannel = "lnd.graph.channel"
	// TopicNode carries lnd.NodeUpdate messages.
	TopicNode = "lnd.graph.node"
	// TopicChange carries tracker changes as RFC 6902 patches.
	TopicChange = "lnrecon.change"
)
