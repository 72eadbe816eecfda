package lnd

// RoutingPolicy is one side's forwarding terms for a channel.
type RoutingPolicy struct {
	TimeLockDelta    uint32 `json:"time_lock_delta"`
	MinHTLC          int64  `json:"min_htlc"` // millisatoshis
	FeeBaseMsat      int64  `json:"fee_base_msat"`
	FeeRateMilliMsat int64  `json:"fee_rate_milli_msat"` // parts per million
	Disabled         bool   `json:"disabled"`
	MaxHTLCMsat      uint64 `json:"max_htlc_msat"`
	LastUpdate       uint32 `json:"last_update"`
}

// ChannelEdge is a channel as the graph sees it (GetChanInfo, DescribeGraph).
type ChannelEdge struct {
	ChannelID   uint64         `json:"channel_id"`
	ChanPoint   string         `json:"chan_point"`
	LastUpdate  uint32         `json:"last_update"`
	Node1Pub    string         `json:"node1_pub"`
	Node2Pub    string         `json:"node2_pub"`
	Capacity    int64          `json:"capacity"`
	Node1Policy *RoutingPolicy `json:"node1_policy"`
	Node2Policy *RoutingPolicy `json:"node2_policy"`
}

// Channel is an entry of ListChannels: a channel the local node is part of.
type Channel struct {
	Active                bool   `json:"active"`
	RemotePubkey          string `json:"remote_pubkey"`
	ChannelPoint          string `json:"channel_point"`
	ChanID                uint64 `json:"chan_id"`
	Capacity              int64  `json:"capacity"`
	LocalBalance          int64  `json:"local_balance"`
	RemoteBalance         int64  `json:"remote_balance"`
	TotalSatoshisSent     int64  `json:"total_satoshis_sent"`
	TotalSatoshisReceived int64  `json:"total_satoshis_received"`
	UnsettledBalance      int64  `json:"unsettled_balance"`
	Private               bool   `json:"private"`
	Initiator             bool   `json:"initiator"`
	Uptime                int64  `json:"uptime"`   // seconds
	Lifetime              int64  `json:"lifetime"` // seconds
}

// ListChannelsResponse ...
type ListChannelsResponse struct {
	Channels []Channel `json:"channels"`
}

// LightningNode is a node announcement.
type LightningNode struct {
	LastUpdate uint32 `json:"last_update"`
	PubKey     string `json:"pub_key"`
	Alias      string `json:"alias"`
	Color      string `json:"color"`
}

// NodeInfo is the response of GetNodeInfo.
type NodeInfo struct {
	Node          LightningNode `json:"node"`
	NumChannels   uint32        `json:"num_channels"`
	TotalCapacity int64         `json:"total_capacity"`
	Channels      []ChannelEdge `json:"channels"`
}

// ChannelGraph is the response of DescribeGraph.
type ChannelGraph struct {
	Nodes []LightningNode `json:"nodes"`
	Edges []ChannelEdge   `json:"edges"`
}

// Chain names a blockchain and network the node runs on.
type Chain struct {
	Chain   string `json:"chain"`
	Network string `json:"network"`
}

// GetInfoResponse describes the local node.
type GetInfoResponse struct {
	Version        string  `json:"version"`
	IdentityPubkey string  `json:"identity_pubkey"`
	Alias          string  `json:"alias"`
	Color          string  `json:"color"`
	NumActiveChans uint32  `json:"num_active_channels"`
	NumPeers       uint32  `json:"num_peers"`
	BlockHeight    uint32  `json:"block_height"`
	SyncedToChain  bool    `json:"synced_to_chain"`
	Chains         []Chain `json:"chains"`
}

// ChannelEdgeUpdate is a gossip message about one side of a channel.
type ChannelEdgeUpdate struct {
	ChanID          uint64         `json:"chan_id"`
	ChanPoint       string         `json:"chan_point"`
	Capacity        int64          `json:"capacity"`
	RoutingPolicy   *RoutingPolicy `json:"routing_policy"`
	AdvertisingNode string         `json:"advertising_node"`
	ConnectingNode  string         `json:"connecting_node"`
}

// NodeUpdate is a gossip message about a node announcement.
type NodeUpdate struct {
	IdentityKey string `json:"identity_key"`
	Alias       string `json:"alias"`
	Color       string `json:"color"`
}

// GraphTopologyUpdate is one message of SubscribeChannelGraph.
type GraphTopologyUpdate struct {
	NodeUpdates    []NodeUpdate        `json:"node_updates"`
	ChannelUpdates []ChannelEdgeUpdate `json:"channel_updates"`
}
