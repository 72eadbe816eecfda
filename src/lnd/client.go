package lnd

import (
	"context"
)

// Client is the subset of the lnd API the reconciler reads. Implementations
// must be safe for concurrent use: independent calls are issued in parallel.
type Client interface {
	GetInfo(ctx context.Context) (*GetInfoResponse, error)
	ListChannels(ctx context.Context) (*ListChannelsResponse, error)
	GetChanInfo(ctx context.Context, chanID uint64) (*ChannelEdge, error)
	GetNodeInfo(ctx context.Context, pubKey string) (*NodeInfo, error)
	DescribeGraph(ctx context.Context) (*ChannelGraph, error)
}
