package lnd

import (
	"context"
	"sync"

	"github.com/lnrecon/lnrecon/src/common"
)

// InmemClient is a Client serving responses held in memory. It records how
// many calls it served, which tests use to check that calls overlap.
type InmemClient struct {
	sync.Mutex

	Info     *GetInfoResponse
	Channels *ListChannelsResponse
	Graph    *ChannelGraph
	Edges    map[uint64]*ChannelEdge
	NodeInfo map[string]*NodeInfo

	calls int
}

// NewInmemClient ...
func NewInmemClient() *InmemClient {
	return &InmemClient{
		Info:     &GetInfoResponse{},
		Channels: &ListChannelsResponse{},
		Graph:    &ChannelGraph{},
		Edges:    make(map[uint64]*ChannelEdge),
		NodeInfo: make(map[string]*NodeInfo),
	}
}

// Calls returns the number of calls served so far.
func (c *InmemClient) Calls() int {
	c.Lock()
	defer c.Unlock()
	return c.calls
}

func (c *InmemClient) enter(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()
	c.calls++
	return ctx.Err()
}

// GetInfo implements Client.
func (c *InmemClient) GetInfo(ctx context.Context) (*GetInfoResponse, error) {
	if err := c.enter(ctx); err != nil {
		return nil, err
	}
	if c.Info == nil {
		return nil, common.NewStoreErr("GetInfo", common.Empty, "")
	}
	return c.Info, nil
}

// ListChannels implements Client.
func (c *InmemClient) ListChannels(ctx context.Context) (*ListChannelsResponse, error) {
	if err := c.enter(ctx); err != nil {
		return nil, err
	}
	if c.Channels == nil {
		return nil, common.NewStoreErr("ListChannels", common.Empty, "")
	}
	return c.Channels, nil
}

// GetChanInfo implements Client.
func (c *InmemClient) GetChanInfo(ctx context.Context, chanID uint64) (*ChannelEdge, error) {
	if err := c.enter(ctx); err != nil {
		return nil, err
	}
	e, ok := c.Edges[chanID]
	if !ok {
		return nil, common.NewStoreErr("ChannelEdge", common.KeyNotFound, FormatChannelID(chanID))
	}
	return e, nil
}

// GetNodeInfo implements Client.
func (c *InmemClient) GetNodeInfo(ctx context.Context, pubKey string) (*NodeInfo, error) {
	if err := c.enter(ctx); err != nil {
		return nil, err
	}
	n, ok := c.NodeInfo[pubKey]
	if !ok {
		return nil, common.NewStoreErr("NodeInfo", common.KeyNotFound, pubKey)
	}
	return n, nil
}

// DescribeGraph implements Client.
func (c *InmemClient) DescribeGraph(ctx context.Context) (*ChannelGraph, error) {
	if err := c.enter(ctx); err != nil {
		return nil, err
	}
	if c.Graph == nil {
		return nil, common.NewStoreErr("DescribeGraph", common.Empty, "")
	}
	return c.Graph, nil
}
