// Package fetch issues independent lnd calls concurrently and adapts the
// responses into partial views, ready to be merged.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/lnrecon/lnrecon/src/channel"
	"github.com/lnrecon/lnrecon/src/crypto/keys"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/node"
	"github.com/lnrecon/lnrecon/src/source"
	"github.com/lnrecon/lnrecon/src/tree"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Fetcher reads views from an lnd client.
type Fetcher struct {
	client lnd.Client
	now    func() time.Time
	logger *logrus.Entry
}

// NewFetcher ...
func NewFetcher(client lnd.Client, logger *logrus.Entry) *Fetcher {
	return &Fetcher{
		client: client,
		now:    time.Now,
		logger: logger,
	}
}

// Local returns the public key of the local node.
func (f *Fetcher) Local(ctx context.Context) (string, error) {
	info, err := f.client.GetInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("get_info: %v", err)
	}
	return info.IdentityPubkey, nil
}

// Channel returns every view of one channel: the direct lookup, and the
// local listing entry when the local node is a partner.
func (f *Fetcher) Channel(ctx context.Context, local string, chanID uint64) ([]*tree.View, error) {
	var (
		edge    *lnd.ChannelEdge
		listing *lnd.ListChannelsResponse
		at      time.Time
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		edge, err = f.client.GetChanInfo(gCtx, chanID)
		if err != nil {
			return fmt.Errorf("get_chan_info %s: %v", lnd.FormatChannelID(chanID), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		at = f.now()
		listing, err = f.client.ListChannels(gCtx)
		if err != nil {
			return fmt.Errorf("list_channels: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v, err := channel.FromChannelEdge(local, source.GetChanInfo, *edge)
	if err != nil {
		return nil, err
	}
	views := []*tree.View{v}

	for _, c := range listing.Channels {
		if c.ChanID != chanID {
			continue
		}
		lv, err := channel.FromListChannel(local, c, at)
		if err != nil {
			return nil, err
		}
		views = append(views, lv)
	}

	return views, nil
}

// Node returns the direct lookup of a node, and get_info when it is the
// local node.
func (f *Fetcher) Node(ctx context.Context, pubKey string) ([]*tree.View, error) {
	var (
		info *lnd.NodeInfo
		self *lnd.GetInfoResponse
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = f.client.GetNodeInfo(gCtx, pubKey)
		if err != nil {
			return fmt.Errorf("get_node_info %s: %v", pubKey, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		self, err = f.client.GetInfo(gCtx)
		if err != nil {
			return fmt.Errorf("get_info: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v, err := node.FromNodeInfo(self.IdentityPubkey, *info)
	if err != nil {
		return nil, err
	}
	views := []*tree.View{v}

	if v.Key == localKey(self) {
		iv, err := node.FromGetInfo(*self)
		if err != nil {
			return nil, err
		}
		views = append(views, iv)
	}
	return views, nil
}

func localKey(info *lnd.GetInfoResponse) string {
	pub, err := keys.NormalizeNodeKey(info.IdentityPubkey)
	if err != nil {
		return ""
	}
	return identity.Node(pub)
}

// Graph is a full read of the local node's view of the network. Views are
// grouped by identity key, in the order they should be merged.
type Graph struct {
	Local    string
	Channels map[string][]*tree.View
	Nodes    map[string][]*tree.View
}

// Graph reads get_info, list_channels and describe_graph concurrently.
// Entries that fail to adapt are logged and skipped so that one malformed
// announcement does not hide the rest of the graph.
func (f *Fetcher) Graph(ctx context.Context) (*Graph, error) {
	var (
		info    *lnd.GetInfoResponse
		listing *lnd.ListChannelsResponse
		graph   *lnd.ChannelGraph
		at      time.Time
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = f.client.GetInfo(gCtx)
		if err != nil {
			return fmt.Errorf("get_info: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		at = f.now()
		listing, err = f.client.ListChannels(gCtx)
		if err != nil {
			return fmt.Errorf("list_channels: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		graph, err = f.client.DescribeGraph(gCtx)
		if err != nil {
			return fmt.Errorf("describe_graph: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	local := info.IdentityPubkey
	res := &Graph{
		Local:    local,
		Channels: make(map[string][]*tree.View),
		Nodes:    make(map[string][]*tree.View),
	}

	add := func(m map[string][]*tree.View, v *tree.View, err error, what string) {
		if err != nil {
			f.logger.WithError(err).WithField("entry", what).Warn("Skipping entry")
			return
		}
		m[v.Key] = append(m[v.Key], v)
	}

	iv, err := node.FromGetInfo(*info)
	if err != nil {
		return nil, err
	}
	res.Nodes[iv.Key] = append(res.Nodes[iv.Key], iv)

	for _, c := range listing.Channels {
		v, err := channel.FromListChannel(local, c, at)
		add(res.Channels, v, err, lnd.FormatChannelID(c.ChanID))
	}
	for _, e := range graph.Edges {
		v, err := channel.FromChannelEdge(local, source.DescribeGraph, e)
		add(res.Channels, v, err, lnd.FormatChannelID(e.ChannelID))
	}
	for _, n := range graph.Nodes {
		v, err := node.FromGraphNode(local, n)
		add(res.Nodes, v, err, n.PubKey)
	}

	f.logger.WithFields(logrus.Fields{
		"channels": len(res.Channels),
		"nodes":    len(res.Nodes),
	}).Debug("Fetched graph")

	return res, nil
}
