package lnd

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/lnrecon/lnrecon/src/common"
	"github.com/ugorji/go/codec"
)

// Dir is a Client that serves responses recorded as JSON files:
//
//  getinfo.json
//  listchannels.json
//  describegraph.json
//  chaninfo/<chan_id>.json
//  nodeinfo/<pub_key>.json
type Dir struct {
	Path string
}

// NewDir ...
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

func (d *Dir) read(ctx context.Context, name string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := filepath.Join(d.Path, name)
	data, err := ioutil.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return common.NewStoreErr("Response", common.KeyNotFound, name)
		}
		return err
	}
	jh := new(codec.JsonHandle)
	if err := codec.NewDecoderBytes(data, jh).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %v", p, err)
	}
	return nil
}

// GetInfo implements Client.
func (d *Dir) GetInfo(ctx context.Context) (*GetInfoResponse, error) {
	var res GetInfoResponse
	if err := d.read(ctx, "getinfo.json", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListChannels implements Client.
func (d *Dir) ListChannels(ctx context.Context) (*ListChannelsResponse, error) {
	var res ListChannelsResponse
	if err := d.read(ctx, "listchannels.json", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetChanInfo implements Client.
func (d *Dir) GetChanInfo(ctx context.Context, chanID uint64) (*ChannelEdge, error) {
	var res ChannelEdge
	if err := d.read(ctx, filepath.Join("chaninfo", fmt.Sprintf("%d.json", chanID)), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetNodeInfo implements Client.
func (d *Dir) GetNodeInfo(ctx context.Context, pubKey string) (*NodeInfo, error) {
	var res NodeInfo
	if err := d.read(ctx, filepath.Join("nodeinfo", pubKey+".json"), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DescribeGraph implements Client.
func (d *Dir) DescribeGraph(ctx context.Context) (*ChannelGraph, error) {
	var res ChannelGraph
	if err := d.read(ctx, "describegraph.json", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
