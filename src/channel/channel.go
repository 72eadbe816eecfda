// Package channel is the channel entity: its schema, the adapters that turn
// lnd responses into partial views, and the capability-gated accessors.
//
// A channel first seen on the gossip stream is Unknown: only its public
// metadata can be read. Once an authoritative source (a direct lookup, the
// local listing or the graph description) mentions it, it becomes
// KnownForeign, and when that source flags the local node as a partner it
// becomes KnownMine, which unlocks balances, traffic counters and uptime.
package channel

import (
	"time"

	"github.com/lnrecon/lnrecon/src/diff"
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/tree"
)

// Channel is a reconciled channel.
type Channel struct {
	e *entity.Entity
}

// FromView creates a channel from its first view.
func FromView(v *tree.View) (*Channel, error) {
	e, err := entity.FromView(Kind, v)
	if err != nil {
		return nil, err
	}
	return &Channel{e: e}, nil
}

// FromDump restores a channel from the output of Dump.
func FromDump(dump map[string]interface{}) (*Channel, error) {
	e, err := entity.FromDump(Kind, dump)
	if err != nil {
		return nil, err
	}
	return &Channel{e: e}, nil
}

// New creates a channel from exactly one origin.
func New(o entity.Origin) (*Channel, error) {
	e, err := entity.New(Kind, o)
	if err != nil {
		return nil, err
	}
	return &Channel{e: e}, nil
}

// UnmarshalDump restores a channel from the output of MarshalDump.
func UnmarshalDump(data []byte) (*Channel, error) {
	e, err := entity.UnmarshalDump(Kind, data)
	if err != nil {
		return nil, err
	}
	return &Channel{e: e}, nil
}

// Entity exposes the generic entity.
func (c *Channel) Entity() *entity.Entity {
	return c.e
}

// Apply merges a view of this channel and returns what changed.
func (c *Channel) Apply(v *tree.View) (diff.Diff, error) {
	return c.e.Apply(v)
}

// ApplyGossip adapts a gossip update and applies it.
func (c *Channel) ApplyGossip(u lnd.ChannelEdgeUpdate) (diff.Diff, error) {
	v, err := FromEdgeUpdate(u)
	if err != nil {
		return nil, err
	}
	return c.e.Apply(v)
}

// Dump ...
func (c *Channel) Dump() map[string]interface{} {
	return c.e.Dump()
}

// MarshalDump ...
func (c *Channel) MarshalDump() ([]byte, error) {
	return c.e.MarshalDump()
}

// ToView ...
func (c *Channel) ToView() map[string]interface{} {
	return c.e.ToView()
}

// Key returns the identity key.
func (c *Channel) Key() string {
	return c.e.Key()
}

// ID returns the short channel id, e.g. 700000x1234x1.
func (c *Channel) ID() string {
	id, _ := c.e.StringAt("id")
	return id
}

// State returns the capability state.
func (c *Channel) State() entity.State {
	return c.e.State()
}

// Known ...
func (c *Channel) Known() bool {
	return c.e.Known()
}

// Mine ...
func (c *Channel) Mine() bool {
	return c.e.Mine()
}

// Exposure returns Public or Private.
func (c *Channel) Exposure() (string, error) {
	return c.e.StringAt("exposure")
}

// Point returns the funding outpoint.
func (c *Channel) Point() (string, error) {
	return c.e.StringAt("point")
}

// Status returns Active or Inactive.
func (c *Channel) Status() (string, error) {
	if err := c.e.RequireKnown("state"); err != nil {
		return "", err
	}
	return c.e.StringAt("state")
}

// UpAt returns when the channel last came online, as seen by the local node.
func (c *Channel) UpAt() (time.Time, error) {
	if err := c.e.RequireMine("up_at"); err != nil {
		return time.Time{}, err
	}
	sec, err := c.e.IntAt("up_at")
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).UTC(), nil
}

// Accounting returns the channel amounts.
func (c *Channel) Accounting() (*Accounting, error) {
	if err := c.e.RequireKnown("accounting"); err != nil {
		return nil, err
	}
	return &Accounting{c: c}, nil
}

// Partners returns both sides of the channel, ordered by public key.
func (c *Channel) Partners() ([]*Partner, error) {
	if err := c.e.RequireKnown("partners"); err != nil {
		return nil, err
	}
	list := c.e.Lookup("partners")
	if list == nil {
		return nil, entity.AbsentFieldError{Kind: Kind.Name, Key: c.Key(), Field: "partners"}
	}
	res := make([]*Partner, 0, len(list.Items))
	for _, p := range list.Items {
		key, _ := p.Lookup("node", "public_key").Value.(string)
		res = append(res, &Partner{c: c, key: key})
	}
	return res, nil
}

// Myself returns the partner that is the local node.
func (c *Channel) Myself() (*Partner, error) {
	return c.side("myself", true)
}

// Partner returns the remote side of a channel of the local node.
func (c *Channel) Partner() (*Partner, error) {
	return c.side("partner", false)
}

func (c *Channel) side(accessor string, myself bool) (*Partner, error) {
	if err := c.e.RequireMine(accessor); err != nil {
		return nil, err
	}
	partners, err := c.Partners()
	if err != nil {
		return nil, err
	}
	for _, p := range partners {
		if entity.Flagged(p.node().Get("myself")) == myself {
			return p, nil
		}
	}
	return nil, entity.AbsentFieldError{Kind: Kind.Name, Key: c.Key(), Field: accessor}
}

// Accounting reads the channel amounts, in millisatoshis. Capacity is
// public once the channel is known; traffic counters are only visible on
// channels of the local node.
type Accounting struct {
	c *Channel
}

// Capacity ...
func (a *Accounting) Capacity() (int64, error) {
	return a.c.e.IntAt("accounting", "capacity", "millisatoshis")
}

// Sent ...
func (a *Accounting) Sent() (int64, error) {
	return a.mine("sent")
}

// Received ...
func (a *Accounting) Received() (int64, error) {
	return a.mine("received")
}

// Unsettled ...
func (a *Accounting) Unsettled() (int64, error) {
	return a.mine("unsettled")
}

func (a *Accounting) mine(field string) (int64, error) {
	if err := a.c.e.RequireMine("accounting." + field); err != nil {
		return 0, err
	}
	return a.c.e.IntAt("accounting", field, "millisatoshis")
}
