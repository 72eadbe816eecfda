package channel

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lnrecon/lnrecon/src/diff"
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/source"
	"github.com/lnrecon/lnrecon/src/tree"
)

func TestGossipUpdateOrder(t *testing.T) {
	c := gossipChannel(t)

	d, err := c.ApplyGossip(gossipBUpdate())
	if err != nil {
		t.Fatal(err)
	}

	expected := diff.Diff{
		{Path: tree.Path{"accounting", "capacity", "millisatoshis"}, From: int64(5000000000), To: int64(6000000000)},
		{Path: tree.Path{"partners", 1, "policy", "fee", "base", "millisatoshis"}, From: int64(1000), To: int64(1700)},
		{Path: tree.Path{"partners", 1, "policy", "fee", "rate", "parts_per_million"}, From: int64(1), To: int64(800)},
		{Path: tree.Path{"partners", 1, "policy", "htlc", "minimum", "millisatoshis"}, From: int64(1000), To: int64(1)},
		{Path: tree.Path{"partners", 1, "policy", "htlc", "maximum", "millisatoshis"}, From: nil, To: int64(5940000000)},
		{Path: tree.Path{"partners", 1, "policy", "htlc", "blocks", "delta", "minimum"}, From: int64(40), To: int64(144)},
		{Path: tree.Path{"partners", 1, "state"}, From: Active, To: Inactive},
	}
	if diff := cmp.Diff(expected, d); diff != "" {
		t.Fatalf("unexpected diff (-want +got):\n%s", diff)
	}

	again, err := c.ApplyGossip(gossipBUpdate())
	if err != nil {
		t.Fatal(err)
	}
	if !again.Empty() {
		t.Fatalf("applying the same update twice should yield nothing, got %v", again)
	}
}

func TestUnknownChannel(t *testing.T) {
	c := gossipChannel(t)

	if c.State() != entity.Unknown || c.Known() || c.Mine() {
		t.Fatalf("a gossip-only channel should be unknown, got %s", c.State())
	}
	if _, err := c.Status(); !entity.IsUnknownEntity(err) {
		t.Fatalf("Status: expected UnknownEntityError, got %v", err)
	}
	if _, err := c.UpAt(); !entity.IsUnknownEntity(err) {
		t.Fatalf("UpAt: expected UnknownEntityError, got %v", err)
	}
	if _, err := c.Accounting(); !entity.IsUnknownEntity(err) {
		t.Fatalf("Accounting: expected UnknownEntityError, got %v", err)
	}
	if _, err := c.Partners(); !entity.IsUnknownEntity(err) {
		t.Fatalf("Partners: expected UnknownEntityError, got %v", err)
	}
	if _, err := c.Myself(); !entity.IsUnknownEntity(err) {
		t.Fatalf("Myself: expected UnknownEntityError, got %v", err)
	}
	if _, err := c.Partner(); !entity.IsUnknownEntity(err) {
		t.Fatalf("Partner: expected UnknownEntityError, got %v", err)
	}

	// readers built directly on the channel are gated on their own
	acc := &Accounting{c: c}
	for name, f := range map[string]func() (int64, error){
		"Sent":      acc.Sent,
		"Received":  acc.Received,
		"Unsettled": acc.Unsettled,
		"Balance":   (&Partner{c: c, key: keyB}).Balance,
	} {
		if _, err := f(); !entity.IsUnknownEntity(err) {
			t.Fatalf("%s: expected UnknownEntityError, got %v", name, err)
		}
	}

	if e, err := c.Exposure(); err != nil || e != Public {
		t.Fatalf("exposure is public metadata, got %q %v", e, err)
	}
	if p, err := c.Point(); err != nil || p != chanPoint {
		t.Fatalf("point is public metadata, got %q %v", p, err)
	}
	if c.ID() != "700000x1234x1" || c.Key() != identity.Channel("700000x1234x1") {
		t.Fatalf("unexpected identity %s %s", c.ID(), c.Key())
	}
}

func TestConstructionArguments(t *testing.T) {
	v := mustView(FromEdgeUpdate(gossipB()))
	dump := gossipChannel(t).Dump()

	if _, err := New(entity.Origin{View: v, Dump: dump}); !entity.IsConstructionArgument(err) {
		t.Fatalf("expected ConstructionArgumentError, got %v", err)
	}
	if _, err := New(entity.Origin{}); !entity.IsConstructionArgument(err) {
		t.Fatalf("expected ConstructionArgumentError, got %v", err)
	}
	if _, err := New(entity.Origin{Dump: dump}); err != nil {
		t.Fatal(err)
	}
}

func TestIdentityMismatch(t *testing.T) {
	c := mineChannel(t)
	before, err := c.MarshalDump()
	if err != nil {
		t.Fatal(err)
	}

	u := gossipBUpdate()
	u.ChanID = otherID
	if _, err := c.ApplyGossip(u); !entity.IsIdentityMismatch(err) {
		t.Fatalf("expected IdentityMismatchError, got %v", err)
	}

	after, err := c.MarshalDump()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("snapshot changed:\n%s\n%s", before, after)
	}
}

func TestKnownForeignGates(t *testing.T) {
	c := foreignChannel(t)

	if c.State() != entity.KnownForeign {
		t.Fatalf("expected KnownForeign, got %s", c.State())
	}
	if s, err := c.Status(); err != nil || s != Active {
		t.Fatalf("Status: got %q %v", s, err)
	}
	acc, err := c.Accounting()
	if err != nil {
		t.Fatal(err)
	}
	if capacity, err := acc.Capacity(); err != nil || capacity != 1000000000 {
		t.Fatalf("Capacity: got %d %v", capacity, err)
	}

	partners, err := c.Partners()
	if err != nil {
		t.Fatal(err)
	}
	if len(partners) != 2 || partners[0].PublicKey() != keyB || partners[1].PublicKey() != keyC {
		t.Fatalf("partners should be sorted by key")
	}
	if s, err := partners[0].State(); err != nil || s != Inactive {
		t.Fatalf("keyB disabled its side, got %q %v", s, err)
	}
	if fee, err := partners[1].BaseFee(); err != nil || fee != 1000 {
		t.Fatalf("BaseFee: got %d %v", fee, err)
	}
	if _, err := partners[0].MaxHTLC(); !entity.IsAbsentField(err) {
		t.Fatalf("keyB announced no maximum, expected AbsentFieldError, got %v", err)
	}

	gated := map[string]func() error{
		"UpAt":      func() error { _, err := c.UpAt(); return err },
		"Myself":    func() error { _, err := c.Myself(); return err },
		"Partner":   func() error { _, err := c.Partner(); return err },
		"Sent":      func() error { _, err := acc.Sent(); return err },
		"Received":  func() error { _, err := acc.Received(); return err },
		"Unsettled": func() error { _, err := acc.Unsettled(); return err },
		"Balance":   func() error { _, err := partners[0].Balance(); return err },
	}
	for name, f := range gated {
		if err := f(); !entity.IsNotYourChannel(err) {
			t.Fatalf("%s: expected NotYourChannel, got %v", name, err)
		}
	}
}

func TestKnownMine(t *testing.T) {
	c := mineChannel(t)

	if c.State() != entity.KnownMine {
		t.Fatalf("expected KnownMine, got %s", c.State())
	}

	upAt, err := c.UpAt()
	if err != nil {
		t.Fatal(err)
	}
	if !upAt.Equal(fetchedAt.Add(-time.Hour)) {
		t.Fatalf("up_at should be fetch time minus uptime, got %s", upAt)
	}

	acc, err := c.Accounting()
	if err != nil {
		t.Fatal(err)
	}
	amounts := map[string]func() (int64, error){
		"capacity":  acc.Capacity,
		"sent":      acc.Sent,
		"received":  acc.Received,
		"unsettled": acc.Unsettled,
	}
	expected := map[string]int64{
		"capacity":  5000000000,
		"sent":      20000,
		"received":  30000,
		"unsettled": 4000,
	}
	for name, f := range amounts {
		v, err := f()
		if err != nil || v != expected[name] {
			t.Fatalf("%s: expected %d, got %d %v", name, expected[name], v, err)
		}
	}

	me, err := c.Myself()
	if err != nil {
		t.Fatal(err)
	}
	if me.PublicKey() != keyA {
		t.Fatalf("Myself should be keyA, got %s", me.PublicKey())
	}
	if b, err := me.Balance(); err != nil || b != 3000000000 {
		t.Fatalf("local balance: got %d %v", b, err)
	}
	if opened, err := me.Initiator(); err != nil || !opened {
		t.Fatalf("the local node opened the channel")
	}

	them, err := c.Partner()
	if err != nil {
		t.Fatal(err)
	}
	if them.PublicKey() != keyB {
		t.Fatalf("Partner should be keyB, got %s", them.PublicKey())
	}
	if b, err := them.Balance(); err != nil || b != 1990000000 {
		t.Fatalf("remote balance: got %d %v", b, err)
	}
}

func TestGraphEdgeOfLocalNode(t *testing.T) {
	e := edge()
	c, err := FromView(mustView(FromChannelEdge(keyC, source.GetChanInfo, e)))
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != entity.KnownMine {
		t.Fatalf("an edge of the local node is mine, got %s", c.State())
	}
	acc, err := c.Accounting()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := acc.Sent(); !entity.IsAbsentField(err) {
		t.Fatalf("the graph does not report traffic, expected AbsentFieldError, got %v", err)
	}

	if _, err := FromChannelEdge(keyC, source.ListChannels, e); err == nil {
		t.Fatalf("edges cannot come from list_channels")
	}
	e.Node1Pub = "03zz"
	if _, err := FromChannelEdge("", source.DescribeGraph, e); !tree.IsMalformed(err) {
		t.Fatalf("expected MalformedViewError for a bad key, got %v", err)
	}
}

func TestEdgeState(t *testing.T) {
	enabled := &lnd.RoutingPolicy{}
	disabled := &lnd.RoutingPolicy{Disabled: true}
	cases := []struct {
		policies []*lnd.RoutingPolicy
		state    interface{}
	}{
		{[]*lnd.RoutingPolicy{nil, nil}, nil},
		{[]*lnd.RoutingPolicy{enabled, nil}, Active},
		{[]*lnd.RoutingPolicy{disabled, enabled}, Active},
		{[]*lnd.RoutingPolicy{disabled, nil}, Inactive},
		{[]*lnd.RoutingPolicy{disabled, disabled}, Inactive},
	}
	for i, c := range cases {
		if s := edgeState(c.policies...); s != c.state {
			t.Fatalf("case %d: expected %v, got %v", i, c.state, s)
		}
	}
}

func TestGossipCannotDowngrade(t *testing.T) {
	c := mineChannel(t)

	d, err := c.ApplyGossip(gossipBUpdate())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range d {
		if e.Path[0] == "accounting" {
			t.Fatalf("gossip should not overwrite the listed capacity: %v", e)
		}
	}
	if fee, err := func() (int64, error) {
		p, err := c.Partner()
		if err != nil {
			return 0, err
		}
		return p.BaseFee()
	}(); err != nil || fee != 1700 {
		t.Fatalf("gossip should fill the policy gap, got %d %v", fee, err)
	}
	if c.State() != entity.KnownMine {
		t.Fatalf("gossip should not change the capability state")
	}
}

func TestUpgradeToKnown(t *testing.T) {
	c := gossipChannel(t)

	d, err := c.Apply(mustView(FromListChannel(keyA, listed(), fetchedAt)))
	if err != nil {
		t.Fatal(err)
	}
	if d.Empty() {
		t.Fatalf("the listing adds fields")
	}
	if c.State() != entity.KnownMine {
		t.Fatalf("expected KnownMine after the listing, got %s", c.State())
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []*Channel{gossipChannel(t), foreignChannel(t), mineChannel(t)} {
		back, err := FromDump(c.Dump())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(back.Dump(), c.Dump()) {
			t.Fatalf("%s: dump does not round trip", c.State())
		}
		if !reflect.DeepEqual(back.ToView(), c.ToView()) {
			t.Fatalf("%s: view does not round trip", c.State())
		}

		data, err := c.MarshalDump()
		if err != nil {
			t.Fatal(err)
		}
		unmarshalled, err := UnmarshalDump(data)
		if err != nil {
			t.Fatal(err)
		}
		again, err := unmarshalled.MarshalDump()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, again) {
			t.Fatalf("%s: marshalled dump does not round trip", c.State())
		}
		if unmarshalled.State() != c.State() {
			t.Fatalf("state lost: %s != %s", unmarshalled.State(), c.State())
		}
	}
}

func TestDumpProvenance(t *testing.T) {
	c := mineChannel(t)
	if _, err := c.ApplyGossip(gossipBUpdate()); err != nil {
		t.Fatal(err)
	}
	dump := c.Dump()

	if dump[tree.KeyField] != c.Key() || dump[tree.SourceField] != string(source.ListChannels) {
		t.Fatalf("root should carry the key and the best source")
	}
	partners := dump["partners"].([]interface{})
	b := partners[1].(map[string]interface{})
	if b[tree.SourceField] != string(source.ListChannels) {
		t.Fatalf("partner keyB was listed, got %v", b[tree.SourceField])
	}
	policy := b["policy"].(map[string]interface{})
	if policy[tree.SourceField] != string(source.SubscribeChannelGraph) {
		t.Fatalf("the policy came from gossip, got %v", policy[tree.SourceField])
	}
	state := b["state"].(map[string]interface{})
	if state[tree.SourceField] != string(source.SubscribeChannelGraph) || state[tree.ValueField] != Inactive {
		t.Fatalf("a gossip leaf under a listed object should be tagged, got %v", state)
	}
}
