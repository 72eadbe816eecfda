package entity

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/source"
	"github.com/lnrecon/lnrecon/src/tree"
)

var thing = &Kind{
	Name: "thing",
	Schema: tree.Object(
		tree.F("id", tree.String()),
		tree.F("name", tree.String()),
		tree.F("myself", tree.Bool()),
		tree.F("members", tree.List(tree.Object(
			tree.F("key", tree.String()),
			tree.F("weight", tree.Int()),
		), "key")),
	),
	Identify: func(root *tree.Node) (string, error) {
		n := root.Get("id")
		if n == nil {
			return "", AbsentFieldError{Kind: "thing", Field: "id"}
		}
		id, ok := n.Value.(string)
		if !ok {
			return "", AbsentFieldError{Kind: "thing", Field: "id"}
		}
		return identity.Key("thing", id), nil
	},
	Mine: func(root *tree.Node) bool {
		return Flagged(root.Get("myself"))
	},
}

func view(t *testing.T, src source.Tag, attrs tree.Attrs) *tree.View {
	v, err := tree.BuildView(thing.Schema, src, "", attrs)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func mustFromView(t *testing.T, v *tree.View) *Entity {
	e, err := FromView(thing, v)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestNew(t *testing.T) {
	v := view(t, source.GetInfo, tree.Attrs{"id": "1"})
	e := mustFromView(t, v)

	if _, err := New(thing, Origin{}); !IsConstructionArgument(err) {
		t.Fatalf("expected ConstructionArgumentError, got %v", err)
	}
	if _, err := New(thing, Origin{View: v, Dump: e.Dump()}); !IsConstructionArgument(err) {
		t.Fatalf("expected ConstructionArgumentError, got %v", err)
	}

	fromView, err := New(thing, Origin{View: v})
	if err != nil {
		t.Fatal(err)
	}
	fromDump, err := New(thing, Origin{Dump: e.Dump()})
	if err != nil {
		t.Fatal(err)
	}
	if fromView.Key() != identity.Key("thing", "1") || fromDump.Key() != fromView.Key() {
		t.Fatalf("unexpected keys %s %s", fromView.Key(), fromDump.Key())
	}
}

func TestFromViewChecksKey(t *testing.T) {
	v := view(t, source.GetInfo, tree.Attrs{"id": "1"})
	v.Key = identity.Key("thing", "2")
	if _, err := FromView(thing, v); !IsIdentityMismatch(err) {
		t.Fatalf("expected IdentityMismatchError, got %v", err)
	}
	if _, err := FromView(thing, view(t, source.GetInfo, tree.Attrs{"name": "x"})); !IsAbsentField(err) {
		t.Fatalf("a view without identity fields should be rejected, got %v", err)
	}
}

func TestFromDumpChecksKey(t *testing.T) {
	e := mustFromView(t, view(t, source.GetInfo, tree.Attrs{"id": "1"}))
	dump := e.Dump()
	dump[tree.KeyField] = identity.Key("thing", "2")
	if _, err := FromDump(thing, dump); !IsIdentityMismatch(err) {
		t.Fatalf("expected IdentityMismatchError, got %v", err)
	}
}

func TestApply(t *testing.T) {
	e := mustFromView(t, view(t, source.SubscribeChannelGraph, tree.Attrs{"id": "1", "name": "old"}))

	update := view(t, source.SubscribeChannelGraph, tree.Attrs{
		"id":      "1",
		"name":    "new",
		"members": []tree.Attrs{{"key": "a", "weight": 3}},
	})
	d, err := e.Apply(update)
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"name", "members[0].key", "members[0].weight"}
	if diff := cmp.Diff(expected, d.Paths()); diff != "" {
		t.Fatalf("unexpected diff (-want +got):\n%s", diff)
	}
	if d[0].From != "old" || d[0].To != "new" {
		t.Fatalf("unexpected entry %v", d[0])
	}

	again, err := e.Apply(update)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Empty() {
		t.Fatalf("second application should be a no-op, got %v", again)
	}
}

func TestApplyMismatchLeavesEntityUntouched(t *testing.T) {
	e := mustFromView(t, view(t, source.GetInfo, tree.Attrs{"id": "1", "name": "n"}))
	before, err := e.MarshalDump()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Apply(view(t, source.GetInfo, tree.Attrs{"id": "2", "name": "m"})); !IsIdentityMismatch(err) {
		t.Fatalf("expected IdentityMismatchError, got %v", err)
	}
	declared := view(t, source.GetInfo, tree.Attrs{"id": "1", "name": "m"})
	declared.Key = identity.Key("thing", "2")
	if _, err := e.Apply(declared); !IsIdentityMismatch(err) {
		t.Fatalf("a view declaring another key should be rejected, got %v", err)
	}

	after, err := e.MarshalDump()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("dump changed:\n%s\n%s", before, after)
	}
}

func TestApplyMalformed(t *testing.T) {
	e := mustFromView(t, view(t, source.GetInfo, tree.Attrs{"id": "1"}))
	bad := view(t, source.GetInfo, tree.Attrs{"id": "1", "name": "x"})
	bad.Root.Get("name").Value = int64(4)
	if _, err := e.Apply(bad); !tree.IsMalformed(err) {
		t.Fatalf("expected MalformedViewError, got %v", err)
	}
	if e.Lookup("name") != nil {
		t.Fatalf("entity should be unchanged")
	}
}

func TestUncovered(t *testing.T) {
	a, _ := tree.Build(thing.Schema, source.GetInfo, tree.Attrs{"id": "1", "members": []tree.Attrs{{"key": "a"}}})
	b, _ := tree.Build(thing.Schema, source.GetInfo, tree.Attrs{"id": "1", "members": []tree.Attrs{{"key": "b"}}})
	n, _ := tree.Build(thing.Schema, source.GetInfo, tree.Attrs{"id": "1", "members": []tree.Attrs{{"key": "a"}, {"key": "b"}}})

	if p, ok := uncovered(thing.Schema, n, a, b, tree.Path{}); !ok {
		t.Fatalf("every leaf is covered, got %v", p)
	}

	n.Get("members").Items[1].Set("weight", tree.NewLeaf(source.GetInfo, int64(1)))
	p, ok := uncovered(thing.Schema, n, a, b, tree.Path{})
	if ok || p.String() != "members[1].weight" {
		t.Fatalf("weight came from nowhere, got %v %v", p, ok)
	}
}

func TestState(t *testing.T) {
	cases := []struct {
		name  string
		views []*tree.View
		state State
	}{
		{
			"gossip only",
			[]*tree.View{view(t, source.SubscribeChannelGraph, tree.Attrs{"id": "1", "myself": true})},
			Unknown,
		},
		{
			"authoritative",
			[]*tree.View{view(t, source.DescribeGraph, tree.Attrs{"id": "1"})},
			KnownForeign,
		},
		{
			"gossip flag on a known entity",
			[]*tree.View{
				view(t, source.DescribeGraph, tree.Attrs{"id": "1"}),
				view(t, source.SubscribeChannelGraph, tree.Attrs{"id": "1", "myself": true}),
			},
			KnownForeign,
		},
		{
			"mine",
			[]*tree.View{view(t, source.ListChannels, tree.Attrs{"id": "1", "myself": true})},
			KnownMine,
		},
	}

	for _, c := range cases {
		e := mustFromView(t, c.views[0])
		for _, v := range c.views[1:] {
			if _, err := e.Apply(v); err != nil {
				t.Fatal(err)
			}
		}
		if s := e.State(); s != c.state {
			t.Fatalf("%s: expected %s, got %s", c.name, c.state, s)
		}
		if e.Known() != (c.state != Unknown) || e.Mine() != (c.state == KnownMine) {
			t.Fatalf("%s: Known/Mine disagree with %s", c.name, c.state)
		}

		// round trip through the dump in every state
		data, err := e.MarshalDump()
		if err != nil {
			t.Fatal(err)
		}
		back, err := UnmarshalDump(thing, data)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(e.Dump(), back.Dump()); diff != "" {
			t.Fatalf("%s: dump round trip (-want +got):\n%s", c.name, diff)
		}
		if diff := cmp.Diff(e.ToView(), back.ToView()); diff != "" {
			t.Fatalf("%s: view round trip (-want +got):\n%s", c.name, diff)
		}
		if back.State() != c.state {
			t.Fatalf("%s: state lost in round trip", c.name)
		}
	}
}

func TestGates(t *testing.T) {
	unknown := mustFromView(t, view(t, source.SubscribeChannelGraph, tree.Attrs{"id": "1"}))
	foreign := mustFromView(t, view(t, source.DescribeGraph, tree.Attrs{"id": "1"}))
	mine := mustFromView(t, view(t, source.GetInfo, tree.Attrs{"id": "1", "myself": true}))

	if err := unknown.RequireKnown("Name"); !IsUnknownEntity(err) {
		t.Fatalf("expected UnknownEntityError, got %v", err)
	}
	if err := unknown.RequireMine("Name"); !IsUnknownEntity(err) {
		t.Fatalf("expected UnknownEntityError, got %v", err)
	}
	if err := foreign.RequireKnown("Name"); err != nil {
		t.Fatal(err)
	}
	err := foreign.RequireMine("Name")
	if !IsNotAuthorized(err) || IsNotYourChannel(err) || IsNotYourNode(err) {
		t.Fatalf("expected a NotAuthorizedViewError for kind thing, got %v", err)
	}
	if err := mine.RequireMine("Name"); err != nil {
		t.Fatal(err)
	}

	if _, err := mine.StringAt("name"); !IsAbsentField(err) {
		t.Fatalf("expected AbsentFieldError, got %v", err)
	}
	if b, err := mine.BoolAt("myself"); err != nil || !b {
		t.Fatalf("expected myself, got %v %v", b, err)
	}
	if _, err := mine.IntAt("id"); err == nil {
		t.Fatalf("reading a string as an int should fail")
	}
}

func TestStateString(t *testing.T) {
	for s, name := range map[State]string{
		Unknown:      "Unknown",
		KnownForeign: "KnownForeign",
		KnownMine:    "KnownMine",
		State(9):     "Invalid",
	} {
		if s.String() != name {
			t.Fatalf("expected %s, got %s", name, s)
		}
	}
}
