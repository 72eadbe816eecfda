package diff

import (
	"reflect"
	"testing"

	"github.com/lnrecon/lnrecon/src/source"
	"github.com/lnrecon/lnrecon/src/tree"
)

var schema = tree.Object(
	tree.F("id", tree.String()),
	tree.F("state", tree.String()),
	tree.F("accounting", tree.Object(
		tree.F("capacity", tree.Int()),
		tree.F("sent", tree.Int()),
	)),
	tree.F("partners", tree.List(tree.Object(
		tree.F("key", tree.String()),
		tree.F("fee", tree.Int()),
		tree.F("active", tree.Bool()),
	), "key")),
)

func build(t *testing.T, src source.Tag, attrs tree.Attrs) *tree.Node {
	n, err := tree.Build(schema, src, attrs)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCompareEqual(t *testing.T) {
	a := build(t, source.GetChanInfo, tree.Attrs{"id": "1", "state": "active"})
	b := build(t, source.SubscribeChannelGraph, tree.Attrs{"id": "1", "state": "active"})
	if d := Compare(schema, a, b); !d.Empty() {
		t.Fatalf("provenance alone is not a change: %v", d)
	}
}

func TestCompare(t *testing.T) {
	old := build(t, source.ListChannels, tree.Attrs{
		"id":         "1",
		"state":      "active",
		"accounting": tree.Attrs{"capacity": 10},
		"partners": []tree.Attrs{
			{"key": "b", "fee": 1},
			{"key": "d", "fee": 4},
		},
	})
	new := build(t, source.ListChannels, tree.Attrs{
		"id":         "1",
		"state":      "inactive",
		"accounting": tree.Attrs{"capacity": 10, "sent": 3},
		"partners": []tree.Attrs{
			{"key": "a", "active": true},
			{"key": "b", "fee": 2},
		},
	})

	expected := Diff{
		{Path: tree.Path{"state"}, From: "active", To: "inactive"},
		{Path: tree.Path{"accounting", "sent"}, From: nil, To: int64(3)},
		{Path: tree.Path{"partners", 0, "key"}, From: nil, To: "a"},
		{Path: tree.Path{"partners", 0, "active"}, From: nil, To: true},
		{Path: tree.Path{"partners", 1, "fee"}, From: int64(1), To: int64(2)},
		{Path: tree.Path{"partners", 1, "key"}, From: "d", To: nil},
		{Path: tree.Path{"partners", 1, "fee"}, From: int64(4), To: nil},
	}

	d := Compare(schema, old, new)
	if !reflect.DeepEqual(d, expected) {
		t.Fatalf("expected %v, got %v", expected, d)
	}

	paths := []string{
		"state",
		"accounting.sent",
		"partners[0].key",
		"partners[0].active",
		"partners[1].fee",
		"partners[1].key",
		"partners[1].fee",
	}
	if !reflect.DeepEqual(d.Paths(), paths) {
		t.Fatalf("got paths %v", d.Paths())
	}

	// same inputs, same order
	for i := 0; i < 10; i++ {
		if again := Compare(schema, old, new); !reflect.DeepEqual(again, d) {
			t.Fatalf("Compare should be deterministic")
		}
	}
}

func TestCompareFromNothing(t *testing.T) {
	n := build(t, source.GetChanInfo, tree.Attrs{"id": "1", "accounting": tree.Attrs{"capacity": 5}})
	expected := Diff{
		{Path: tree.Path{"id"}, To: "1"},
		{Path: tree.Path{"accounting", "capacity"}, To: int64(5)},
	}
	if d := Compare(schema, nil, n); !reflect.DeepEqual(d, expected) {
		t.Fatalf("got %v", d)
	}
}

func TestEncode(t *testing.T) {
	d := Diff{{Path: tree.Path{"partners", 0, "fee"}, From: nil, To: int64(2)}}
	data, err := tree.Marshal(d.Encode())
	if err != nil {
		t.Fatal(err)
	}
	expected := `[{"from":null,"path":["partners",0,"fee"],"to":2}]`
	if string(data) != expected {
		t.Fatalf("expected %s, got %s", expected, data)
	}
}

func TestJSONPatch(t *testing.T) {
	cases := []struct {
		name     string
		old, new tree.Attrs
	}{
		{
			"fill and replace",
			tree.Attrs{"id": "1", "state": "active"},
			tree.Attrs{"id": "1", "state": "inactive", "accounting": tree.Attrs{"capacity": 7}},
		},
		{
			"insert partner before existing",
			tree.Attrs{"id": "1", "partners": []tree.Attrs{{"key": "c", "fee": 1}}},
			tree.Attrs{"id": "1", "partners": []tree.Attrs{{"key": "a"}, {"key": "c", "fee": 2}, {"key": "d"}}},
		},
		{
			"drop partners",
			tree.Attrs{"id": "1", "partners": []tree.Attrs{{"key": "a"}, {"key": "b"}, {"key": "c"}}},
			tree.Attrs{"id": "1", "partners": []tree.Attrs{{"key": "b", "active": false}}},
		},
		{
			"remove subtree",
			tree.Attrs{"id": "1", "accounting": tree.Attrs{"sent": 1}},
			tree.Attrs{"id": "1"},
		},
	}

	for _, c := range cases {
		old := build(t, source.GetChanInfo, c.old)
		new := build(t, source.GetChanInfo, c.new)

		patch, err := JSONPatch(schema, old, new)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		got, err := ApplyPatch(tree.Project(schema, old), patch)
		if err != nil {
			t.Fatalf("%s: applying %s: %v", c.name, patch, err)
		}

		gotJSON, err := tree.Marshal(got)
		if err != nil {
			t.Fatal(err)
		}
		wantJSON, err := tree.Marshal(tree.Project(schema, new))
		if err != nil {
			t.Fatal(err)
		}
		if string(gotJSON) != string(wantJSON) {
			t.Fatalf("%s: patch %s gave %s, expected %s", c.name, patch, gotJSON, wantJSON)
		}
	}
}

func TestJSONPatchNoChange(t *testing.T) {
	n := build(t, source.GetChanInfo, tree.Attrs{"id": "1"})
	patch, err := JSONPatch(schema, n, n)
	if err != nil {
		t.Fatal(err)
	}
	if string(patch) != "[]" {
		t.Fatalf("expected an empty patch, got %s", patch)
	}
}
