// Package reconcile merges partial views into composite snapshots.
//
// Every leaf keeps the value of the highest-ranked source that supplied it.
// An incoming value replaces a recorded one when its tag outranks or equals
// the recorded tag, so re-merging a fresh view of the same call updates what
// that call said before. Gaps are always filled. Object nodes take the better
// of the two tags, and list elements are paired by their sub-identity.
//
// Because distinct tags never tie, merging a set of views carrying distinct
// tags gives the same snapshot whatever the order.
package reconcile

import (
	"errors"

	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/source"
	"github.com/lnrecon/lnrecon/src/tree"
)

// ErrNoViews is returned by MergeAll when called without views.
var ErrNoViews = errors.New("reconcile: no views")

// Merge folds view into snap and returns the result. snap may be nil, in
// which case the snapshot is built from the view alone. Neither input is
// modified.
func Merge(s *tree.Schema, snap *tree.Snapshot, view *tree.View) (*tree.Snapshot, error) {
	if err := checkView(s, view); err != nil {
		return nil, err
	}

	if snap == nil {
		return &tree.Snapshot{
			Key:  view.Key,
			Root: view.Root.Clone(),
		}, nil
	}

	if err := identity.Verify(snap.Key, view.Key); err != nil {
		return nil, err
	}

	return &tree.Snapshot{
		Key:  snap.Key,
		Root: mergeObject(s, snap.Root, view.Root),
	}, nil
}

// MergeAll merges views in order, starting from nothing.
func MergeAll(s *tree.Schema, views ...*tree.View) (*tree.Snapshot, error) {
	if len(views) == 0 {
		return nil, ErrNoViews
	}
	var (
		snap *tree.Snapshot
		err  error
	)
	for _, v := range views {
		snap, err = Merge(s, snap, v)
		if err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func checkView(s *tree.Schema, view *tree.View) error {
	if view == nil || view.Root == nil {
		return tree.NewMalformedViewError(nil, "empty view")
	}
	if !view.Source.Valid() {
		return tree.NewMalformedViewError(nil, "unknown source %q", view.Source)
	}
	return tree.Validate(s, view.Root)
}

func mergeObject(s *tree.Schema, old, in *tree.Node) *tree.Node {
	res := tree.NewObject(source.Best(old.Source, in.Source))

	for _, f := range s.Fields {
		o, i := old.Get(f.Name), in.Get(f.Name)
		var merged *tree.Node
		switch {
		case o == nil && i == nil:
			continue
		case i == nil:
			merged = o.Clone()
		case o == nil:
			merged = i.Clone()
		default:
			switch f.Schema.Type {
			case tree.ObjectType:
				merged = mergeObject(f.Schema, o, i)
			case tree.ListType:
				merged = mergeList(f.Schema, o, i)
			default:
				merged = mergeLeaf(o, i)
			}
		}
		res.Set(f.Name, merged)
	}

	return res
}

func mergeLeaf(old, in *tree.Node) *tree.Node {
	if in.Source.Outranks(old.Source) {
		return in.Clone()
	}
	return old.Clone()
}

func mergeList(s *tree.Schema, old, in *tree.Node) *tree.Node {
	res := old.Clone()
	for _, e := range in.Items {
		m, _ := s.MatchValue(e)
		if idx := tree.FindElem(s, res, m); idx >= 0 {
			res.Items[idx] = mergeObject(s.Elem, res.Items[idx], e)
			continue
		}
		res.Items = append(res.Items, e.Clone())
	}
	tree.SortList(s, res)
	return res
}
