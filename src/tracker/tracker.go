// Package tracker holds every reconciled channel and node of a process and
// serializes updates per entity.
//
// Each entity sits behind its own mutex, so updates to different entities
// proceed in parallel while updates to the same entity are applied one at a
// time. The registry lock only guards the maps.
package tracker

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lnrecon/lnrecon/src/channel"
	"github.com/lnrecon/lnrecon/src/common"
	"github.com/lnrecon/lnrecon/src/diff"
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/fetch"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/node"
	"github.com/lnrecon/lnrecon/src/tree"
	"github.com/sirupsen/logrus"
)

// Change describes the effect of one update.
type Change struct {
	Kind    string
	Key     string
	Created bool
	Diff    diff.Diff
	// Patch is the same change as an RFC 6902 patch over ToView.
	Patch []byte
}

// ChangeHandler is called after every update that changed something, while
// the entity is still locked, so handlers see the changes of one entity in
// order. Handlers must not call back into the Tracker for the same entity.
type ChangeHandler func(Change)

type entry struct {
	sync.Mutex
	ent *entity.Entity
}

// Tracker is the registry of reconciled entities.
type Tracker struct {
	mu       sync.RWMutex
	entities map[string]map[string]*entry // kind -> key -> entry
	handlers []ChangeHandler

	logger *logrus.Entry
}

// NewTracker ...
func NewTracker(logger *logrus.Entry) *Tracker {
	return &Tracker{
		entities: map[string]map[string]*entry{
			identity.ChannelKind: make(map[string]*entry),
			identity.NodeKind:    make(map[string]*entry),
		},
		logger: logger,
	}
}

// OnChange registers a handler.
func (t *Tracker) OnChange(h ChangeHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers = append(t.handlers, h)
}

// UpsertChannel merges views of one channel, creating it if needed.
func (t *Tracker) UpsertChannel(views ...*tree.View) (diff.Diff, error) {
	return t.Upsert(channel.Kind, views...)
}

// UpsertNode merges views of one node, creating it if needed.
func (t *Tracker) UpsertNode(views ...*tree.View) (diff.Diff, error) {
	return t.Upsert(node.Kind, views...)
}

// ApplyChannelUpdate adapts and applies a gossip update. A channel the
// tracker has never seen is created from the update alone, in the Unknown
// state.
func (t *Tracker) ApplyChannelUpdate(u lnd.ChannelEdgeUpdate) (diff.Diff, error) {
	v, err := channel.FromEdgeUpdate(u)
	if err != nil {
		applyErrors.WithLabelValues(identity.ChannelKind, errorLabel(err)).Inc()
		return nil, err
	}
	return t.Upsert(channel.Kind, v)
}

// ApplyNodeUpdate adapts and applies a gossip node announcement.
func (t *Tracker) ApplyNodeUpdate(u lnd.NodeUpdate) (diff.Diff, error) {
	v, err := node.FromNodeUpdate(u)
	if err != nil {
		applyErrors.WithLabelValues(identity.NodeKind, errorLabel(err)).Inc()
		return nil, err
	}
	return t.Upsert(node.Kind, v)
}

// Upsert merges views of one entity in order. The returned diff covers all
// of them; for a new entity every leaf appears as added. Merging stops at the
// first rejected view. What was merged before it is kept and notified, and
// the error is returned.
func (t *Tracker) Upsert(kind *entity.Kind, views ...*tree.View) (diff.Diff, error) {
	if len(views) == 0 {
		return nil, fmt.Errorf("no views of %s to merge", kind.Name)
	}
	if views[0] == nil || views[0].Root == nil {
		err := tree.NewMalformedViewError(nil, "empty view")
		applyErrors.WithLabelValues(kind.Name, errorLabel(err)).Inc()
		return nil, err
	}
	// The registry is keyed by the computed identity, never by the key a
	// view declares.
	key, err := kind.Identify(views[0].Root)
	if err != nil {
		t.rejected(kind, views[0], err)
		return nil, err
	}

	en := t.lock(kind.Name, key)
	defer en.Unlock()

	var (
		created bool
		before  *tree.Node
	)
	if en.ent == nil {
		ent, err := entity.FromView(kind, views[0])
		if err != nil {
			t.release(kind.Name, key, en)
			t.rejected(kind, views[0], err)
			return nil, err
		}
		en.ent = ent
		created = true
		trackedEntities.WithLabelValues(kind.Name).Inc()
		viewsApplied.WithLabelValues(kind.Name, string(views[0].Source)).Inc()
		views = views[1:]
	} else {
		before = en.ent.Snapshot().Root
	}

	var applyErr error
	for _, v := range views {
		if _, err := en.ent.Apply(v); err != nil {
			t.rejected(kind, v, err)
			applyErr = err
			break
		}
		viewsApplied.WithLabelValues(kind.Name, string(v.Source)).Inc()
	}

	after := en.ent.Snapshot().Root
	d := diff.Compare(kind.Schema, before, after)
	diffEntries.WithLabelValues(kind.Name).Add(float64(len(d)))

	if !d.Empty() {
		patch, err := diff.JSONPatch(kind.Schema, before, after)
		if err != nil {
			t.logger.WithError(err).Error("Rendering patch")
		}
		t.notify(Change{
			Kind:    kind.Name,
			Key:     en.ent.Key(),
			Created: created,
			Diff:    d,
			Patch:   patch,
		})
	}

	t.logger.WithFields(logrus.Fields{
		"kind":    kind.Name,
		"key":     en.ent.Key(),
		"created": created,
		"changes": len(d),
		"state":   en.ent.State(),
	}).Debug("Upsert")

	if applyErr != nil {
		return nil, applyErr
	}
	return d, nil
}

// reserve returns the entry of key, inserting an empty one if needed.
func (t *Tracker) reserve(kind, key string) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	en, ok := t.entities[kind][key]
	if !ok {
		en = &entry{}
		t.entities[kind][key] = en
	}
	return en
}

// lock returns the locked entry of key. An entry released while the caller
// waited for its lock is detached from the registry, so the caller starts
// over with a fresh one.
func (t *Tracker) lock(kind, key string) *entry {
	for {
		en := t.reserve(kind, key)
		en.Lock()
		t.mu.RLock()
		attached := t.entities[kind][key] == en
		t.mu.RUnlock()
		if attached {
			return en
		}
		en.Unlock()
	}
}

// release removes an entry that never got an entity.
func (t *Tracker) release(kind, key string, en *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entities[kind][key] == en && en.ent == nil {
		delete(t.entities[kind], key)
	}
}

func (t *Tracker) rejected(kind *entity.Kind, v *tree.View, err error) {
	applyErrors.WithLabelValues(kind.Name, errorLabel(err)).Inc()
	t.logger.WithError(err).WithFields(logrus.Fields{
		"kind":   kind.Name,
		"key":    v.Key,
		"source": v.Source,
	}).Warn("Rejected view")
}

func (t *Tracker) notify(c Change) {
	t.mu.RLock()
	handlers := t.handlers
	t.mu.RUnlock()
	for _, h := range handlers {
		h(c)
	}
}

func errorLabel(err error) string {
	switch {
	case entity.IsIdentityMismatch(err):
		return "identity_mismatch"
	case entity.IsInconsistentMutation(err):
		return "inconsistent_mutation"
	case entity.IsAbsentField(err):
		return "absent_field"
	case tree.IsMalformed(err):
		return "malformed_view"
	default:
		return "other"
	}
}

// get runs f on a tracked entity with its lock held.
func (t *Tracker) get(kind, key string, f func(*entity.Entity) error) error {
	t.mu.RLock()
	en, ok := t.entities[kind][key]
	t.mu.RUnlock()
	if !ok {
		return common.NewStoreErr(kind, common.KeyNotFound, key)
	}
	en.Lock()
	defer en.Unlock()
	if en.ent == nil {
		return common.NewStoreErr(kind, common.KeyNotFound, key)
	}
	return f(en.ent)
}

// Channel returns a copy of a tracked channel. Later updates do not affect
// the copy.
func (t *Tracker) Channel(key string) (*channel.Channel, error) {
	var c *channel.Channel
	err := t.get(identity.ChannelKind, key, func(e *entity.Entity) error {
		var err error
		c, err = channel.FromDump(e.Dump())
		return err
	})
	return c, err
}

// Node returns a copy of a tracked node.
func (t *Tracker) Node(key string) (*node.Node, error) {
	var n *node.Node
	err := t.get(identity.NodeKind, key, func(e *entity.Entity) error {
		var err error
		n, err = node.FromDump(e.Dump())
		return err
	})
	return n, err
}

// Dump returns the dump of a tracked entity.
func (t *Tracker) Dump(kind, key string) (map[string]interface{}, error) {
	var d map[string]interface{}
	err := t.get(kind, key, func(e *entity.Entity) error {
		d = e.Dump()
		return nil
	})
	return d, err
}

func (t *Tracker) keys(kind string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res := make([]string, 0, len(t.entities[kind]))
	for k := range t.entities[kind] {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Channels returns the keys of all tracked channels, sorted.
func (t *Tracker) Channels() []string {
	return t.keys(identity.ChannelKind)
}

// Nodes returns the keys of all tracked nodes, sorted.
func (t *Tracker) Nodes() []string {
	return t.keys(identity.NodeKind)
}

// Stats counts tracked entities per kind and capability state.
func (t *Tracker) Stats() map[string]string {
	stats := make(map[string]string)
	for _, kind := range []string{identity.ChannelKind, identity.NodeKind} {
		counts := make(map[entity.State]int)
		total := 0
		for _, key := range t.keys(kind) {
			t.get(kind, key, func(e *entity.Entity) error {
				counts[e.State()]++
				total++
				return nil
			})
		}
		stats[kind+"s"] = fmt.Sprint(total)
		for _, s := range []entity.State{entity.Unknown, entity.KnownForeign, entity.KnownMine} {
			stats[fmt.Sprintf("%ss_%s", kind, s)] = fmt.Sprint(counts[s])
		}
	}
	return stats
}

// Load upserts every entity of a graph read. Rejected views are logged and
// counted; the rest of the graph is still loaded.
func (t *Tracker) Load(g *fetch.Graph) error {
	failed := 0
	for _, group := range []struct {
		kind  *entity.Kind
		views map[string][]*tree.View
	}{
		{node.Kind, g.Nodes},
		{channel.Kind, g.Channels},
	} {
		keys := make([]string, 0, len(group.views))
		for k := range group.views {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := t.Upsert(group.kind, group.views[k]...); err != nil {
				failed++
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d entities rejected while loading the graph", failed)
	}
	return nil
}
