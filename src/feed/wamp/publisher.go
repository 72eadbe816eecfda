package wamp

import (
	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/tracker"
	"github.com/lnrecon/lnrecon/src/tree"
	"github.com/sirupsen/logrus"
)

// Publisher sends gossip and tracker changes to a router.
type Publisher struct {
	client *client.Client
	// Acknowledge makes every publication wait for the router to confirm it.
	Acknowledge bool
	logger      *logrus.Entry
}

// NewPublisher ...
func NewPublisher(cli *client.Client, logger *logrus.Entry) *Publisher {
	return &Publisher{
		client: cli,
		logger: logger,
	}
}

func (p *Publisher) options() wamp.Dict {
	if !p.Acknowledge {
		return nil
	}
	return wamp.Dict{wamp.OptAcknowledge: true}
}

func (p *Publisher) publish(topic string, msgs ...interface{}) error {
	if len(msgs) == 0 {
		return nil
	}
	args := make(wamp.List, 0, len(msgs))
	for _, m := range msgs {
		raw, err := encodeArg(m)
		if err != nil {
			return err
		}
		args = append(args, raw)
	}
	return p.client.Publish(topic, p.options(), args, nil)
}

// PublishChannelUpdates sends channel edge updates in one event.
func (p *Publisher) PublishChannelUpdates(us ...lnd.ChannelEdgeUpdate) error {
	msgs := make([]interface{}, len(us))
	for i := range us {
		msgs[i] = us[i]
	}
	return p.publish(TopicChannel, msgs...)
}

// PublishNodeUpdates sends node announcements in one event.
func (p *Publisher) PublishNodeUpdates(us ...lnd.NodeUpdate) error {
	msgs := make([]interface{}, len(us))
	for i := range us {
		msgs[i] = us[i]
	}
	return p.publish(TopicNode, msgs...)
}

// PublishTopology splits a topology update into node and channel events.
// Nodes go first so that subscribers learn aliases before edges.
func (p *Publisher) PublishTopology(u lnd.GraphTopologyUpdate) error {
	if err := p.PublishNodeUpdates(u.NodeUpdates...); err != nil {
		return err
	}
	return p.PublishChannelUpdates(u.ChannelUpdates...)
}

// PublishChange sends one tracker change on TopicChange. The patch is the
// only argument; kind, key, creation flag and the path-level diff travel as
// keyword arguments.
func (p *Publisher) PublishChange(c tracker.Change) error {
	d, err := tree.Marshal(c.Diff.Encode())
	if err != nil {
		return err
	}
	kwargs := wamp.Dict{
		"kind":    c.Kind,
		"key":     c.Key,
		"created": c.Created,
		"diff":    string(d),
	}
	return p.client.Publish(TopicChange, p.options(), wamp.List{string(c.Patch)}, kwargs)
}

// Changes returns a handler for Tracker.OnChange that publishes every change.
// Failures are logged and do not affect the tracker.
func (p *Publisher) Changes() tracker.ChangeHandler {
	return func(c tracker.Change) {
		if err := p.PublishChange(c); err != nil {
			p.logger.WithFields(logrus.Fields{
				"kind": c.Kind,
				"key":  c.Key,
			}).WithError(err).Error("Publishing change")
		}
	}
}

// Close closes the connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
