package wamp

import (
	"fmt"
	"sync/atomic"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/wamp"
	"github.com/lnrecon/lnrecon/src/diff"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/tracker"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

// Subscriber applies gossip received from a router to a Tracker.
type Subscriber struct {
	client  *client.Client
	tracker *tracker.Tracker
	logger  *logrus.Entry

	received uint64
	rejected uint64
}

// NewSubscriber does not subscribe yet; call Listen.
func NewSubscriber(cli *client.Client, t *tracker.Tracker, logger *logrus.Entry) *Subscriber {
	return &Subscriber{
		client:  cli,
		tracker: t,
		logger:  logger,
	}
}

// Listen subscribes to the gossip topics.
func (s *Subscriber) Listen() error {
	if err := s.client.Subscribe(TopicChannel, s.channelHandler, nil); err != nil {
		s.logger.WithError(err).Error("Failed to subscribe to channel updates")
		return err
	}
	if err := s.client.Subscribe(TopicNode, s.nodeHandler, nil); err != nil {
		s.client.Unsubscribe(TopicChannel)
		s.logger.WithError(err).Error("Failed to subscribe to node updates")
		return err
	}
	s.logger.Debug("Subscribed to gossip topics")
	return nil
}

// Done is closed when the connection to the router is lost.
func (s *Subscriber) Done() <-chan struct{} {
	return s.client.Done()
}

// Stats returns the number of updates received and rejected so far.
func (s *Subscriber) Stats() (received, rejected uint64) {
	return atomic.LoadUint64(&s.received), atomic.LoadUint64(&s.rejected)
}

// Close unsubscribes and closes the connection.
func (s *Subscriber) Close() error {
	s.client.Unsubscribe(TopicChannel)
	s.client.Unsubscribe(TopicNode)
	return s.client.Close()
}

func (s *Subscriber) channelHandler(ev *wamp.Event) {
	for i, arg := range ev.Arguments {
		var u lnd.ChannelEdgeUpdate
		if err := decodeArg(arg, &u); err != nil {
			s.reject(TopicChannel, i, err)
			continue
		}
		d, err := s.tracker.ApplyChannelUpdate(u)
		s.applied(TopicChannel, lnd.FormatChannelID(u.ChanID), d, err)
	}
}

func (s *Subscriber) nodeHandler(ev *wamp.Event) {
	for i, arg := range ev.Arguments {
		var u lnd.NodeUpdate
		if err := decodeArg(arg, &u); err != nil {
			s.reject(TopicNode, i, err)
			continue
		}
		d, err := s.tracker.ApplyNodeUpdate(u)
		s.applied(TopicNode, u.IdentityKey, d, err)
	}
}

func (s *Subscriber) applied(topic, id string, d diff.Diff, err error) {
	atomic.AddUint64(&s.received, 1)
	if err != nil {
		atomic.AddUint64(&s.rejected, 1)
		s.logger.WithFields(logrus.Fields{
			"topic": topic,
			"id":    id,
		}).WithError(err).Warn("Update rejected")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"topic":   topic,
		"id":      id,
		"changes": len(d),
	}).Debug("Update applied")
}

func (s *Subscriber) reject(topic string, i int, err error) {
	atomic.AddUint64(&s.received, 1)
	atomic.AddUint64(&s.rejected, 1)
	s.logger.WithFields(logrus.Fields{
		"topic": topic,
		"arg":   i,
	}).WithError(err).Warn("Undecodable update")
}

func decodeArg(arg interface{}, out interface{}) error {
	raw, ok := wamp.AsString(arg)
	if !ok {
		return fmt.Errorf("argument is %T, not a string", arg)
	}
	return codec.NewDecoderBytes([]byte(raw), new(codec.JsonHandle)).Decode(out)
}

func encodeArg(v interface{}) (string, error) {
	var raw []byte
	if err := codec.NewEncoderBytes(&raw, new(codec.JsonHandle)).Encode(v); err != nil {
		return "", err
	}
	return string(raw), nil
}
