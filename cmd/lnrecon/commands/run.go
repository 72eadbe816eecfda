package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gammazero/nexus/v3/client"
	"github.com/lnrecon/lnrecon/src/feed/wamp"
	"github.com/lnrecon/lnrecon/src/fetch"
	"github.com/lnrecon/lnrecon/src/lnd"
	"github.com/lnrecon/lnrecon/src/service"
	"github.com/lnrecon/lnrecon/src/tracker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//NewRunCmd returns the command that loads the graph and keeps it reconciled
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Load the graph, serve it, and follow gossip",
		PreRunE: loadConfig,
		RunE:    runTracker,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runTracker(cmd *cobra.Command, args []string) error {
	conf := &_config.Config
	logger := conf.Logger()

	tr := tracker.NewTracker(logger.WithField("component", "tracker"))

	f := fetch.NewFetcher(lnd.NewDir(conf.LndDir), logger.WithField("component", "fetch"))
	ctx, cancel := context.WithTimeout(context.Background(), conf.FetchTimeout)
	graph, err := f.Graph(ctx)
	cancel()
	if err != nil {
		logger.WithError(err).Error("Cannot read graph")
		return err
	}
	if err := tr.Load(graph); err != nil {
		// partial loads are still served
		logger.WithError(err).Warn("Graph loaded with errors")
	}
	logger.WithFields(logrus.Fields{
		"channels": len(tr.Channels()),
		"nodes":    len(tr.Nodes()),
	}).Info("Graph loaded")

	if !conf.NoService {
		s := service.NewService(conf.ServiceAddr, tr, logger.WithField("component", "service"))
		go s.Serve()
	}

	var done <-chan struct{}
	if conf.FeedEnabled() {
		sub, shutdown, err := startFeed(tr, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		defer sub.Close()
		done = sub.Done()
	}

	//Prepare sigCh to relay SIGINT and SIGTERM system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Shutting down")
	case <-done:
		logger.Error("Lost connection to the feed router")
	}

	return nil
}

// startFeed subscribes the tracker to gossip, and publishes its changes when
// asked to. The returned function releases what was started besides the
// subscriber.
func startFeed(tr *tracker.Tracker, logger *logrus.Entry) (*wamp.Subscriber, func(), error) {
	conf := &_config.Config
	feedLogger := logger.WithField("component", "feed")

	var server *wamp.Server
	dial := func() (*client.Client, error) {
		if server != nil {
			return wamp.DialLocal(server.Router(), conf.FeedRealm, feedLogger)
		}
		ctx, cancel := context.WithTimeout(context.Background(), conf.FeedTimeout)
		defer cancel()
		return wamp.Dial(ctx, conf.FeedAddr, conf.FeedRealm, conf.FeedTimeout, feedLogger)
	}

	if conf.FeedServe {
		var err error
		server, err = wamp.NewServer(conf.FeedAddr, conf.FeedRealm, feedLogger)
		if err != nil {
			return nil, nil, err
		}
		go server.Run()
	}

	var pub *wamp.Publisher
	shutdown := func() {
		if pub != nil {
			pub.Close()
		}
		if server != nil {
			server.Shutdown()
		}
	}

	if conf.PublishChanges {
		cli, err := dial()
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		pub = wamp.NewPublisher(cli, feedLogger)
		tr.OnChange(pub.Changes())
	}

	cli, err := dial()
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	sub := wamp.NewSubscriber(cli, tr, feedLogger)
	if err := sub.Listen(); err != nil {
		cli.Close()
		shutdown()
		return nil, nil, err
	}

	feedLogger.WithFields(logrus.Fields{
		"addr":    conf.FeedAddr,
		"realm":   conf.FeedRealm,
		"serve":   conf.FeedServe,
		"publish": conf.PublishChanges,
	}).Info("Following gossip")

	return sub, shutdown, nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)

	// Service
	cmd.Flags().Bool("no-service", _config.Config.NoService, "Disable HTTP service")
	cmd.Flags().StringP("service-listen", "s", _config.Config.ServiceAddr, "Listen IP:Port for HTTP service")

	// Feed
	cmd.Flags().String("feed-addr", _config.Config.FeedAddr, "IP:Port of the WAMP router carrying gossip")
	cmd.Flags().String("feed-realm", _config.Config.FeedRealm, "WAMP realm of the gossip topics")
	cmd.Flags().Bool("feed-serve", _config.Config.FeedServe, "Host the WAMP router on feed-addr")
	cmd.Flags().Duration("feed-timeout", _config.Config.FeedTimeout, "WAMP response timeout")
	cmd.Flags().Bool("publish-changes", _config.Config.PublishChanges, "Publish tracker changes on the feed")
}
