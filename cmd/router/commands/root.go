package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/lnrecon/lnrecon/src/config"
	"github.com/lnrecon/lnrecon/src/feed/wamp"
	"github.com/spf13/cobra"
)

var (
	addr     = "127.0.0.1:8001"
	realm    = config.DefaultFeedRealm
	logLevel = config.DefaultLogLevel
)

//RootCmd is the root command for the standalone gossip router
var RootCmd = &cobra.Command{
	Use:   "router",
	Short: "WAMP router for lnrecon gossip feeds",
	RunE:  runServer,
}

func init() {
	RootCmd.Flags().StringVar(&addr, "listen", addr, "Listen IP:Port for websocket clients")
	RootCmd.Flags().StringVar(&realm, "realm", realm, "WAMP realm")
	RootCmd.Flags().StringVar(&logLevel, "log", logLevel, "debug, info, warn, error, fatal, panic")
}

// runServer starts the WAMP server and waits for a SIGINT or SIGTERM
func runServer(cmd *cobra.Command, args []string) error {
	conf := config.NewDefaultConfig()
	conf.LogLevel = logLevel
	logger := conf.Logger().WithField("component", "router")

	server, err := wamp.NewServer(addr, realm, logger)
	if err != nil {
		return err
	}

	go server.Run()
	logger.WithField("addr", addr).Info("Serving")

	//Prepare sigCh to relay SIGINT and SIGTERM system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh

	server.Shutdown()

	return nil
}
