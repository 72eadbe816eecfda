package wamp

import (
	"context"
	"fmt"
	"time"

	"github.com/gammazero/nexus/v3/client"
	"github.com/gammazero/nexus/v3/router"
	"github.com/sirupsen/logrus"
)

// Dial connects to the router at server (host:port) over websockets.
func Dial(ctx context.Context, server, realm string, timeout time.Duration, logger *logrus.Entry) (*client.Client, error) {
	cfg := client.Config{
		Realm:           realm,
		ResponseTimeout: timeout,
		Logger:          logger,
	}
	cli, err := client.ConnectNet(ctx, fmt.Sprintf("ws://%s", server), cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %v", server, err)
	}
	return cli, nil
}

// DialLocal connects an in-process client to r.
func DialLocal(r router.Router, realm string, logger *logrus.Entry) (*client.Client, error) {
	return client.ConnectLocal(r, client.Config{
		Realm:  realm,
		Logger: logger,
	})
}
