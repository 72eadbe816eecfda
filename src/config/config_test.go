package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetDataDir(t *testing.T) {
	c := NewDefaultConfig()

	c.SetDataDir("/tmp/lnrecon")
	if c.LndDir != filepath.Join("/tmp/lnrecon", DefaultLndDir) {
		t.Fatalf("default lnd dir should follow the data dir, got %s", c.LndDir)
	}

	c.LndDir = "/var/lnd"
	c.SetDataDir("/tmp/other")
	if c.LndDir != "/var/lnd" {
		t.Fatalf("an explicit lnd dir should be kept, got %s", c.LndDir)
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"":      logrus.DebugLevel,
		"bogus": logrus.DebugLevel,
	}
	for in, want := range cases {
		if got := LogLevel(in); got != want {
			t.Fatalf("LogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestFeedEnabled(t *testing.T) {
	c := NewTestConfig(t, logrus.DebugLevel)
	if c.FeedEnabled() {
		t.Fatalf("the feed should be off by default")
	}
	c.FeedAddr = "127.0.0.1:9000"
	if !c.FeedEnabled() {
		t.Fatalf("the feed should be on once an address is set")
	}
}

func TestLogFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "lnrecon-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	c := NewDefaultConfig()
	c.LogLevel = "info"
	c.LogFile = filepath.Join(dir, "lnrecon.log")

	c.Logger().WithField("test", "file").Info("hello")

	data, err := ioutil.ReadFile(c.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) || !strings.Contains(string(data), `"prefix":"lnrecon"`) {
		t.Fatalf("unexpected log file content %s", data)
	}
}
