package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/lnrecon/lnrecon/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultLndDir is the default name of the folder containing recorded lnd
	// responses.
	DefaultLndDir = "lnd"
)

// Default configuration values.
const (
	DefaultLogLevel       = "info"
	DefaultServiceAddr    = "127.0.0.1:8080"
	DefaultFetchTimeout   = 30 * time.Second
	DefaultFeedRealm      = "lnrecon"
	DefaultFeedTimeout    = 5 * time.Second
	DefaultPublishChanges = false
)

// Config contains all the configuration properties of an lnrecon process.
type Config struct {
	// DataDir is the top-level directory containing configuration and
	// recorded responses.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, if set, receives a JSON copy of every log entry.
	LogFile string `mapstructure:"log-file"`

	// LndDir is the directory of recorded lnd responses read by lnd.Dir.
	LndDir string `mapstructure:"lnd-dir"`

	// FetchTimeout bounds every read of the lnd directory.
	FetchTimeout time.Duration `mapstructure:"timeout"`

	// NoService disables the HTTP API service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the HTTP service.
	ServiceAddr string `mapstructure:"service-listen"`

	// FeedAddr is the host:port of the WAMP router carrying gossip. The gossip
	// feed is disabled when it is empty.
	FeedAddr string `mapstructure:"feed-addr"`

	// FeedRealm is the WAMP realm of the gossip topics.
	FeedRealm string `mapstructure:"feed-realm"`

	// FeedServe starts an embedded router listening on FeedAddr instead of
	// connecting to an external one.
	FeedServe bool `mapstructure:"feed-serve"`

	// FeedTimeout is the response timeout of the WAMP client.
	FeedTimeout time.Duration `mapstructure:"feed-timeout"`

	// PublishChanges announces every tracker change on the feed.
	PublishChanges bool `mapstructure:"publish-changes"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:        DefaultDataDir(),
		LogLevel:       DefaultLogLevel,
		LndDir:         DefaultLndDirPath(),
		FetchTimeout:   DefaultFetchTimeout,
		ServiceAddr:    DefaultServiceAddr,
		FeedRealm:      DefaultFeedRealm,
		FeedTimeout:    DefaultFeedTimeout,
		PublishChanges: DefaultPublishChanges,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level directory, and moves the lnd directory
// inside it if it is still the default.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.LndDir == DefaultLndDirPath() {
		c.LndDir = filepath.Join(dataDir, DefaultLndDir)
	}
}

// FeedEnabled ...
func (c *Config) FeedEnabled() bool {
	return c.FeedAddr != ""
}

// Logger returns a formatted logrus Entry, with prefix set to "lnrecon".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
		if c.LogFile != "" {
			c.logger.Hooks.Add(lfshook.NewHook(
				c.LogFile,
				&logrus.JSONFormatter{},
			))
		}
	}
	return c.logger.WithField("prefix", "lnrecon")
}

// DefaultLndDirPath returns the default path of recorded lnd responses.
func DefaultLndDirPath() string {
	return filepath.Join(DefaultDataDir(), DefaultLndDir)
}

// DefaultDataDir return the default directory name for top-level lnrecon
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".LNRecon")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "LNRecon")
		} else {
			return filepath.Join(home, ".lnrecon")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
