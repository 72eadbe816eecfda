package commands

import (
	"fmt"

	"github.com/lnrecon/lnrecon/src/channel"
	"github.com/lnrecon/lnrecon/src/config"
	"github.com/lnrecon/lnrecon/src/entity"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/node"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//CLIConfig contains configuration for the commands
type CLIConfig struct {
	Config config.Config `mapstructure:",squash"`
	// Format selects the output of reconcile: dump or view.
	Format string `mapstructure:"format"`
	// Patch makes apply print RFC 6902 patches instead of path-level diffs.
	Patch bool `mapstructure:"patch"`
	// Write makes apply overwrite the dump file with the result.
	Write bool `mapstructure:"write"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Config: *config.NewDefaultConfig(),
		Format: "dump",
	}
}

// addCommonFlags adds the flags shared by every command that reads lnd.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.Config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.Config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.Config.LogFile, "Also write logs to this file, as JSON")
	cmd.Flags().String("lnd-dir", _config.Config.LndDir, "Directory of recorded lnd responses")
	cmd.Flags().DurationP("timeout", "t", _config.Config.FetchTimeout, "Timeout of lnd reads")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --lnd-dir, this will update
	// the default lnd dir to be inside the new datadir
	_config.Config.SetDataDir(_config.Config.DataDir)

	_config.Config.Logger().WithFields(logrus.Fields{
		"DataDir":        _config.Config.DataDir,
		"LogLevel":       _config.Config.LogLevel,
		"LogFile":        _config.Config.LogFile,
		"LndDir":         _config.Config.LndDir,
		"FetchTimeout":   _config.Config.FetchTimeout,
		"NoService":      _config.Config.NoService,
		"ServiceAddr":    _config.Config.ServiceAddr,
		"FeedAddr":       _config.Config.FeedAddr,
		"FeedRealm":      _config.Config.FeedRealm,
		"FeedServe":      _config.Config.FeedServe,
		"PublishChanges": _config.Config.PublishChanges,
	}).Debug("Config")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/lnrecon.toml (.json, .yaml also work)
	viper.SetConfigName("lnrecon")
	viper.AddConfigPath(_config.Config.DataDir)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Config.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Config.Logger().Debugf("No config file found in: %s", _config.Config.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}

func kindOf(name string) (*entity.Kind, error) {
	switch name {
	case identity.ChannelKind:
		return channel.Kind, nil
	case identity.NodeKind:
		return node.Kind, nil
	default:
		return nil, fmt.Errorf("unknown kind %q, expected %s or %s", name, identity.ChannelKind, identity.NodeKind)
	}
}
