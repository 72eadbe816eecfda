package commands

import (
	"github.com/spf13/cobra"
)

var (
	_config = NewDefaultCLIConfig()
)

//RootCmd is the root command for lnrecon
var RootCmd = &cobra.Command{
	Use:              "lnrecon",
	Short:            "Lightning channel and node reconciliation",
	TraverseChildren: true,
}
