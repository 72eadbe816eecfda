package main

import (
	"os"

	cmd "github.com/lnrecon/lnrecon/cmd/lnrecon/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.VersionCmd,
		cmd.NewReconcileCmd(),
		cmd.NewApplyCmd(),
		cmd.NewRunCmd(),
	)

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
