package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "vgcore",
	Short:   "Sequence-to-graph alignment and site decomposition",
	Version: "0.1.0",
}
