package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release process; the default marks dev builds.
var version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of grit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("grit version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
