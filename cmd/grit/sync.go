package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// syncCmd pulls and pushes synchronously, unlike the best-effort push
// fired after mutations.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull and push the data directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		if err := st.Sync(context.Background()); err != nil {
			fatal("Sync failed", err)
		}

		fmt.Println("Synced", st.Root())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
