package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchPattern string

// watchCmd streams out-of-band changes to item files until interrupted.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the data directory for changes",
	Long: `Stream filesystem events for item files, e.g. edits made in another
editor or files landing from a git pull. Runs until interrupted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		events, err := st.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Println("Watching", st.Root())
		for ev := range events {
			fmt.Printf("%s %-6s %s\n",
				time.Unix(ev.Timestamp, 0).Format(time.TimeOnly), ev.Type, ev.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Glob filter on relative paths (e.g. 'todo/**')")
}
