package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/grit/pkg/config"
	"github.com/aretw0/grit/pkg/store"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Choose the data directory and initialize it",
	Long: `Initialize a data directory: create the todo/memo/archive layout,
run 'git init' if needed, and remember the directory for future commands.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			fatal("Failed to resolve directory", err)
		}

		st, err := store.Open(dir,
			store.WithLogger(slog.Default()),
			store.WithGitless(gitless),
		)
		if err != nil {
			fatal("Failed to initialize data directory", err)
		}

		if err := config.Save(config.Config{DataDir: st.Root()}); err != nil {
			fatal("Failed to save config", err)
		}

		fmt.Println("Tracking items in", st.Root())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
