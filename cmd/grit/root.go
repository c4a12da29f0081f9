package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/grit/pkg/config"
	"github.com/aretw0/grit/pkg/store"
)

var (
	verbose bool
	dataDir string
	gitless bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grit",
	Short: "A local-first todo and memo tracker backed by Git",
	Long: `Grit keeps todos and memos as Markdown files with frontmatter headers
inside a directory that is also a git checkout. Every edit is committed
immediately, so nothing reported saved is ever lost.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "Data directory (overrides the configured one)")
	rootCmd.PersistentFlags().BoolVar(&gitless, "gitless", false, "Disable git commits (testing/offline)")
}

// errNotConfigured is the first-run state: nothing saved yet, nothing broken.
var errNotConfigured = errors.New("no data directory configured yet; run 'grit init <dir>' first")

// openStore resolves the active data directory (flag first, then the
// saved config) and binds a store to it.
func openStore() (*store.Store, error) {
	dir := dataDir
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, errNotConfigured
		}
		dir = cfg.DataDir
	}

	return store.Open(dir,
		store.WithLogger(slog.Default()),
		store.WithGitless(gitless),
	)
}
