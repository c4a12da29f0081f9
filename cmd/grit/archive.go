package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/grit/pkg/item"
)

// archiveCmd moves an item into the archive subtree.
var archiveCmd = &cobra.Command{
	Use:   "archive <todo|memo> <slug>",
	Short: "Move an item into the archive",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		moveItem(args[0], args[1], true)
	},
}

// unarchiveCmd moves an item back into its active subtree.
var unarchiveCmd = &cobra.Command{
	Use:   "unarchive <todo|memo> <slug>",
	Short: "Move an item out of the archive",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		moveItem(args[0], args[1], false)
	},
}

func moveItem(typeArg, slug string, toArchive bool) {
	typ, err := item.ParseType(typeArg)
	if err != nil {
		fatal("Invalid type", err)
	}

	st, err := openStore()
	if err != nil {
		fatal("Failed to open store", err)
	}

	ctx := context.Background()
	it, err := st.Get(ctx, typ, slug)
	if err != nil {
		fatal("Failed to load item", err)
	}

	if toArchive {
		it, err = st.Archive(ctx, it)
	} else {
		it, err = st.Unarchive(ctx, it)
	}
	if err != nil {
		fatal("Failed to move item", err)
	}
	st.PushAsync(ctx)

	verb := "Archived"
	if !toArchive {
		verb = "Unarchived"
	}
	fmt.Printf("%s %s %q (%s)\n", verb, it.Type(), it.Name(), it.ID())
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(unarchiveCmd)
}
