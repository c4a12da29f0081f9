package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/grit/pkg/item"
)

// rmCmd permanently deletes an item's file.
var rmCmd = &cobra.Command{
	Use:   "rm <todo|memo> <slug>",
	Short: "Delete an item permanently",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		typ, err := item.ParseType(args[0])
		if err != nil {
			fatal("Invalid type", err)
		}

		st, err := openStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		ctx := context.Background()
		it, err := st.Get(ctx, typ, args[1])
		if err != nil {
			fatal("Failed to load item", err)
		}

		if err := st.Delete(ctx, it); err != nil {
			fatal("Failed to delete item", err)
		}
		st.PushAsync(ctx)

		fmt.Printf("Deleted %s %q\n", it.Type(), it.Name())
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
