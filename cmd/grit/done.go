package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/grit/pkg/item"
)

// doneCmd toggles a todo's done flag.
var doneCmd = &cobra.Command{
	Use:   "done <slug>",
	Short: "Toggle a todo between done and pending",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		ctx := context.Background()
		it, err := st.Get(ctx, item.TypeTodo, args[0])
		if err != nil {
			fatal("Failed to load todo", err)
		}

		todo, err := st.ToggleDone(ctx, it.(*item.Todo))
		if err != nil {
			fatal("Failed to toggle todo", err)
		}
		st.PushAsync(ctx)

		state := "pending"
		if todo.Done {
			state = "done"
		}
		fmt.Printf("Marked %q %s\n", todo.Title, state)
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
