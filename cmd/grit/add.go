package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/grit/pkg/item"
)

var (
	addPriority string
	addDue      string
	addDesc     string
)

// addCmd is the quick-add entry point for todos.
var addCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Add a todo",
	Long:  `Create a new todo from the given title, with optional priority and due date.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := strings.Join(args, " ")

		priority, err := item.ParsePriority(addPriority)
		if err != nil {
			fatal("Invalid priority", err)
		}

		var due *item.Date
		if addDue != "" {
			d, err := item.ParseDate(addDue)
			if err != nil {
				fatal("Invalid due date", err)
			}
			due = &d
		}

		st, err := openStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		ctx := context.Background()
		todo, err := st.CreateTodo(ctx, title, priority, due, addDesc)
		if err != nil {
			fatal("Failed to add todo", err)
		}
		st.PushAsync(ctx)

		fmt.Printf("Added todo %q (%s)\n", todo.Title, todo.Slug)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(item.PriorityMedium), "Priority (high, medium, low)")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Longer description body")
}
