package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/grit/pkg/item"
	"github.com/aretw0/grit/pkg/store"
)

var (
	listArchived bool
	listSort     string
)

// listCmd prints todos or memos, sorted.
var listCmd = &cobra.Command{
	Use:   "list [todo|memo]",
	Short: "List items",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		typ := item.TypeTodo
		if len(args) == 1 {
			t, err := item.ParseType(args[0])
			if err != nil {
				fatal("Invalid type", err)
			}
			typ = t
		}

		st, err := openStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		listing, err := st.List(context.Background(), typ, listArchived)
		if err != nil {
			fatal("Failed to list items", err)
		}

		if typ == item.TypeTodo {
			printTodos(listing)
		} else {
			printMemos(listing)
		}

		if listing.Skipped > 0 {
			fmt.Printf("(skipped %d unreadable file(s); run with -v for details)\n", listing.Skipped)
		}
	},
}

func printTodos(listing store.Listing) {
	key := item.TodoByPriority
	if listSort != "" {
		k, err := item.ParseTodoSortKey(listSort)
		if err != nil {
			fatal("Invalid sort key", err)
		}
		key = k
	}

	todos := make([]*item.Todo, 0, len(listing.Items))
	for _, it := range listing.Items {
		todos = append(todos, it.(*item.Todo))
	}
	item.SortTodos(todos, key)

	for _, t := range todos {
		mark := " "
		if t.Done {
			mark = "x"
		}
		due := ""
		if t.Due != nil {
			due = t.Due.String()
		}
		fmt.Printf("[%s] %-40s %-8s %-12s %-12s%s\n",
			mark, t.Title, t.Priority, due, t.Created, archiveTag(t.Archived))
	}
}

func printMemos(listing store.Listing) {
	key := item.MemoByCreated
	if listSort != "" {
		k, err := item.ParseMemoSortKey(listSort)
		if err != nil {
			fatal("Invalid sort key", err)
		}
		key = k
	}

	memos := make([]*item.Memo, 0, len(listing.Items))
	for _, it := range listing.Items {
		memos = append(memos, it.(*item.Memo))
	}
	item.SortMemos(memos, key)

	for _, m := range memos {
		fmt.Printf("%-44s %-12s %-12s%s\n", m.Title, m.Created, m.Updated, archiveTag(m.Archived))
	}
}

func archiveTag(archived bool) string {
	if archived {
		return "  [archived]"
	}
	return ""
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listArchived, "archived", "a", false, "Include archived items")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort key (todos: priority, due, created; memos: created, updated)")
}
