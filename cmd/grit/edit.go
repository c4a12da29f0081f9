package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/grit/pkg/item"
)

var (
	editTitle    string
	editPriority string
	editDue      string
	editBody     string
)

// editCmd rewrites fields of an existing item in place.
var editCmd = &cobra.Command{
	Use:   "edit <todo|memo> <slug>",
	Short: "Edit an item's fields",
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

		switch v := it.(type) {
		case *item.Todo:
			if editTitle != "" {
				v.Title = editTitle
			}
			if editPriority != "" {
				p, err := item.ParsePriority(editPriority)
				if err != nil {
					fatal("Invalid priority", err)
				}
				v.Priority = p
			}
			if editDue != "" {
				d, err := item.ParseDate(editDue)
				if err != nil {
					fatal("Invalid due date", err)
				}
				v.Due = &d
			}
			if cmd.Flags().Changed("body") {
				v.Description = editBody
			}
		case *item.Memo:
			if editTitle != "" {
				v.Title = editTitle
			}
			if cmd.Flags().Changed("body") {
				v.Body = editBody
			}
		}

		if err := st.Update(ctx, it); err != nil {
			fatal("Failed to update item", err)
		}
		st.PushAsync(ctx)

		fmt.Printf("Updated %s %q\n", it.Type(), it.Name())
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority (todos only)")
	editCmd.Flags().StringVarP(&editDue, "due", "d", "", "New due date (todos only)")
	editCmd.Flags().StringVarP(&editBody, "body", "b", "", "New body text")
}
