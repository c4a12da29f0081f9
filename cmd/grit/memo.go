package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var memoBody string

// memoCmd creates a freeform memo.
var memoCmd = &cobra.Command{
	Use:   "memo <title>...",
	Short: "Add a memo",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := strings.Join(args, " ")

		st, err := openStore()
		if err != nil {
			fatal("Failed to open store", err)
		}

		ctx := context.Background()
		memo, err := st.CreateMemo(ctx, title, memoBody)
		if err != nil {
			fatal("Failed to add memo", err)
		}
		st.PushAsync(ctx)

		fmt.Printf("Added memo %q (%s)\n", memo.Title, memo.Slug)
	},
}

func init() {
	rootCmd.AddCommand(memoCmd)
	memoCmd.Flags().StringVarP(&memoBody, "body", "b", "", "Memo body text")
}
