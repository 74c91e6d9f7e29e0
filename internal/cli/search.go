package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillon/mdgate/internal/spotlight"
)

func newSearchCmd() *cobra.Command {
	var scopes []string
	var live bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the Spotlight index",
		Long: `Search the Spotlight index with an mdfind query, e.g.

  mdgate search 'kMDItemFSName == "*.pdf"' --scope ~/Documents

With --live the query stays open and prints updates as the index
changes; interrupt with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if live {
				return runLive(func(ctx context.Context, fn spotlight.LineFunc) (*spotlight.Handle, error) {
					return a.client.SearchLive(ctx, args[0], scopes, fn)
				})
			}

			paths, err := a.client.Search(cmd.Context(), args[0], scopes)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&scopes, "scope", nil, "restrict the search to a directory (repeatable)")
	cmd.Flags().BoolVar(&live, "live", false, "keep the query open and stream updates")
	return cmd
}
