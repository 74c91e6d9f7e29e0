package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillon/mdgate/internal/spotlight"
)

func newLogsCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs <predicate>",
		Short: "Query system log entries matching a predicate",
		Long: `Query system log entries matching a predicate, e.g.

  mdgate logs 'process == "mds"'

Buffered queries cover the configured window (default 1h). With
--follow the live log is streamed until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if follow {
				return runLive(func(ctx context.Context, fn spotlight.LineFunc) (*spotlight.Handle, error) {
					return a.client.LogStream(ctx, args[0], fn)
				})
			}

			lines, err := a.client.LogShow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Println(l)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "stream the live log until interrupted")
	return cmd
}
