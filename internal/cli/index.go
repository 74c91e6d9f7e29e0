package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <action> <volume>",
		Short: "Apply an index management action to a volume",
		Long: `Apply an index management action to a volume.

Actions:
  enable    turn indexing on
  disable   turn indexing off
  erase     discard the index and reindex from scratch
  rebuild   list and rebuild the index store

Erase and rebuild are refused outright on protected volumes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			out, err := a.client.Manage(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("%s applied to %s", args[0], args[1])
			}
			fmt.Println(out)
			return nil
		},
	}
}
