package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newActivityCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recently executed commands and their outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			// The in-process ring is empty in a fresh CLI process; the
			// journal carries history across invocations.
			entries := a.client.Activity(limit)
			if len(entries) == 0 && a.journal != nil {
				entries, err = a.journal.Recent(limit)
				if err != nil {
					return err
				}
			}
			if len(entries) == 0 {
				fmt.Println("no commands recorded")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %-40s %s\n", e.Time.Format("15:04:05"), e.Command, e.Outcome)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")
	return cmd
}
