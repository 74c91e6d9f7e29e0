package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillon/mdgate/internal/spotlight"
)

func newStatusCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status [volume]",
		Short: "Report the indexing state of a volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			st, err := a.client.Status(cmd.Context(), path)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(st)
			}
			printVolume(*st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newVolumesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "List the indexing state of all mounted volumes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			vols, err := a.client.Volumes(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(vols)
			}
			if len(vols) == 0 {
				fmt.Println("no volumes reported; indexing tools unavailable on this platform")
				return nil
			}
			for _, v := range vols {
				printVolume(v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <volume>",
		Short: "Report indexing progress for a volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			out, err := a.client.Progress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = "no progress reported"
			}
			fmt.Println(out)
			return nil
		},
	}
}

func printVolume(v spotlight.VolumeStatus) {
	if v.Detail != "" && v.State != spotlight.StateEnabled && v.State != spotlight.StateDisabled {
		fmt.Printf("%-30s %s (%s)\n", v.Volume, v.State, v.Detail)
		return
	}
	fmt.Printf("%-30s %s\n", v.Volume, v.State)
}
