package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newMetadataCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "meta <path>",
		Short: "Read the Spotlight metadata attributes of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			attrs, err := a.client.Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(attrs)
			}
			if len(attrs) == 0 {
				fmt.Printf("no metadata for %s\n", args[0])
				return nil
			}

			keys := make([]string, 0, len(attrs))
			for k := range attrs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%s = %v\n", k, attrs[k])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
