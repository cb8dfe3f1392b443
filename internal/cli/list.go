package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the datasets of the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				ds, err := reg.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%d steps\n", name, ds.Paths.SourcePath, len(ds.Steps))
			}
			for _, name := range reg.Skipped() {
				fmt.Fprintf(out, "%s\t(no source path)\n", name)
			}
			return nil
		},
	}
}
