package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-imgnorm/pkg/pipeline/drawer"
)

func graphCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "graph <dataset> <file.dot>",
		Short: "Write the steps of a dataset as a DOT graph without running them",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			ds, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			opt := drawer.PipelineDrawer(dotDrawer(args[1], ds.Name), nil)
			_, err = ds.Pipeline(opt)
			if err != nil {
				return err
			}
			return errors.Wrap(opt.Finish(), "unable to draw pipeline")
		},
	}
}

// dotDrawer draws a dataset pipeline titled with the dataset name.
func dotDrawer(fileName, dataset string) *drawer.DOTDrawer {
	d := drawer.NewDOTDrawer(fileName)
	d.SetGraphAttribute("label", dataset)
	return d
}
