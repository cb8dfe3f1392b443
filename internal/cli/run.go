package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-imgnorm/internal/codec"
	"github.com/askiada/go-imgnorm/internal/logger"
	"github.com/askiada/go-imgnorm/internal/registry"
	"github.com/askiada/go-imgnorm/pkg/pipeline/drawer"
	"github.com/askiada/go-imgnorm/pkg/pipeline/measure"
	"github.com/askiada/go-imgnorm/pkg/pipeline/model"
)

func runCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [dataset...]",
		Short: "Normalize datasets, every configured dataset when none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			log := opts.logger(cmd.ErrOrStderr())
			names := args
			if len(names) == 0 {
				names = reg.Names()
				for _, skipped := range reg.Skipped() {
					log.Warn("dataset has no source path, skipping", "dataset", skipped)
				}
			}
			for _, name := range names {
				ds, err := reg.Get(name)
				if err != nil {
					return err
				}
				err = runDataset(cmd.Context(), ds, opts, log.With("dataset", name), cmd.OutOrStdout())
				if err != nil {
					return errors.Wrapf(err, "dataset %q", name)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.workers, "workers", "w", 0, "files processed concurrently by a step, overrides the registry")
	flags.BoolVar(&opts.measure, "measure", false, "print the duration of each step")
	flags.StringVar(&opts.draw, "draw", "", "directory receiving a DOT graph of each run")

	return cmd
}

func runDataset(ctx context.Context, ds registry.Dataset, opts *options, log logger.Logger, out io.Writer) error {
	var (
		pipeOpts []model.PipelineOption
		msr      measure.Measure
	)
	if opts.measure || opts.draw != "" {
		msr = measure.NewDefaultMeasure()
		pipeOpts = append(pipeOpts, measure.PipelineMeasure(msr))
	}
	if opts.draw != "" {
		if err := os.MkdirAll(opts.draw, 0o755); err != nil {
			return errors.Wrap(err, "unable to create graph directory")
		}
		pipeOpts = append(pipeOpts, drawer.PipelineDrawer(dotDrawer(filepath.Join(opts.draw, ds.Dir+".dot"), ds.Name), msr))
	}

	pipe, err := ds.Pipeline(pipeOpts...)
	if err != nil {
		return err
	}
	cfg, err := ds.RunConfig(codec.New(), log)
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}

	res, err := pipe.Execute(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("dataset normalized", "records", res.Records, "metadata", res.MetadataPath)

	if opts.measure {
		steps := make([]string, 0, len(res.Steps))
		for _, step := range res.Steps {
			steps = append(steps, step.Name)
		}
		fmt.Fprintf(out, "%s\n", ds.Name)
		return measure.Report(out, msr, steps)
	}

	return nil
}
