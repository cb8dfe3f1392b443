// Package cli implements the imgnorm command line.
package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-imgnorm/internal/logger"
	"github.com/askiada/go-imgnorm/internal/registry"
)

// Version is set at build time.
var Version = "dev"

type options struct {
	config   string
	logLevel string
	logJSON  bool
	workers  int
	measure  bool
	draw     string
}

func (o *options) logger(wrt io.Writer) logger.Logger {
	return logger.New(&logger.Config{
		Level:      logger.LogLevel(o.logLevel),
		Output:     wrt,
		JSON:       o.logJSON,
		TimeFormat: "15:04:05",
	})
}

func (o *options) registry() (*registry.Registry, error) {
	if o.config == "" {
		return nil, errors.New("--config must be set")
	}
	return registry.Load(o.config)
}

// RootCmd returns the imgnorm command and its subcommands.
func RootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "imgnorm",
		Short:         "Normalize medical imaging datasets into a canonical tree",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.config, "config", "c", "datasets.yaml", "path to the dataset registry")
	flags.StringVar(&opts.logLevel, "log-level", string(logger.InfoLevel), "debug, info, warn or error")
	flags.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(
		runCmd(opts),
		listCmd(opts),
		graphCmd(opts),
		versionCmd(),
	)

	return root
}
