package measure

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// Report writes one line per step, in the given order.
func Report(wrt io.Writer, measure Measure, steps []string) error {
	tw := tabwriter.NewWriter(wrt, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tFILES\tTOTAL\tPER FILE")
	for _, name := range steps {
		mt := measure.GetMetric(name)
		if mt == nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, mt.Files(), mt.TotalDuration(), mt.AVGDuration())
	}

	return errors.Wrap(tw.Flush(), "unable to write report")
}
