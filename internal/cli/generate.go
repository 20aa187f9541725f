package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/activscan/internal/adapters/tabular"
	"github.com/okian/activscan/internal/sampledata"
)

const (
	defaultGenerateRows     = 200
	defaultGenerateOutliers = 10
)

type generateOptions struct {
	rows     int
	outliers int
	seed     int64
	output   string
}

func newGenerateCommand(_ *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic activation CSV with injected outliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			batch, err := sampledata.Generate(sampledata.Config{
				Rows:     opts.rows,
				Outliers: opts.outliers,
				Seed:     opts.seed,
			})
			if err != nil {
				return err
			}

			w, closeOut, err := createOutput(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			err = tabular.EncodeDataset(w, batch.Dataset)
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "generated %d records, outliers at rows %v\n", batch.Dataset.Len(), batch.Outliers)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.rows, "rows", "n", defaultGenerateRows, "number of records")
	f.IntVar(&opts.outliers, "outliers", defaultGenerateOutliers, "number of injected outliers")
	f.Int64Var(&opts.seed, "seed", 1, "random seed")
	f.StringVarP(&opts.output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
