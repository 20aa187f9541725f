package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/activscan/internal/adapters/tabular"
	"github.com/okian/activscan/internal/domain/detect"
	"github.com/okian/activscan/internal/domain/model"
	"github.com/okian/activscan/internal/domain/types"
	"github.com/okian/activscan/internal/sampledata"
	"github.com/okian/activscan/pkg/logger"
)

type scoreOptions struct {
	output        string
	asJSON        bool
	trees         int
	contamination float64
	seed          int64
	maxSamples    int
	url           string
	timeout       time.Duration
}

func newScoreCommand(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score <file.csv>",
		Short: "Label every record of an activation CSV",
		Long: `Score reads an activation CSV ("-" for stdin), labels each record and writes
the labeled table as CSV, or as JSON with --json. A summary goes to stderr.

With --url the file is sent to a running activscan server instead of being
scored locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeIn()

			out, err := opts.scoreBatch(cmd, root, in)
			if err != nil {
				return err
			}

			w, closeOut, err := createOutput(opts.output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if opts.asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				err = enc.Encode(out)
			} else {
				err = writeBatchCSV(w, out)
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "scored %d records: %d anomalous, %d with unparseable fields\n",
				out.Report.Records, out.Report.Anomalies, len(out.Report.Parse.AffectedRows))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "write results to this file instead of stdout")
	f.BoolVar(&opts.asJSON, "json", false, "write JSON instead of CSV")
	f.IntVar(&opts.trees, "trees", 0, "isolation forest size (overrides config)")
	f.Float64Var(&opts.contamination, "contamination", 0, "expected anomalous fraction in (0, 0.5] (overrides config)")
	f.Int64Var(&opts.seed, "seed", 0, "random seed (overrides config)")
	f.IntVar(&opts.maxSamples, "max-samples", 0, "per-tree sample size, 0 for min(256, n) (overrides config)")
	f.StringVar(&opts.url, "url", "", "score on a running server at this base URL")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout with --url")
	return cmd
}

// scoreBatch scores in locally or through the server named by --url.
func (o *scoreOptions) scoreBatch(cmd *cobra.Command, root *rootOptions, in io.Reader) (types.Batch, error) {
	ctx := cmd.Context()
	if o.url != "" {
		return sampledata.NewClient(o.url, o.timeout).Score(ctx, in)
	}

	cfg := root.cfg
	flags := cmd.Flags()
	if flags.Changed("trees") {
		cfg.Trees = o.trees
	}
	if flags.Changed("contamination") {
		cfg.Contamination = o.contamination
	}
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if flags.Changed("max-samples") {
		cfg.MaxSamples = o.maxSamples
	}

	det, err := detect.New(
		detect.WithTrees(cfg.Trees),
		detect.WithContamination(cfg.Contamination),
		detect.WithSeed(cfg.Seed),
		detect.WithMaxSamples(cfg.MaxSamples),
		detect.WithMissingSentinel(cfg.MissingSentinel),
		detect.WithLabels(cfg.NormalLabel, cfg.AnomalyLabel),
		detect.WithLogger(logger.Get()),
	)
	if err != nil {
		return types.Batch{}, err
	}

	ds, err := tabular.Decode(in)
	if err != nil {
		return types.Batch{}, err
	}
	out, err := det.Score(ctx, ds)
	if err != nil {
		return types.Batch{}, err
	}
	return types.FromLabeled(out), nil
}

// writeBatchCSV writes a JSON-shaped batch back through the CSV encoder.
func writeBatchCSV(w io.Writer, b types.Batch) error {
	rows := make([]model.LabeledRecord, len(b.Rows))
	for i, r := range b.Rows {
		rows[i] = model.LabeledRecord{
			AssignmentID:   r.AssignmentID,
			OrderID:        r.OrderID,
			AssignHour:     number(r.AssignHour),
			ActivationHour: number(r.ActivationHour),
			Qty:            number(r.Qty),
			Provider:       r.Provider,
			SKU:            r.SKU,
			Label:          r.Label,
			Score:          r.Score,
		}
	}
	return tabular.Encode(w, rows)
}

func number(v *float64) model.Number {
	if v == nil {
		return model.Missing
	}
	return model.Some(*v)
}

// openInput opens path for reading, or returns r for "-".
func openInput(path string, r io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return r, func() {}, nil
	}
	f, err := os.Open(path) //nolint:gosec // user supplied input path
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
