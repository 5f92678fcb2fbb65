package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/footrule/pkg/aggregate"
	pkgio "github.com/matzehuels/footrule/pkg/io"
	"github.com/matzehuels/footrule/pkg/pipeline"
)

// mergeFlags holds the command-line flags for the merge command.
type mergeFlags struct {
	output   string
	method   string
	format   string
	distance string
	maxItems int
	noCache  bool
	refresh  bool
	noRecord bool
}

// mergeCommand creates the merge command that aggregates ranking files.
func (c *CLI) mergeCommand() *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "merge FILE FILE [FILE...]",
		Short: "Aggregate ranking files into a consensus ranking",
		Long: `Aggregate ranking files into the consensus ranking that minimizes the total
scaled footrule distance.

Each file lists items separated by whitespace, best first. Files may rank
different subsets of items; the consensus ranks every item that appears in
any file.

By default the total distance is printed on the first line followed by one
item per line:

  $ footrule merge a.txt b.txt
  1.333333
  A
  B
  C`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.ConfigPath)
			if err != nil {
				return err
			}
			opts := mergeOptions(cmd, cfg, &flags)
			opts.Inputs = args
			return c.runMerge(cmd.Context(), cfg, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&flags.method, "method", "m", "", "solver: "+joinMethods()+" (default from config, hungarian)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: text (default), json, dot, svg")
	cmd.Flags().StringVar(&flags.distance, "distance", "", "where text output prints the distance: first (default), last, none")
	cmd.Flags().IntVar(&flags.maxItems, "max-items", 0, "maximum distinct items (default from config, 1000)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even if the result is cached")
	cmd.Flags().BoolVar(&flags.noRecord, "no-history", false, "do not record the run in history")

	return cmd
}

// mergeOptions builds pipeline options from the config, overridden by any
// flags that were set.
func mergeOptions(cmd *cobra.Command, cfg *Config, flags *mergeFlags) pipeline.Options {
	opts := pipeline.Options{
		Method:      aggregate.Method(cfg.Solver.Method),
		MaxItems:    cfg.Solver.MaxItems,
		Format:      pkgio.Format(cfg.Output.Format),
		Distance:    pkgio.Placement(cfg.Output.Distance),
		Refresh:     flags.refresh,
		SkipHistory: flags.noRecord,
	}
	set := cmd.Flags().Changed
	if set("method") {
		opts.Method = aggregate.Method(flags.method)
	}
	if set("format") {
		opts.Format = pkgio.Format(flags.format)
	}
	if set("distance") {
		opts.Distance = pkgio.Placement(flags.distance)
	}
	if set("max-items") {
		opts.MaxItems = flags.maxItems
	}
	return opts
}

// runMerge executes the pipeline and writes the rendered result.
func (c *CLI) runMerge(ctx context.Context, cfg *Config, opts pipeline.Options, flags mergeFlags) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	prog := newProgress(logger)

	if flags.output == "" {
		res, err := runner.Execute(ctx, opts)
		if err != nil {
			return err
		}
		_, err = c.Out.Write(res.Output)
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Aggregating %d rankings...", len(opts.Inputs)))
	opts.Progress = spinner.Observe
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Aggregation failed")
		return err
	}
	spinner.Stop()

	if err := os.WriteFile(flags.output, res.Output, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", flags.output, err)
	}

	prog.done("wrote output", "path", flags.output, "bytes", len(res.Output))
	printSuccess("Consensus ranking written")
	printFile(flags.output)
	printStats(res.Stats.Rankings, res.Stats.Items, res.Aggregate.Distance, res.CacheInfo.SolveHit)
	if res.RunID != "" {
		printNewline()
		printNextStep("Inspect", appName+" history show "+res.RunID)
	}
	return nil
}

func joinMethods() string {
	names := make([]string, len(aggregate.Methods))
	for i, m := range aggregate.Methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
