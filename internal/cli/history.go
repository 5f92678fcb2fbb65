package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/history"
	pkgio "github.com/matzehuels/footrule/pkg/io"
)

// historyCommand creates the history command for inspecting recorded runs.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and show recorded aggregation runs",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyDeleteCommand())
	cmd.AddCommand(c.historyBrowseCommand())

	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(store history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}
				if len(runs) == 0 {
					printInfo("No runs recorded")
					return nil
				}
				writeRunList(c.Out, runs)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "maximum number of runs to list")
	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var (
		format   string
		distance string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a recorded run",
		Long: `Show a recorded run.

Without --format, prints a summary of the run. With --format, re-renders the
stored consensus ranking exactly as 'merge' would have.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(store history.Store) error {
				run, err := getRun(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if format == "" && output == "" {
					writeRunDetail(c.Out, run)
					return nil
				}
				opts := pkgio.Options{Format: pkgio.Format(format), Distance: pkgio.Placement(distance)}
				res := runResult(run)
				if output != "" {
					if err := pkgio.Export(res, output, opts); err != nil {
						return err
					}
					printSuccess("Run %s exported", run.ID)
					printFile(output)
					return nil
				}
				return pkgio.Write(res, c.Out, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "render as: text, json, dot, svg")
	cmd.Flags().StringVar(&distance, "distance", "", "where text output prints the distance: first (default), last, none")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the rendered run to a file")
	return cmd
}

// historyDeleteCommand creates the "history delete" subcommand.
func (c *CLI) historyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(store history.Store) error {
				if _, err := getRun(cmd.Context(), store, args[0]); err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete run: %w", err)
				}
				printSuccess("Deleted run %s", args[0])
				return nil
			})
		},
	}
}

// historyBrowseCommand creates the "history browse" subcommand, an
// interactive run picker.
func (c *CLI) historyBrowseCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse recent runs interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withHistory(cmd.Context(), func(store history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}
				if len(runs) == 0 {
					printInfo("No runs recorded")
					return nil
				}

				p := tea.NewProgram(NewRunListModel(runs), tea.WithContext(cmd.Context()))
				final, err := p.Run()
				if err != nil {
					return fmt.Errorf("run browser: %w", err)
				}
				if m, ok := final.(RunListModel); ok && m.Selected != nil {
					writeRunDetail(c.Out, m.Selected)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "maximum number of runs to load")
	return cmd
}

// withHistory opens the configured history store for the duration of fn.
func (c *CLI) withHistory(ctx context.Context, fn func(history.Store) error) error {
	cfg, err := loadConfig(c.ConfigPath)
	if err != nil {
		return err
	}
	store, err := newHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func getRun(ctx context.Context, store history.Store, id string) (*history.Run, error) {
	run, err := store.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, history.ErrInvalidID) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "run id %q", id)
		}
		return nil, err
	}
	if run == nil {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
	}
	return run, nil
}

// runResult rebuilds the aggregation result stored in run.
func runResult(run *history.Run) *aggregate.Result {
	return &aggregate.Result{
		Ranking:  run.Ranking,
		Distance: run.Distance,
		Method:   aggregate.Method(run.Method),
		Rounds:   run.Rounds,
	}
}

func writeRunList(w io.Writer, runs []*history.Run) {
	for _, run := range runs {
		cached := styleComputed.Render(iconFresh)
		if run.Cached {
			cached = styleCached.Render(iconCached)
		}
		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
			StyleValue.Render(run.ID),
			StyleDim.Render(run.CreatedAt.Local().Format(time.DateTime)),
			StyleNumber.Render(fmt.Sprintf("%4d items", run.Len())),
			StyleNumber.Render(fmt.Sprintf("%.6f", run.Distance)),
			cached)
	}
}

func writeRunDetail(w io.Writer, run *history.Run) {
	fmt.Fprintln(w, StyleTitle.Render("Run "+run.ID))
	keyValue(w, "Created", run.CreatedAt.Local().Format(time.RFC3339))
	if len(run.Inputs) > 0 {
		keyValue(w, "Inputs", strings.Join(run.Inputs, ", "))
	}
	keyValue(w, "Rankings", fmt.Sprintf("%d", len(run.Rankings)))
	keyValue(w, "Items", fmt.Sprintf("%d", run.Len()))
	keyValue(w, "Method", run.Method)
	keyValue(w, "Rounds", fmt.Sprintf("%d", run.Rounds))
	keyValue(w, "Distance", fmt.Sprintf("%.6f", run.Distance))
	keyValue(w, "Duration", run.Duration.Round(time.Microsecond).String())
	keyValue(w, "Cached", fmt.Sprintf("%t", run.Cached))
	fmt.Fprintln(w)
	for i, item := range run.Ranking {
		fmt.Fprintf(w, "%s %s\n", StyleDim.Render(fmt.Sprintf("%4d.", i+1)), StyleHighlight.Render(item))
	}
}
