package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yunseong/proptune/internal/ep"
	"github.com/yunseong/proptune/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded optimization runs",
		Long: `List optimization runs recorded in the history database.

Runs carrying the same content hash produced identical recommendation sets.
With --run, the records of a single run are shown instead.

Example:
  proptune history --db history.db
  proptune history --db history.db --run 0190c7a2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the records of one run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error())
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	if opts.RunID != "" {
		run, err := st.GetRun(ctx, opts.RunID)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error())
			return WrapExitError(ExitCommandError, "failed to load run", err)
		}
		return outputRun(formatter, run)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error())
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}
	return outputRuns(formatter, runs)
}

func outputRuns(formatter *OutputFormatter, runs []store.Run) error {
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No recorded runs.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  policy=%s  hash=%.12s\n",
			run.ID, run.CreatedAt.Format(time.RFC3339), run.Policy, run.ContentHash)
	}
	return nil
}

func outputRun(formatter *OutputFormatter, run *store.Run) error {
	if formatter.Format == "json" {
		return formatter.Success(run)
	}

	fmt.Fprintf(formatter.Writer, "Run %s (%s, policy=%s)\n",
		run.ID, run.CreatedAt.Format(time.RFC3339), run.Policy)
	for _, rec := range run.Records {
		fmt.Fprintf(formatter.Writer, "  %s %d: %s = %s\n",
			rec.Type, rec.ID, rec.QualifiedKey(), ep.FormatValue(rec.EPValue))
	}
	return nil
}
