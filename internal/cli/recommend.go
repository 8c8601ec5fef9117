package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yunseong/proptune/internal/dataset"
	"github.com/yunseong/proptune/internal/ep"
	"github.com/yunseong/proptune/internal/model"
	"github.com/yunseong/proptune/internal/recommend"
	"github.com/yunseong/proptune/internal/store"
)

// RecommendOptions holds flags for the recommend command.
type RecommendOptions struct {
	*RootOptions
	DAGSummary   string
	PropertyDir  string
	ResourceInfo string
	TreesDir     string
	Output       string
	Database     string
	Policy       string
	ConfigPath   string

	// Trainer allows overriding the training collaborator (for testing).
	// If nil, defaults to a DumpTrainer over TreesDir.
	Trainer dataset.Trainer
}

// RecommendResult is the success payload of the recommend command.
type RecommendResult struct {
	Explanations []string            `json:"explanations"`
	Records      []ep.Recommendation `json:"records"`
	Output       string              `json:"output"`
	RunID        string              `json:"run_id,omitempty"`
	ContentHash  string              `json:"content_hash,omitempty"`
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecommendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Derive execution-property recommendations from trained trees",
		Long: `Derive execution-property recommendations from a trained tree ensemble.

Merges the per-split importance of every tree, resolves feature ids back to
execution-property keys, and emits one recommendation per derivable split.
The JSON record array is printed and written to the output file, and the
run is recorded in the history store when a database path is configured.

Example:
  proptune recommend -d ./metrics/properties --trees ./metrics/trees
  proptune recommend -s dag.json -d ./properties -r resources.json --db history.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.DAGSummary, "dagsummary", "s", "", "path to DAG summary JSON (display only)")
	cmd.Flags().StringVarP(&opts.PropertyDir, "dagpropertydir", "d", "", "directory of per-element property JSON files (required)")
	cmd.Flags().StringVarP(&opts.ResourceInfo, "resourceinfo", "r", "", "path to cluster resource JSON (display only)")
	cmd.Flags().StringVar(&opts.TreesDir, "trees", "", "directory of per-tree importance dumps (default <dagpropertydir>/trees)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file for the recommendation JSON")
	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path (empty disables history)")
	cmd.Flags().StringVar(&opts.Policy, "policy", "", "merge policy: replace, sum, or max")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "config file path (default proptune.yaml if present)")
	_ = cmd.MarkFlagRequired("dagpropertydir")

	return cmd
}

func runRecommend(opts *RecommendOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error())
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	policy, err := model.ParsePolicy(cfg.Policy)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error())
		return WrapExitError(ExitCommandError, "invalid merge policy", err)
	}

	// Load inputs
	slog.Info("loading dataset", "property_dir", opts.PropertyDir)
	ds, err := dataset.Load(opts.DAGSummary, opts.PropertyDir, opts.ResourceInfo)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error())
		return WrapExitError(ExitCommandError, "failed to load dataset", err)
	}
	slog.Info("dataset loaded", "features", ds.Registry.Size())
	formatter.VerboseLog("Registered %d feature(s) from %s", ds.Registry.Size(), opts.PropertyDir)

	// Obtain the trained ensemble
	trainer := opts.Trainer
	if trainer == nil {
		treesDir := opts.TreesDir
		if treesDir == "" {
			treesDir = filepath.Join(opts.PropertyDir, "trees")
		}
		trainer = dataset.DumpTrainer{Dir: treesDir}
	}
	ensemble, err := trainer.Train(ds)
	if err != nil {
		_ = formatter.Error(ErrCodeTrainFailed, err.Error())
		return WrapExitError(ExitCommandError, "failed to obtain trained trees", err)
	}
	trees := dataset.SortTrees(ensemble)
	slog.Info("ensemble ready", "trees", len(trees), "policy", policy)
	formatter.VerboseLog("Merging %d tree(s) with policy %s", len(trees), policy)

	// Fold importance mappings and synthesize recommendations
	merged := model.MergeAll(trees, policy)
	explanations, records := recommend.New(ds.Registry).Synthesize(merged)
	slog.Info("recommendations synthesized", "explanations", len(explanations), "records", len(records))

	recordJSON, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error())
		return WrapExitError(ExitFailure, "failed to marshal records", err)
	}
	if records == nil {
		recordJSON = []byte("[]")
	}

	if err := os.WriteFile(cfg.Output, append(recordJSON, '\n'), 0644); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error())
		return WrapExitError(ExitFailure, "failed to write output file", err)
	}

	result := &RecommendResult{
		Explanations: explanations,
		Records:      records,
		Output:       cfg.Output,
	}

	// Record the run when a history database is configured
	if cfg.Database != "" {
		run, err := recordHistory(cmd, cfg.Database, string(policy), records)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error())
			return WrapExitError(ExitFailure, "failed to record history", err)
		}
		result.RunID = run.ID
		result.ContentHash = run.ContentHash
	}

	return outputRecommendResult(formatter, ds, result, string(recordJSON))
}

// resolveConfig merges the config file with command-line flags. Flags that
// were explicitly set win.
func resolveConfig(opts *RecommendOptions, cmd *cobra.Command) (Config, error) {
	path := opts.ConfigPath
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("policy") {
		cfg.Policy = opts.Policy
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = opts.Output
	}
	if cmd.Flags().Changed("db") {
		cfg.Database = opts.Database
	}
	return cfg, nil
}

func recordHistory(cmd *cobra.Command, dbPath, policy string, records []ep.Recommendation) (*store.Run, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing history database", "error", closeErr)
		}
	}()
	return st.RecordRun(ctx, policy, records)
}

func outputRecommendResult(formatter *OutputFormatter, ds *dataset.Dataset, result *RecommendResult, recordJSON string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output, explanations first
	if ds.Summary != nil {
		fmt.Fprintf(formatter.Writer, "DAG %s: %d vertices, %d edges\n",
			ds.Summary.JobID, ds.Summary.VertexCount, ds.Summary.EdgeCount)
	}
	for _, r := range ds.Resources {
		fmt.Fprintf(formatter.Writer, "Resource %s: %d MB x %d\n", r.Type, r.MemoryMB, r.Capacity)
	}

	for _, line := range result.Explanations {
		fmt.Fprintln(formatter.Writer, line)
	}

	fmt.Fprintln(formatter.Writer, "RESULT:")
	fmt.Fprintln(formatter.Writer, recordJSON)
	fmt.Fprintf(formatter.Writer, "Wrote %d recommendation(s) to %s\n", len(result.Records), result.Output)
	if result.RunID != "" {
		fmt.Fprintf(formatter.Writer, "Recorded run %s (hash %.12s)\n", result.RunID, result.ContentHash)
	}
	return nil
}

// configureLogging sets the process-wide slog handler.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
