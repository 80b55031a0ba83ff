package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/NetworkArchetype/PLM/internal/store"
	"github.com/NetworkArchetype/PLM/internal/temporal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - replay a single run instead of listing
}

// RunDetail holds one recorded run with its samples.
type RunDetail struct {
	Run     store.RunRecord `json:"run"`
	Samples []store.Sample  `json:"samples"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded runs",
		Long: `List recorded runs, or replay one run's samples from the database.

Without --run, lists all recorded runs newest first. With --run, prints
the run's metadata and its full sample series; text format emits the
samples as CSV (t,S,theta,p1,expZ), identical to what the run command
produced when the run was recorded.

Examples:
  plm trace --db ./plm.db
  plm trace --db ./plm.db --run 0190a6e2-dc28-7f00-8000-000000000000
  plm trace --db ./plm.db --run 0190a6e2-dc28-7f00-8000-000000000000 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to replay")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(ctx, st, opts, cmd)
	}
	return traceRun(ctx, st, opts, cmd)
}

// listRuns prints all recorded runs, newest first.
func listRuns(ctx context.Context, st *store.Store, opts *TraceOptions, cmd *cobra.Command) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return nil
	}

	fmt.Fprintf(w, "%d run(s)\n\n", len(runs))
	for _, run := range runs {
		fmt.Fprintf(w, "  %s  %s\n", run.ID, run.Name)
		if opts.Verbose {
			fmt.Fprintf(w, "      hash=%s steps=%d shots=%d created=%s\n",
				run.ProfileHash, run.Steps, run.Shots,
				run.CreatedAt.Format(time.RFC3339))
		}
	}
	return nil
}

// traceRun prints one run's metadata and replays its samples.
func traceRun(ctx context.Context, st *store.Store, opts *TraceOptions, cmd *cobra.Command) error {
	run, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", opts.RunID))
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	samples, err := st.ReadSamples(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read samples", err)
	}

	if opts.Format == "json" {
		return outputTraceJSON(cmd, RunDetail{Run: run, Samples: samples})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "Name: %s\n", run.Name)
	fmt.Fprintf(w, "Profile Hash: %s\n", run.ProfileHash)
	fmt.Fprintf(w, "Precision: %d\n", run.Precision)
	fmt.Fprintf(w, "Scale: %g\n", run.Scale)
	fmt.Fprintf(w, "Shots: %d\n", run.Shots)
	fmt.Fprintf(w, "Steps: %d\n", run.Steps)
	fmt.Fprintf(w, "Created: %s\n", run.CreatedAt.Format(time.RFC3339Nano))
	fmt.Fprintln(w)

	return temporal.WriteCSV(w, sampleRecords(samples))
}

// sampleRecords converts stored samples back to series records so the
// replay renders through the same CSV writer as the original run.
func sampleRecords(samples []store.Sample) []temporal.Record {
	records := make([]temporal.Record, len(samples))
	for i, s := range samples {
		records[i] = temporal.Record{
			T:     s.T,
			S:     s.S,
			Theta: s.Theta,
			P1:    s.P1,
			ExpZ:  s.ExpZ,
		}
	}
	return records
}

// outputTraceJSON outputs a trace result as an indented JSON response.
func outputTraceJSON(cmd *cobra.Command, data interface{}) error {
	response := CLIResponse{
		Status: "ok",
		Data:   data,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
