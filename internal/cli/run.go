package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/NetworkArchetype/PLM/internal/plm"
	"github.com/NetworkArchetype/PLM/internal/profile"
	"github.com/NetworkArchetype/PLM/internal/sequencer"
	"github.com/NetworkArchetype/PLM/internal/store"
	"github.com/NetworkArchetype/PLM/internal/temporal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Steps    int64  // overrides the profile's step count when > 0
	Oracle   string // "analytic" | "sampled"
	Seed     int64
	Record   bool
	Database string
	Name     string // run name, defaults to the profile name
}

// RunSummary holds the run command output for JSON format.
type RunSummary struct {
	RunID       string            `json:"run_id,omitempty"`
	Name        string            `json:"name"`
	ProfileHash string            `json:"profile_hash"`
	Steps       int               `json:"steps"`
	Records     []temporal.Record `json:"records"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <profile.cue>",
		Short: "Run a profile and emit its time series",
		Long: `Step a profile's pipeline through time and emit one record per step.

Each step reads the current transform value, maps it to a rotation
angle, queries the oracle for a probability, and then advances the
sequencer. Text format emits CSV (t,S,theta,p1,expZ) on stdout; JSON
format emits the full record set. With --record the run and its samples
are also written to a SQLite database under a fresh UUIDv7 run ID.

The analytic oracle evaluates the rotation in closed form and is fully
deterministic. The sampled oracle estimates the same probability from
seeded Bernoulli draws; the same seed reproduces the same series.

Examples:
  plm run ./profiles/golden_walk.cue
  plm run ./profiles/golden_walk.cue --steps 100 > series.csv
  plm run ./profiles/golden_walk.cue --oracle sampled --seed 42
  plm run ./profiles/golden_walk.cue --record --db ./plm.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Steps, "steps", 0, "override the profile's step count")
	cmd.Flags().StringVar(&opts.Oracle, "oracle", "analytic", "rotation oracle (analytic|sampled)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed for the sampled oracle")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "write the run and its samples to the database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required with --record)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "run name (defaults to the profile name)")

	return cmd
}

func runProfile(opts *RunOptions, path string, cmd *cobra.Command) error {
	oracle, err := selectOracle(opts, cmd)
	if err != nil {
		return err
	}
	if opts.Record && opts.Database == "" {
		return NewExitError(ExitCommandError, "--record requires --db")
	}

	slog.Info("loading profile", "path", path)
	p, err := profile.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load profile", err)
	}

	runnable, err := p.Build()
	if err != nil {
		var valErr profile.ValidationError
		if errors.As(err, &valErr) {
			return WrapExitError(ExitFailure, "invalid profile", err)
		}
		return WrapExitError(ExitFailure, "failed to build profile", err)
	}
	hash, err := p.Hash()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to hash profile", err)
	}

	steps := runnable.Steps
	if opts.Steps > 0 {
		steps = int(opts.Steps)
	}
	slog.Info("profile compiled", "name", p.Name, "hash", hash,
		"steps", steps, "oracle", opts.Oracle)

	seq := sequencer.New(runnable.Inputs, runnable.Rule)
	records, err := temporal.Run(seq, steps, runnable.Config, oracle)
	if err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}

	name := opts.Name
	if name == "" {
		name = p.Name
	}

	var runID string
	if opts.Record {
		runID, err = recordRun(opts.Database, name, hash, runnable, steps, records)
		if err != nil {
			return err
		}
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(RunSummary{
			RunID:       runID,
			Name:        name,
			ProfileHash: hash,
			Steps:       steps,
			Records:     records,
		})
	}

	if err := temporal.WriteCSV(cmd.OutOrStdout(), records); err != nil {
		return WrapExitError(ExitFailure, "failed to write series", err)
	}
	return nil
}

// selectOracle maps the --oracle flag to an implementation.
func selectOracle(opts *RunOptions, cmd *cobra.Command) (temporal.RotationOracle, error) {
	if cmd.Flags().Changed("seed") && opts.Oracle != "sampled" {
		return nil, NewExitError(ExitCommandError, "--seed requires --oracle sampled")
	}
	switch opts.Oracle {
	case "analytic":
		return temporal.AnalyticOracle{}, nil
	case "sampled":
		return temporal.NewSampledOracle(opts.Seed), nil
	default:
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("invalid oracle %q: must be analytic or sampled", opts.Oracle))
	}
}

// recordRun persists the run and its samples atomically and returns the
// fresh run ID.
func recordRun(dbPath, name, hash string, runnable *profile.Runnable, steps int, records []temporal.Record) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	run := store.NewRunRecord(name, hash, plm.Precision,
		runnable.Config.Scale, int64(runnable.Config.Shots), int64(steps))
	if err := st.RecordRun(context.Background(), run, records); err != nil {
		return "", WrapExitError(ExitCommandError, "failed to record run", err)
	}

	slog.Info("run recorded", "run_id", run.ID, "samples", len(records))
	return run.ID, nil
}
