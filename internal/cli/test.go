package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NetworkArchetype/PLM/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario files against their profiles",
		Long: `Run YAML scenario files with the conformance harness.

Each scenario names a profile, runs it with the analytic oracle, and
checks its assertions. A scenario with a sibling .golden file is also
compared against that file's canonical trace; --update regenerates the
golden files from the current traces.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  plm test ./scenarios
  plm test ./scenarios --filter "crc_*"
  plm test ./scenarios --update
  plm test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(scenarioFiles) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	for _, scenarioFile := range scenarioFiles {
		scenResult := runScenario(scenarioFile, opts, cmd)
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

// findScenarioFiles finds all YAML scenario files in a directory, with an
// optional glob filter on the base name.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenario executes a single scenario and returns the result.
func runScenario(scenarioFile string, opts *TestOptions, cmd *cobra.Command) ScenarioResult {
	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return failScenario(cmd, opts, filepath.Base(scenarioFile),
			fmt.Sprintf("failed to load scenario: %v", err))
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return failScenario(cmd, opts, scenario.Name,
			fmt.Sprintf("execution failed: %v", err))
	}

	errs := append([]string{}, result.Errors...)
	goldenPath := goldenFilePath(scenarioFile)

	if opts.Update {
		if err := updateGoldenFile(goldenPath, scenario.Name, result); err != nil {
			errs = append(errs, fmt.Sprintf("failed to update golden file: %v", err))
		}
	} else if _, statErr := os.Stat(goldenPath); statErr == nil {
		if err := compareGoldenFile(goldenPath, scenario.Name, result); err != nil {
			errs = append(errs, err.Error())
		}
	}

	scenResult := ScenarioResult{
		Name:   scenario.Name,
		Pass:   len(errs) == 0,
		Errors: errs,
	}

	if opts.Format != "json" {
		w := cmd.OutOrStdout()
		if scenResult.Pass {
			if opts.Update {
				fmt.Fprintf(w, "✓ %s (golden updated)\n", scenario.Name)
			} else {
				fmt.Fprintf(w, "✓ %s\n", scenario.Name)
			}
		} else {
			fmt.Fprintf(w, "✗ %s\n", scenario.Name)
			for _, e := range errs {
				fmt.Fprintf(w, "  %s\n", indentLines(e))
			}
		}
	}
	return scenResult
}

// failScenario reports a scenario that could not be executed at all.
func failScenario(cmd *cobra.Command, opts *TestOptions, name, msg string) ScenarioResult {
	if opts.Format != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n  %s\n", name, msg)
	}
	return ScenarioResult{Name: name, Pass: false, Errors: []string{msg}}
}

// goldenFilePath returns the sibling golden file for a scenario file.
func goldenFilePath(scenarioFile string) string {
	ext := filepath.Ext(scenarioFile)
	return strings.TrimSuffix(scenarioFile, ext) + ".golden"
}

// updateGoldenFile writes the scenario's canonical trace to its golden file.
func updateGoldenFile(goldenPath, scenarioName string, result *harness.Result) error {
	snapshot, err := harness.Snapshot(scenarioName, result)
	if err != nil {
		return err
	}
	return os.WriteFile(goldenPath, snapshot, 0644)
}

// compareGoldenFile compares the scenario's canonical trace against its
// golden file.
func compareGoldenFile(goldenPath, scenarioName string, result *harness.Result) error {
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		return fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := harness.Snapshot(scenarioName, result)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("trace does not match %s (run with --update to regenerate)", filepath.Base(goldenPath))
	}
	return nil
}

// indentLines keeps multi-line assertion errors aligned under their
// scenario entry.
func indentLines(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}

// outputTestJSON outputs the test result as a JSON response.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	if result.Failed > 0 {
		if err := formatter.Success(result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return formatter.Success(result)
}

// outputTestText outputs the test result summary as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Passed: %d  Failed: %d  Total: %d\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return nil
}
