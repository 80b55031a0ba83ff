package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NetworkArchetype/PLM/internal/profile"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                      `json:"valid"`
	Hash   string                    `json:"hash,omitempty"`
	Errors []profile.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <profile.cue>",
		Short: "Validate a profile without running it",
		Long: `Compile and validate a CUE run profile without executing it.

All validation errors are collected and reported together with their
codes, so one pass shows everything that needs fixing. On success the
profile's content hash is printed; two profiles that mean the same run
hash identically regardless of spelling.

Exit codes:
  0 - Profile valid
  1 - Profile invalid
  2 - Command error (file not found, CUE compile error)

Examples:
  plm validate ./profiles/golden_walk.cue
  plm validate ./profiles/golden_walk.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Compiling profile %s", path)

	p, err := profile.Load(path)
	if err != nil {
		var compileErr *profile.CompileError
		if errors.As(err, &compileErr) {
			_ = formatter.Error("COMPILE", compileErr.Error(),
				map[string]string{"field": compileErr.Field})
			return WrapExitError(ExitCommandError, "failed to compile profile", err)
		}
		_ = formatter.Error("COMPILE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load profile", err)
	}

	formatter.VerboseLog("Validating profile %q", p.Name)

	if errs := profile.Validate(p); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	hash, err := p.Hash()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to hash profile", err)
	}

	return outputValidateSuccess(formatter, p, hash)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, p *profile.Profile, hash string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Hash: hash})
	}

	fmt.Fprintf(formatter.Writer, "✓ Profile %q valid\n", p.Name)
	fmt.Fprintf(formatter.Writer, "  hash: %s\n", hash)
	return nil
}

// outputValidationErrors outputs the collected validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []profile.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
